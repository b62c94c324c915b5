package repositories

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cosmosecure/web/domain"
)

// UserRepositoryImpl implements domain.UserRepository against the
// Mongo users collection.
type UserRepositoryImpl struct {
	users *mongo.Collection
}

// NewUserRepository creates a new user repository.
func NewUserRepository(users *mongo.Collection) domain.UserRepository {
	return &UserRepositoryImpl{users: users}
}

// credentialDoc is the `ep` sub-document. Field names preserve the
// collection's historical short keys.
type credentialDoc struct {
	Hash string  `bson:"ph"`
	ZKP  *string `bson:"zkp"`
}

type resetSessionDoc struct {
	SessionID  string     `bson:"sessionId"`
	ExpiresAt  time.Time  `bson:"expiresAt"`
	CreatedAt  time.Time  `bson:"createdAt"`
	Verified   bool       `bson:"verified"`
	VerifiedAt *time.Time `bson:"verifiedAt,omitempty"`
	Email      string     `bson:"email"`
}

type userDoc struct {
	OID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID          string             `bson:"ui"`
	Username        string             `bson:"username"`
	Name            string             `bson:"n"`
	Email           string             `bson:"email"`
	Credential      credentialDoc      `bson:"ep"`
	CreatedAt       time.Time          `bson:"c"`
	LastLogin       time.Time          `bson:"l"`
	UsernameChanges int                `bson:"uc"`
	PasswordCounts  []int              `bson:"pc"`
	ResetSession    *resetSessionDoc   `bson:"passwordResetSession,omitempty"`
}

// Create implements domain.UserRepository. Duplicate-key errors from
// the unique indexes are mapped to the conflict sentinels so a racing
// registration surfaces as a Conflict rather than a raw driver error.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	doc := domainToDoc(user)

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyToConflict(err)
		}
		return err
	}
	return nil
}

// FindByID implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"ui": userID})
}

// FindByUsername implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": strings.ToLower(username)})
}

// FindByEmail implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

// FindByIdentifier implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	ident := strings.ToLower(identifier)
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": ident},
		bson.M{"email": ident},
	}})
}

// UpdateLastLogin implements domain.UserRepository.
func (r *UserRepositoryImpl) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"ui": userID},
		bson.M{"$set": bson.M{"l": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SetResetSession implements domain.UserRepository.
func (r *UserRepositoryImpl) SetResetSession(ctx context.Context, email string, session *domain.ResetSession) error {
	filter := bson.M{"email": strings.ToLower(email)}

	var update bson.M
	if session == nil {
		update = bson.M{"$unset": bson.M{"passwordResetSession": ""}}
	} else {
		update = bson.M{"$set": bson.M{"passwordResetSession": sessionToDoc(session)}}
	}

	res, err := r.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// MarkResetVerified implements domain.UserRepository. The filter pins
// the session token, expiry and unverified state so the single
// false->true transition is enforced at the store.
func (r *UserRepositoryImpl) MarkResetVerified(ctx context.Context, email, sessionID string, at time.Time) error {
	filter := bson.M{
		"email":                          strings.ToLower(email),
		"passwordResetSession.sessionId": sessionID,
		"passwordResetSession.expiresAt": bson.M{"$gt": at},
		"passwordResetSession.verified":  false,
	}
	update := bson.M{"$set": bson.M{
		"passwordResetSession.verified":   true,
		"passwordResetSession.verifiedAt": at,
	}}

	res, err := r.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return domain.ErrResetSessionInvalid
	}
	return nil
}

// CompletePasswordReset implements domain.UserRepository. Hash
// replacement, counter bump, last-login stamp and session deletion
// happen in one filtered update against a verified, unexpired session.
func (r *UserRepositoryImpl) CompletePasswordReset(ctx context.Context, email, sessionID, passwordHash string, at time.Time) error {
	filter := bson.M{
		"email":                          strings.ToLower(email),
		"passwordResetSession.sessionId": sessionID,
		"passwordResetSession.expiresAt": bson.M{"$gt": at},
		"passwordResetSession.verified":  true,
	}
	update := bson.M{
		"$set":   bson.M{"ep.ph": passwordHash, "l": at},
		"$inc":   bson.M{"pc.0": 1},
		"$unset": bson.M{"passwordResetSession": ""},
	}

	res, err := r.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return domain.ErrResetSessionInvalid
	}
	return nil
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	err := r.users.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return docToDomain(&doc), nil
}

// duplicateKeyToConflict picks the conflict sentinel from the violated
// index name.
func duplicateKeyToConflict(err error) error {
	if strings.Contains(err.Error(), "uniq_username") || strings.Contains(err.Error(), "username") {
		return domain.ErrUsernameTaken
	}
	return domain.ErrEmailTaken
}

func domainToDoc(user *domain.User) *userDoc {
	doc := &userDoc{
		UserID:   user.ID,
		Username: strings.ToLower(user.Username),
		Name:     user.Name,
		Email:    strings.ToLower(user.Email),
		Credential: credentialDoc{
			Hash: user.Credential.Hash,
			ZKP:  user.Credential.ZKP,
		},
		CreatedAt:       user.CreatedAt,
		LastLogin:       user.LastLogin,
		UsernameChanges: user.UsernameChanges,
		PasswordCounts:  []int{user.PasswordsUsed, user.PasswordsMax},
		ResetSession:    sessionToDoc(user.ResetSession),
	}
	return doc
}

func docToDomain(doc *userDoc) *domain.User {
	user := &domain.User{
		ID:       doc.UserID,
		Username: doc.Username,
		Name:     doc.Name,
		Email:    doc.Email,
		Credential: domain.Credential{
			Hash: doc.Credential.Hash,
			ZKP:  doc.Credential.ZKP,
		},
		CreatedAt:       doc.CreatedAt,
		LastLogin:       doc.LastLogin,
		UsernameChanges: doc.UsernameChanges,
	}
	if len(doc.PasswordCounts) == 2 {
		user.PasswordsUsed = doc.PasswordCounts[0]
		user.PasswordsMax = doc.PasswordCounts[1]
	}
	if doc.ResetSession != nil {
		user.ResetSession = &domain.ResetSession{
			ID:         doc.ResetSession.SessionID,
			Email:      doc.ResetSession.Email,
			CreatedAt:  doc.ResetSession.CreatedAt,
			ExpiresAt:  doc.ResetSession.ExpiresAt,
			Verified:   doc.ResetSession.Verified,
			VerifiedAt: doc.ResetSession.VerifiedAt,
		}
	}
	return user
}

func sessionToDoc(session *domain.ResetSession) *resetSessionDoc {
	if session == nil {
		return nil
	}
	return &resetSessionDoc{
		SessionID:  session.ID,
		ExpiresAt:  session.ExpiresAt,
		CreatedAt:  session.CreatedAt,
		Verified:   session.Verified,
		VerifiedAt: session.VerifiedAt,
		Email:      strings.ToLower(session.Email),
	}
}

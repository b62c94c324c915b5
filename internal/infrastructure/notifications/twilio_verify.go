package notifications

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"

	"github.com/cosmosecure/web/domain"
)

// TwilioVerifyService implements domain.VerificationProvider using
// Twilio Verify's email channel. Code generation, delivery and
// checking all live with Twilio; nothing is stored locally.
type TwilioVerifyService struct {
	client     *twilio.RestClient
	serviceSID string
}

// NewTwilioVerifyService creates a Twilio Verify provider.
func NewTwilioVerifyService(accountSID, authToken, serviceSID string) domain.VerificationProvider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioVerifyService{
		client:     client,
		serviceSID: serviceSID,
	}
}

// Start implements domain.VerificationProvider.
func (t *TwilioVerifyService) Start(ctx context.Context, email string) error {
	params := &verify.CreateVerificationParams{}
	params.SetTo(email)
	params.SetChannel("email")

	if _, err := t.client.VerifyV2.CreateVerification(t.serviceSID, params); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	return nil
}

// Check implements domain.VerificationProvider.
func (t *TwilioVerifyService) Check(ctx context.Context, email, code string) (bool, error) {
	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(email)
	params.SetCode(code)

	resp, err := t.client.VerifyV2.CreateVerificationCheck(t.serviceSID, params)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	return resp.Status != nil && *resp.Status == "approved", nil
}

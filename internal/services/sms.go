package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/gehma/internal/apperrors"
)

// Verifier abstracts the SMS code gateway so tests and staging can swap in
// fixed-answer variants.
type Verifier interface {
	RequestCode(ctx context.Context, teleNum string) error
	CheckCode(ctx context.Context, teleNum, code string) (bool, error)
}

// TwilioVerifier talks to the Twilio Verify v2 API.
type TwilioVerifier struct {
	accountSID string
	authToken  string
	verifySID  string
	baseURL    string
	client     *http.Client
	logger     *zap.Logger
}

// NewTwilioVerifier creates a production verifier.
func NewTwilioVerifier(accountSID, authToken, verifySID string, logger *zap.Logger) *TwilioVerifier {
	return &TwilioVerifier{
		accountSID: accountSID,
		authToken:  authToken,
		verifySID:  verifySID,
		baseURL:    "https://verify.twilio.com/v2",
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// RequestCode asks the gateway to send a verification SMS. No server-side
// state changes here; the gateway owns the pending code.
func (v *TwilioVerifier) RequestCode(ctx context.Context, teleNum string) error {
	form := url.Values{}
	form.Set("To", teleNum)
	form.Set("Channel", "sms")

	resp, err := v.postForm(ctx, v.baseURL+"/Services/"+v.verifySID+"/Verifications", form)
	if err != nil {
		return apperrors.Gateway("sms gateway unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		v.logger.Error("sms gateway rejected verification request", zap.Int("status", resp.StatusCode))
		return apperrors.Gateway("sms gateway error", nil)
	}

	return nil
}

type verificationCheckResponse struct {
	To     string `json:"to"`
	Status string `json:"status"`
	Valid  bool   `json:"valid"`
}

// CheckCode validates a code against the gateway. The code counts as
// approved only when the gateway echoes the same number with an approved,
// valid check.
func (v *TwilioVerifier) CheckCode(ctx context.Context, teleNum, code string) (bool, error) {
	form := url.Values{}
	form.Set("To", teleNum)
	form.Set("Code", code)

	resp, err := v.postForm(ctx, v.baseURL+"/Services/"+v.verifySID+"/VerificationCheck", form)
	if err != nil {
		return false, apperrors.Gateway("sms gateway unreachable", err)
	}
	defer resp.Body.Close()

	// Twilio answers 404 for unknown or expired verifications.
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		v.logger.Error("sms gateway rejected verification check", zap.Int("status", resp.StatusCode))
		return false, apperrors.Gateway("sms gateway error", nil)
	}

	var check verificationCheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&check); err != nil {
		return false, apperrors.Gateway("sms gateway sent malformed response", err)
	}

	return check.To == teleNum && check.Status == "approved" && check.Valid, nil
}

func (v *TwilioVerifier) postForm(ctx context.Context, endpoint string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(v.accountSID, v.authToken)
	return v.client.Do(req)
}

// AcceptVerifier approves every code. Testing builds only.
type AcceptVerifier struct{}

func (AcceptVerifier) RequestCode(ctx context.Context, teleNum string) error { return nil }

func (AcceptVerifier) CheckCode(ctx context.Context, teleNum, code string) (bool, error) {
	return true, nil
}

// RejectVerifier rejects every code. Testing builds only.
type RejectVerifier struct{}

func (RejectVerifier) RequestCode(ctx context.Context, teleNum string) error { return nil }

func (RejectVerifier) CheckCode(ctx context.Context, teleNum, code string) (bool, error) {
	return false, nil
}

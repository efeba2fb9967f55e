package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		DatabaseURL:      "postgres://localhost/gehma",
		SessionKey:       "secret",
		SMSVerifier:      "twilio",
		TwilioAccountSID: "AC123",
		TwilioAuthToken:  "token",
		TwilioVerifySID:  "VA123",
		FCMAPIKey:        "fcm-key",
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	assert.NoError(t, validConfig().validate())
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = ""
	assert.Error(t, cfg.validate())
}

func TestValidateRequiresSessionKey(t *testing.T) {
	cfg := validConfig()
	cfg.SessionKey = ""
	assert.Error(t, cfg.validate())
}

func TestValidateRequiresFCMAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.FCMAPIKey = ""
	assert.Error(t, cfg.validate())
}

func TestValidateRequiresTwilioCredsForTwilioVerifier(t *testing.T) {
	cfg := validConfig()
	cfg.TwilioAuthToken = ""
	assert.Error(t, cfg.validate())
}

func TestValidateSkipsTwilioCredsForFixedVerifiers(t *testing.T) {
	cfg := validConfig()
	cfg.SMSVerifier = "accept"
	cfg.TwilioAccountSID = ""
	cfg.TwilioAuthToken = ""
	cfg.TwilioVerifySID = ""
	assert.NoError(t, cfg.validate())
}

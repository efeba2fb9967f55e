package config

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	BindingAddr      string
	Port             string
	DatabaseURL      string
	SessionKey       string
	SMSVerifier      string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioVerifySID  string
	FCMAPIKey        string
	StaticDir        string
}

// Load reads environment variables and returns a populated Config.
// Missing required values abort startup.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		BindingAddr:      getEnv("BINDING_ADDR", "0.0.0.0"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SessionKey:       getEnv("SESSION_KEY", ""),
		SMSVerifier:      getEnv("SMS_VERIFIER", "twilio"),
		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioVerifySID:  getEnv("TWILIO_VERIFY_SID", ""),
		FCMAPIKey:        getEnv("FCM_API_KEY", ""),
		StaticDir:        getEnv("STATIC_DIR", "./static"),
	}

	if err := cfg.validate(); err != nil {
		log.Fatal(err)
	}

	return cfg
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set")
	}
	if c.SessionKey == "" {
		return errors.New("SESSION_KEY must be set")
	}
	if c.FCMAPIKey == "" {
		return errors.New("FCM_API_KEY must be set")
	}
	if c.SMSVerifier == "twilio" && (c.TwilioAccountSID == "" || c.TwilioAuthToken == "" || c.TwilioVerifySID == "") {
		return errors.New("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_VERIFY_SID must be set for the twilio verifier")
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return c.BindingAddr + ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

package config

import (
	"crypto/rsa"
	"encoding/base64"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

const AppName = "ledger-api"

// Config holds all application configuration, including secrets, flags, etc.
type Config struct {
	AppName string
	AppPort string
	AppUrl  string
	DBUrl   string

	RSAPrivateKey *rsa.PrivateKey
	RSAPublicKey  *rsa.PublicKey

	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	MaxLoginAttempts int
	AttemptWindow    time.Duration
	LockDuration     time.Duration

	// SendGrid is optional: when the key is absent the invoice-send
	// endpoint reports external_service_failure instead of sending.
	SendGridAPIKey    string
	SendGridFromEmail string

	WarmupTimeout time.Duration

	ShortTokenTTL    bool
	CORSHighSecurity bool
}

// Constants for time-based configuration defaults.
const (
	MaxLoginAttempts          = 10
	AttemptWindow             = 5 * time.Minute
	LockDuration              = 10 * time.Minute
	DefaultTokenExpiry        = 15 * time.Minute
	DefaultRefreshTokenExpiry = 7 * 24 * time.Hour
	TestShortTokenExpiry      = 2 * time.Second
	TestShortRefreshExpiry    = 8 * time.Second
	DefaultWarmupTimeout      = 30 * time.Second
)

// LoadConfig reads the environment and returns a *Config.
// Missing required variables are fatal.
func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	appUrl := os.Getenv("APP_URL")
	if appUrl == "" {
		utils.Logger.Fatal("APP_URL env var is missing")
	}
	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		utils.Logger.Fatal("DB_URL env var is missing")
	}

	utils.Logger.Debugf("App can be accessed at: %s", appUrl)

	//----------------------------------------------------------------------
	// RSA keypair for access tokens (base64-wrapped PEM).
	//----------------------------------------------------------------------
	privateKeyBase64 := os.Getenv("RSA_PRIVATE_KEY_BASE64")
	if privateKeyBase64 == "" {
		utils.Logger.Fatal("RSA_PRIVATE_KEY_BASE64 env var is missing")
	}
	privateKeyPEM, err := base64.StdEncoding.DecodeString(privateKeyBase64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode base64 private key")
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA private key")
	}

	publicKeyBase64 := os.Getenv("RSA_PUBLIC_KEY_BASE64")
	if publicKeyBase64 == "" {
		utils.Logger.Fatal("RSA_PUBLIC_KEY_BASE64 env var is missing")
	}
	publicKeyPEM, err := base64.StdEncoding.DecodeString(publicKeyBase64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode base64 public key")
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	//----------------------------------------------------------------------
	// Token expiries. SHORT_TOKEN_TTL shrinks them for integration tests.
	//----------------------------------------------------------------------
	accessExpiry := DefaultTokenExpiry
	refreshExpiry := DefaultRefreshTokenExpiry
	shortTTL := os.Getenv("SHORT_TOKEN_TTL") == "true"
	if shortTTL {
		accessExpiry = TestShortTokenExpiry
		refreshExpiry = TestShortRefreshExpiry
		utils.Logger.Warn("SHORT_TOKEN_TTL is set; tokens expire in seconds")
	}

	sendGridAPIKey := os.Getenv("SENDGRID_API_KEY")
	sendGridFromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if sendGridAPIKey == "" {
		utils.Logger.Warn("SENDGRID_API_KEY not set; invoice emails disabled")
	}

	corsHighSecurity := os.Getenv("CORS_HIGH_SECURITY") == "true"

	return &Config{
		AppName:            AppName,
		AppPort:            appPort,
		AppUrl:             appUrl,
		DBUrl:              dbUrl,
		RSAPrivateKey:      privateKey,
		RSAPublicKey:       publicKey,
		AccessTokenExpiry:  accessExpiry,
		RefreshTokenExpiry: refreshExpiry,
		MaxLoginAttempts:   MaxLoginAttempts,
		AttemptWindow:      AttemptWindow,
		LockDuration:       LockDuration,
		SendGridAPIKey:     sendGridAPIKey,
		SendGridFromEmail:  sendGridFromEmail,
		WarmupTimeout:      DefaultWarmupTimeout,
		ShortTokenTTL:      shortTTL,
		CORSHighSecurity:   corsHighSecurity,
	}
}

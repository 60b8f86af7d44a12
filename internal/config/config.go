package config

import (
	"fmt"
	"os"
)

type Config struct {
	SpreadsheetID    string
	CredentialsPath  string
	TokenPath        string
	DataDir          string
	OAuthRedirectURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		SpreadsheetID:    os.Getenv("ONTRACK_SPREADSHEET_ID"),
		CredentialsPath:  os.Getenv("ONTRACK_CREDENTIALS_PATH"),
		TokenPath:        os.Getenv("ONTRACK_TOKEN_PATH"),
		DataDir:          os.Getenv("ONTRACK_DATA_DIR"),
		OAuthRedirectURL: os.Getenv("ONTRACK_OAUTH_REDIRECT_URL"),
	}

	// Set defaults if not provided
	if cfg.CredentialsPath == "" {
		cfg.CredentialsPath = ".local/credentials.json"
	}
	if cfg.TokenPath == "" {
		cfg.TokenPath = ".local/token.json"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = ".local"
	}
	if cfg.OAuthRedirectURL == "" {
		cfg.OAuthRedirectURL = "http://localhost:8080/callback"
	}

	// Validate required fields
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("ONTRACK_SPREADSHEET_ID environment variable is required. Please set it in .envrc and run 'direnv allow'")
	}

	return cfg, nil
}

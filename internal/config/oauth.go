package config

import (
	"encoding/json"
	"fmt"
	"os"
)

const oauthFileBase = "oauthClient"

// OAuthClientConfig is a client secret file downloaded from the Google Cloud console.
// Desktop clients carry an "installed" section and web clients a "web" section.
type OAuthClientConfig struct {
	Installed *OAuthClientSecret `json:"installed,omitempty" validate:"required_without=Web"`
	Web       *OAuthClientSecret `json:"web,omitempty" validate:"required_without=Installed"`
}

// OAuthClientSecret holds the fields the OAuth flow needs from either section
type OAuthClientSecret struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id,omitempty"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url,omitempty" validate:"omitempty,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
}

// Secret returns whichever section the file carries, preferring "installed"
func (c *OAuthClientConfig) Secret() *OAuthClientSecret {
	if c.Installed != nil {
		return c.Installed
	}
	return c.Web
}

// LoadOAuthClient loads the client secret file named by cfg.OAuthClientFile,
// falling back to searching for oauthClient.<env>.json then oauthClient.json
func LoadOAuthClient(cfg *Config, env string) (*OAuthClientConfig, error) {
	if cfg != nil && cfg.OAuthClientFile != "" {
		return LoadOAuthClientFromPath(cfg.OAuthClientFile)
	}

	path, err := findFile(oauthFileBase, ".json", env)
	if err != nil {
		return nil, fmt.Errorf("failed to find oauth client file: %w", err)
	}

	return LoadOAuthClientFromPath(path)
}

// LoadOAuthClientFromPath loads and validates a client secret file
func LoadOAuthClientFromPath(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	var oauthCfg OAuthClientConfig
	if err := json.Unmarshal(data, &oauthCfg); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client file: %w", err)
	}

	if err := ValidateOAuthClient(&oauthCfg); err != nil {
		return nil, err
	}

	return &oauthCfg, nil
}

// ValidateOAuthClient validates the OAuth client configuration
func ValidateOAuthClient(cfg *OAuthClientConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("oauth client validation failed: %w", err)
	}

	return nil
}

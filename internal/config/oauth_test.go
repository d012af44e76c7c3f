package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOAuthClient = `{
  "installed": {
    "client_id": "placements.apps.googleusercontent.com",
    "project_id": "placement-allocator",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "test-secret",
    "redirect_uris": ["http://localhost:3000"]
  }
}`

func validInstalled() *OAuthClientSecret {
	return &OAuthClientSecret{
		ClientID:                "placements.apps.googleusercontent.com",
		ProjectID:               "placement-allocator",
		AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
		TokenURI:                "https://oauth2.googleapis.com/token",
		AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
		ClientSecret:            "test-secret",
		RedirectURIs:            []string{"http://localhost:3000"},
	}
}

func TestValidateOAuthClient(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*OAuthClientSecret)
		wantErr bool
	}{
		{name: "valid", mutate: func(*OAuthClientSecret) {}},
		{name: "no project id", mutate: func(i *OAuthClientSecret) { i.ProjectID = "" }},
		{name: "missing client id", mutate: func(i *OAuthClientSecret) { i.ClientID = "" }, wantErr: true},
		{name: "invalid auth uri", mutate: func(i *OAuthClientSecret) { i.AuthURI = "not-a-valid-url" }, wantErr: true},
		{name: "invalid cert url", mutate: func(i *OAuthClientSecret) { i.AuthProviderX509CertURL = "nope" }, wantErr: true},
		{name: "no redirect uris", mutate: func(i *OAuthClientSecret) { i.RedirectURIs = nil }, wantErr: true},
		{name: "invalid redirect uri", mutate: func(i *OAuthClientSecret) { i.RedirectURIs = []string{"not a uri"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			installed := validInstalled()
			tt.mutate(installed)

			err := ValidateOAuthClient(&OAuthClientConfig{Installed: installed})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "validation failed")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadOAuthClientFromPath_ValidConfig(t *testing.T) {
	oauthPath := filepath.Join(t.TempDir(), "oauthClient.json")
	require.NoError(t, os.WriteFile(oauthPath, []byte(testOAuthClient), 0644))

	cfg, err := LoadOAuthClientFromPath(oauthPath)
	require.NoError(t, err)

	assert.Equal(t, validInstalled(), cfg.Installed)
}

func TestLoadOAuthClientFromPath_InvalidJSON(t *testing.T) {
	oauthPath := filepath.Join(t.TempDir(), "invalid_oauth.json")
	require.NoError(t, os.WriteFile(oauthPath, []byte(`{"installed": {"client_id": "x" "project_id": "y"}}`), 0644))

	_, err := LoadOAuthClientFromPath(oauthPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse oauth client file")
}

func TestLoadOAuthClientFromPath_FileNotFound(t *testing.T) {
	_, err := LoadOAuthClientFromPath("/nonexistent/path/oauthClient.json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read oauth client file")
}

func TestLoadOAuthClient_ConfiguredFileWins(t *testing.T) {
	oauthPath := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, os.WriteFile(oauthPath, []byte(testOAuthClient), 0644))

	cfg, err := LoadOAuthClient(&Config{OAuthClientFile: oauthPath}, "test")
	require.NoError(t, err)
	assert.Equal(t, "placement-allocator", cfg.Installed.ProjectID)
}

func TestLoadOAuthClient_SearchesByEnvironment(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "oauthClient.test.json"), []byte(testOAuthClient), 0644))

	cfg, err := LoadOAuthClient(nil, "test")
	require.NoError(t, err)
	assert.Equal(t, "test-secret", cfg.Installed.ClientSecret)

	_, err = LoadOAuthClient(nil, "prod")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "oauthClient.prod.json or oauthClient.json not found")
}

func TestLoadOAuthClient_FallsBackToSharedFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "oauthClient.json"), []byte(testOAuthClient), 0644))

	cfg, err := LoadOAuthClient(nil, "prod")
	require.NoError(t, err)
	assert.Equal(t, "test-secret", cfg.Secret().ClientSecret)
}

func TestValidateOAuthClient_WebSection(t *testing.T) {
	err := ValidateOAuthClient(&OAuthClientConfig{Web: validInstalled()})
	require.NoError(t, err)

	cfg := &OAuthClientConfig{Web: validInstalled()}
	assert.Same(t, cfg.Web, cfg.Secret())
}

func TestValidateOAuthClient_NoSection(t *testing.T) {
	err := ValidateOAuthClient(&OAuthClientConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

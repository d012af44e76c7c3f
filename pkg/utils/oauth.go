package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jakechorley/placement-allocator/internal/config"
)

const (
	AuthPort     = 3000
	authTimeout  = 5 * time.Minute
	callbackPath = "/oauth/callback"
)

// OAuth scopes for Google APIs
const (
	ScopeSheets    = "https://www.googleapis.com/auth/spreadsheets"
	ScopeGmailSend = "https://www.googleapis.com/auth/gmail.send"
)

var (
	tokenCache   = map[string]*oauth2.Token{}
	tokenCacheMu sync.Mutex

	// tokenInfoURL is a var so tests can point it at a local server
	tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
)

// requiredScopes returns all scopes required by the application.
// Sheets covers candidate import and allocation export; gmail.send covers allocation emails.
func requiredScopes() []string {
	return []string{ScopeSheets, ScopeGmailSend}
}

// GetOAuthConfig creates an OAuth2 config from the OAuth client configuration
func GetOAuthConfig(oauthCfg *config.OAuthClientConfig) (*oauth2.Config, error) {
	raw, err := json.Marshal(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal oauth config: %w", err)
	}

	googleConfig, err := google.ConfigFromJSON(raw, requiredScopes()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google config: %w", err)
	}

	googleConfig.RedirectURL = fmt.Sprintf("http://localhost:%d%s", AuthPort, callbackPath)
	return googleConfig, nil
}

// missingScopes returns the required scopes absent from a space-separated grant
func missingScopes(granted string) []string {
	have := strings.Fields(granted)
	var missing []string
	for _, s := range requiredScopes() {
		if !slices.Contains(have, s) {
			missing = append(missing, s)
		}
	}
	return missing
}

// validateTokenScopes asks Google's tokeninfo endpoint which scopes the token carries
func validateTokenScopes(ctx context.Context, token *oauth2.Token) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenInfoURL+"?access_token="+token.AccessToken, nil)
	if err != nil {
		return fmt.Errorf("failed to create tokeninfo request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call tokeninfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("tokeninfo request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info struct {
		Scope string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	if missing := missingScopes(info.Scope); len(missing) > 0 {
		return fmt.Errorf("token is missing required scopes: %v", missing)
	}
	return nil
}

// GetTokenWithFlow returns a token for env, running the browser authorization flow when
// no cached or refreshable token with the required scopes exists.
// Only one flow runs at a time; tokens are persisted per environment.
func GetTokenWithFlow(ctx context.Context, oauthConfig *oauth2.Config, env string, logger *zap.Logger) (*oauth2.Token, error) {
	tokenCacheMu.Lock()
	defer tokenCacheMu.Unlock()

	if cached := tokenCache[env]; cached != nil && cached.Valid() {
		return cached, nil
	}

	if token := usableFileToken(ctx, oauthConfig, env, logger); token != nil {
		tokenCache[env] = token
		return token, nil
	}

	logger.Info("No valid token found, starting OAuth flow")

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	authURL := oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
	fmt.Printf("\nVisit this URL to authorize the placement allocator:\n%s\n\n", authURL)

	code, err := listenForAuthCallback(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization code: %w", err)
	}

	token, err := oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	if err := validateTokenScopes(ctx, token); err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if err := SaveTokenToFile(env, token); err != nil {
		// The token still works for this process
		logger.Warn("Failed to save token", zap.Error(err))
	}

	tokenCache[env] = token
	return token, nil
}

// usableFileToken loads the persisted token and refreshes it if needed.
// Tokens without the required scopes are deleted so the caller runs a fresh flow.
func usableFileToken(ctx context.Context, oauthConfig *oauth2.Config, env string, logger *zap.Logger) *oauth2.Token {
	stored, err := LoadTokenFromFile(env)
	if err != nil {
		logger.Warn("Failed to load token from file", zap.Error(err))
		return nil
	}
	if stored == nil {
		return nil
	}

	token := stored
	if !stored.Valid() {
		if stored.RefreshToken == "" {
			return nil
		}
		refreshed, err := oauthConfig.TokenSource(ctx, stored).Token()
		if err != nil {
			logger.Debug("Token refresh failed", zap.Error(err))
			return nil
		}
		token = refreshed
	}

	if err := validateTokenScopes(ctx, token); err != nil {
		logger.Warn("Stored token is missing required scopes, deleting it", zap.Error(err))
		if err := DeleteTokenFile(env); err != nil {
			logger.Warn("Failed to delete token file", zap.Error(err))
		}
		return nil
	}

	if token != stored {
		logger.Info("Token refreshed")
		if err := SaveTokenToFile(env, token); err != nil {
			logger.Warn("Failed to save refreshed token", zap.Error(err))
		}
	}
	return token
}

// callbackHandler delivers the authorization code, or an error, exactly once
func callbackHandler(state string, codeCh chan<- string, errCh chan<- error) http.HandlerFunc {
	var once sync.Once
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var err error
		switch {
		case q.Get("error") != "":
			err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("state") != state:
			err = errors.New("authorization state mismatch")
		case q.Get("code") == "":
			err = errors.New("no authorization code received")
		}

		if err != nil {
			http.Error(w, "Authorization failed", http.StatusBadRequest)
			once.Do(func() { errCh <- err })
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html>
	<head><title>Authorization Successful</title></head>
	<body>
		<h1>Authorization successful!</h1>
		<p>You can close this window and return to the placement allocator.</p>
	</body>
</html>`)

		once.Do(func() { codeCh <- q.Get("code") })
	}
}

// listenForAuthCallback serves the redirect URL on localhost until the callback arrives
func listenForAuthCallback(ctx context.Context, state string) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.Handle(callbackPath, callbackHandler(state, codeCh, errCh))

	server := &http.Server{
		Addr:              fmt.Sprintf("localhost:%d", AuthPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("callback server error: %w", err)
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case err := <-serveErr:
		return "", err
	case <-timeoutCtx.Done():
		return "", fmt.Errorf("authorization timeout after %v", authTimeout)
	}
}

// ClearToken drops every cached token from memory
func ClearToken() {
	tokenCacheMu.Lock()
	defer tokenCacheMu.Unlock()
	clear(tokenCache)
}

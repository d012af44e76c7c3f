package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

const (
	tokenDirName   = ".placement-allocator/tokens"
	tokenFilePerms = 0600
	tokenDirPerms  = 0700
)

func tokenDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, tokenDirName), nil
}

// tokenPath returns the token file for env. An empty env shares token-default.json.
func tokenPath(env string) (string, error) {
	dir, err := tokenDir()
	if err != nil {
		return "", err
	}
	if env == "" {
		env = "default"
	}
	return filepath.Join(dir, fmt.Sprintf("token-%s.json", env)), nil
}

// LoadTokenFromFile loads the persisted token for env.
// A missing file returns nil with no error.
func LoadTokenFromFile(env string) (*oauth2.Token, error) {
	path, err := tokenPath(env)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &token, nil
}

// SaveTokenToFile persists token for env, readable by the owner only
func SaveTokenToFile(env string, token *oauth2.Token) error {
	path, err := tokenPath(env)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), tokenDirPerms); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	// Write then rename so a crash never leaves a truncated token behind
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, tokenFilePerms); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// DeleteTokenFile deletes the token file for env
func DeleteTokenFile(env string) error {
	path, err := tokenPath(env)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

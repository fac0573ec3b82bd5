package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const defaultProfileName = ".trait-inventory-benchmark.json"

// Profile holds saved benchmark settings. Zero values mean "not set" so a
// profile only overrides the settings it names.
type Profile struct {
	APIURL         string `json:"api_url,omitempty"`
	APIKey         string `json:"api_key,omitempty"`
	TraitID        string `json:"trait_id,omitempty"`
	Requests       int    `json:"requests,omitempty"`
	Wallets        int    `json:"wallets,omitempty"`
	Concurrency    int    `json:"concurrency,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	Release        *bool  `json:"release,omitempty"`
}

func (p *Profile) validate() error {
	switch {
	case p.Requests < 0:
		return fmt.Errorf("requests must not be negative, got %d", p.Requests)
	case p.Wallets < 0:
		return fmt.Errorf("wallets must not be negative, got %d", p.Wallets)
	case p.Concurrency < 0:
		return fmt.Errorf("concurrency must not be negative, got %d", p.Concurrency)
	case p.TimeoutSeconds < 0:
		return fmt.Errorf("timeout_seconds must not be negative, got %d", p.TimeoutSeconds)
	}
	return nil
}

// applyTo copies the profile's settings into cfg, skipping any setting whose
// flag was given explicitly on the command line.
func (p *Profile) applyTo(cfg *Config, explicit map[string]bool) {
	if p.APIURL != "" && !explicit["api-url"] {
		cfg.APIURL = p.APIURL
	}
	if p.APIKey != "" && !explicit["api-key"] {
		cfg.APIKey = p.APIKey
	}
	if p.TraitID != "" && !explicit["trait-id"] {
		cfg.TraitID = p.TraitID
	}
	if p.Requests > 0 && !explicit["requests"] {
		cfg.Requests = p.Requests
	}
	if p.Wallets > 0 && !explicit["wallets"] {
		cfg.Wallets = p.Wallets
	}
	if p.Concurrency > 0 && !explicit["concurrency"] {
		cfg.Concurrency = p.Concurrency
	}
	if p.TimeoutSeconds > 0 && !explicit["timeout"] {
		cfg.Timeout = time.Duration(p.TimeoutSeconds) * time.Second
	}
	if p.Release != nil && !explicit["release"] {
		cfg.Release = *p.Release
	}
}

// profileFromConfig captures a resolved run so it can be replayed later
func profileFromConfig(cfg *Config) *Profile {
	release := cfg.Release
	return &Profile{
		APIURL:         cfg.APIURL,
		APIKey:         cfg.APIKey,
		TraitID:        cfg.TraitID,
		Requests:       cfg.Requests,
		Wallets:        cfg.Wallets,
		Concurrency:    cfg.Concurrency,
		TimeoutSeconds: int(cfg.Timeout / time.Second),
		Release:        &release,
	}
}

// LoadProfile reads and validates a profile
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	return &p, nil
}

// SaveProfile writes the profile, creating parent directories. The file holds
// the API key so it is only readable by the owner.
func SaveProfile(path string, p *Profile) error {
	if err := p.validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// resolveProfilePath picks the profile to load. An explicit path must exist;
// the default one in the home directory is optional.
func resolveProfilePath(explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	path := filepath.Join(home, defaultProfileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", false
	}
	return path, true
}

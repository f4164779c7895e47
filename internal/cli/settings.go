package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const defaultAPIURL = "http://localhost:8080"

// Settings is the ledgerctl config file.
type Settings struct {
	APIURL string `toml:"api_url"`
	Token  string `toml:"token,omitempty"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{APIURL: defaultAPIURL}
}

// SettingsDir returns the XDG-compliant config directory.
func SettingsDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ledgerctl")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ledgerctl")
}

// SettingsPath returns the full path to the config file.
func SettingsPath() string {
	return filepath.Join(SettingsDir(), "config.toml")
}

// LoadSettings reads the config file, returning defaults if it doesn't exist.
func LoadSettings() (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing config: %w", err)
	}
	if s.APIURL == "" {
		s.APIURL = defaultAPIURL
	}
	return s, nil
}

// SaveSettings writes the config to disk. The file holds a token, so it is
// only readable by the owner.
func SaveSettings(s Settings) error {
	dir := SettingsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(SettingsPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(s)
}

// Resolve applies overrides on top of the file: a non-empty flag wins, then
// the environment, then the file.
func (s Settings) Resolve(flagURL, flagToken string) Settings {
	if v := os.Getenv("LEDGERDESK_API_URL"); v != "" {
		s.APIURL = v
	}
	if v := os.Getenv("LEDGERDESK_TOKEN"); v != "" {
		s.Token = v
	}
	if flagURL != "" {
		s.APIURL = flagURL
	}
	if flagToken != "" {
		s.Token = flagToken
	}
	return s
}

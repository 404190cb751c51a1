package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "todolists"
	keyringUser    = "api-key"
)

var (
	// fallbackMode is set once the system keyring has refused a write
	// (headless systems without a secret service).
	fallbackMode    bool
	fallbackChecked bool
	fallbackModeMu  sync.Mutex
)

// ErrKeyringUnavailable is returned by StoreAPIKey when the API key has to
// stay in the config file.
var ErrKeyringUnavailable = errors.New("system keyring unavailable")

func keyringAvailable() bool {
	fallbackModeMu.Lock()
	defer fallbackModeMu.Unlock()
	if fallbackChecked {
		return !fallbackMode
	}

	testKey := "todolists-keyring-test"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		fallbackMode = true
		fallbackChecked = true
		return false
	}
	_ = keyring.Delete(keyringService, testKey)
	fallbackChecked = true
	return true
}

// resetKeyringProbe forgets the availability check. Tests swap keyring
// providers between cases.
func resetKeyringProbe() {
	fallbackModeMu.Lock()
	defer fallbackModeMu.Unlock()
	fallbackMode = false
	fallbackChecked = false
}

// StoreAPIKey saves key in the system keyring.
func StoreAPIKey(key string) error {
	if !keyringAvailable() {
		return ErrKeyringUnavailable
	}
	if err := keyring.Set(keyringService, keyringUser, key); err != nil {
		return fmt.Errorf("failed to store API key in keyring: %w", err)
	}
	return nil
}

// KeyringAPIKey returns the key saved with StoreAPIKey, or "" when there is
// none or the keyring cannot be reached.
func KeyringAPIKey() string {
	key, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		return ""
	}
	return key
}

// DeleteAPIKey removes the key from the keyring. A missing key is not an error.
func DeleteAPIKey() error {
	err := keyring.Delete(keyringService, keyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete API key from keyring: %w", err)
	}
	return nil
}

// Key returns the API key to send. A key in the config file wins over the
// keyring.
func (c *Config) Key() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return KeyringAPIKey()
}

// KeySource describes where Key found the key.
func (c *Config) KeySource() string {
	switch {
	case c.APIKey != "":
		return "config file"
	case KeyringAPIKey() != "":
		return "system keyring"
	default:
		return ""
	}
}

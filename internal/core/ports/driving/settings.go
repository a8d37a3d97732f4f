package driving

import "github.com/custodia-labs/repodrop/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the current settings with defaults applied.
	Get() (*domain.Settings, error)

	// Set validates and stores a single setting given as text.
	Set(key, value string) error

	// Value returns the effective value of a setting as text.
	Value(key string) (string, error)

	// Keys lists every supported setting key.
	Keys() []string

	// Path returns where settings are persisted.
	Path() string
}

package services

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/repodrop/internal/core/domain"
	"github.com/custodia-labs/repodrop/internal/core/ports/driven"
	"github.com/custodia-labs/repodrop/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyMaxRequests   = "ratelimit.max_requests"
	keyPerMinute     = "ratelimit.per_minute"
	keyPerSecond     = "ratelimit.per_second"
	keyGracePeriod   = "upload.grace_period"
	keyBaseBranch    = "upload.base_branch"
	keyPRTitle       = "upload.pr_title"
	keyPRBody        = "upload.pr_body"
	keyMaxMemberSize = "intake.max_member_size"
	keyWorkers       = "intake.workers"
	keyDebounce      = "dropzone.debounce"
	keyAPIURL        = "github.api_url"
)

// settingKind selects how a textual value is parsed and stored.
type settingKind int

const (
	kindString settingKind = iota
	kindPositiveInt
	kindNonNegativeFloat
	kindDuration
	kindBytes
	kindURL
)

var settingKinds = map[string]settingKind{
	keyMaxRequests:   kindPositiveInt,
	keyPerMinute:     kindPositiveInt,
	keyPerSecond:     kindNonNegativeFloat,
	keyGracePeriod:   kindDuration,
	keyBaseBranch:    kindString,
	keyPRTitle:       kindString,
	keyPRBody:        kindString,
	keyMaxMemberSize: kindBytes,
	keyWorkers:       kindPositiveInt,
	keyDebounce:      kindDuration,
	keyAPIURL:        kindURL,
}

// settingKeys lists the keys in display order.
var settingKeys = []string{
	keyMaxRequests, keyPerMinute, keyPerSecond,
	keyGracePeriod, keyBaseBranch, keyPRTitle, keyPRBody,
	keyMaxMemberSize, keyWorkers,
	keyDebounce,
	keyAPIURL,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings. Missing or invalid stored values fall back
// to defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		RateLimit: domain.RateLimitSettings{
			MaxRequests: s.getPositiveInt(keyMaxRequests, defaults.RateLimit.MaxRequests),
			PerMinute:   s.getPositiveInt(keyPerMinute, defaults.RateLimit.PerMinute),
			PerSecond:   s.getNonNegativeFloat(keyPerSecond, defaults.RateLimit.PerSecond),
		},
		Upload: domain.UploadSettings{
			GracePeriod: s.getDuration(keyGracePeriod, defaults.Upload.GracePeriod),
			BaseBranch:  s.getString(keyBaseBranch, defaults.Upload.BaseBranch),
			PRTitle:     s.getString(keyPRTitle, defaults.Upload.PRTitle),
			PRBody:      s.getString(keyPRBody, defaults.Upload.PRBody),
		},
		Intake: domain.IntakeSettings{
			MaxMemberSize: int64(s.getPositiveInt(keyMaxMemberSize, int(defaults.Intake.MaxMemberSize))),
			Workers:       s.getPositiveInt(keyWorkers, defaults.Intake.Workers),
		},
		DropZone: domain.DropZoneSettings{
			Debounce: s.getDuration(keyDebounce, defaults.DropZone.Debounce),
		},
		GitHub: domain.GitHubSettings{
			APIURL: s.configStore.GetString(keyAPIURL), // No default - empty means github.com
		},
	}

	return settings, nil
}

// Set parses value for key and stores it with its native type.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseSetting(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Value returns the effective value of key as text.
func (s *SettingsService) Value(key string) (string, error) {
	if _, ok := settingKinds[key]; !ok {
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case keyMaxRequests:
		return strconv.Itoa(settings.RateLimit.MaxRequests), nil
	case keyPerMinute:
		return strconv.Itoa(settings.RateLimit.PerMinute), nil
	case keyPerSecond:
		return strconv.FormatFloat(settings.RateLimit.PerSecond, 'g', -1, 64), nil
	case keyGracePeriod:
		return settings.Upload.GracePeriod.String(), nil
	case keyBaseBranch:
		return settings.Upload.BaseBranch, nil
	case keyPRTitle:
		return settings.Upload.PRTitle, nil
	case keyPRBody:
		return settings.Upload.PRBody, nil
	case keyMaxMemberSize:
		return humanize.IBytes(uint64(settings.Intake.MaxMemberSize)), nil
	case keyWorkers:
		return strconv.Itoa(settings.Intake.Workers), nil
	case keyDebounce:
		return settings.DropZone.Debounce.String(), nil
	default:
		return settings.GitHub.APIURL, nil
	}
}

// Keys lists every supported setting key.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func parseSetting(kind settingKind, value string) (any, error) {
	switch kind {
	case kindPositiveInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", value)
		}
		if n <= 0 {
			return nil, fmt.Errorf("must be positive, got %d", n)
		}
		return n, nil
	case kindNonNegativeFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", value)
		}
		if f < 0 {
			return nil, fmt.Errorf("must not be negative, got %g", f)
		}
		return f, nil
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, err
		}
		if d < 0 {
			return nil, fmt.Errorf("must not be negative, got %s", d)
		}
		return d.String(), nil
	case kindBytes:
		n, err := humanize.ParseBytes(value)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("must be positive")
		}
		if n > math.MaxInt64-1 {
			return nil, fmt.Errorf("must be below %s", humanize.IBytes(math.MaxInt64))
		}
		return int(n), nil
	case kindURL:
		if value == "" {
			return value, nil
		}
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("not an absolute URL: %q", value)
		}
		return value, nil
	default:
		if value == "" {
			return nil, fmt.Errorf("must not be empty")
		}
		return value, nil
	}
}

// getString returns the stored string or the default when empty.
func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

// getPositiveInt returns the stored integer or the default when not positive.
func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

// getNonNegativeFloat returns the stored number. Zero is a valid value.
func (s *SettingsService) getNonNegativeFloat(key string, defaultVal float64) float64 {
	raw, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch raw.(type) {
	case float64, int, int64:
	default:
		return defaultVal
	}
	if val := s.configStore.GetFloat(key); val >= 0 {
		return val
	}
	return defaultVal
}

// getDuration parses a stored duration string.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	raw := s.configStore.GetString(key)
	if raw == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

package domain

import "time"

// Settings holds the typed application configuration.
type Settings struct {
	RateLimit RateLimitSettings
	Upload    UploadSettings
	Intake    IntakeSettings
	DropZone  DropZoneSettings
	GitHub    GitHubSettings
}

// RateLimitSettings configures the shared outbound request gate.
type RateLimitSettings struct {
	// MaxRequests is the number of permits per window.
	MaxRequests int

	// PerMinute is the window length in minutes.
	PerMinute int

	// PerSecond smooths bursts with a token bucket. Zero disables smoothing.
	PerSecond float64
}

// Window returns the permit window as a duration.
func (s RateLimitSettings) Window() time.Duration {
	return time.Duration(s.PerMinute) * time.Minute
}

// UploadSettings configures the upload orchestrator.
type UploadSettings struct {
	// GracePeriod is waited before writing into a just-created repository.
	GracePeriod time.Duration

	// BaseBranch is the pull request base.
	BaseBranch string

	PRTitle string
	PRBody  string
}

// IntakeSettings configures the file intake pipeline.
type IntakeSettings struct {
	// MaxMemberSize caps the declared uncompressed size of a ZIP member.
	MaxMemberSize int64

	// Workers bounds concurrent ZIP member extraction.
	Workers int
}

// DropZoneSettings configures the watched drop folder.
type DropZoneSettings struct {
	// Debounce is the quiet period after the last change before intake runs.
	Debounce time.Duration
}

// GitHubSettings configures the API endpoint.
type GitHubSettings struct {
	// APIURL is a GitHub Enterprise base URL. Empty means github.com.
	APIURL string
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		RateLimit: RateLimitSettings{
			MaxRequests: 5000,
			PerMinute:   60,
			PerSecond:   1.2,
		},
		Upload: UploadSettings{
			GracePeriod: 2 * time.Second,
			BaseBranch:  "main",
			PRTitle:     "Update repository content",
			PRBody:      "Updated repository content via repodrop",
		},
		Intake: IntakeSettings{
			MaxMemberSize: 100 << 20,
			Workers:       8,
		},
		DropZone: DropZoneSettings{
			Debounce: 500 * time.Millisecond,
		},
	}
}

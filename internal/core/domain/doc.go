// Package domain defines the core business entities for repodrop.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - InputEntry: a named blob handed to the intake pipeline
//   - ProcessingResult: accepted entries plus the exclusion report
//   - RepoTarget: what to create on GitHub
//   - UploadRequest / UploadResult: one run of the upload orchestrator
//   - Settings: typed application configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

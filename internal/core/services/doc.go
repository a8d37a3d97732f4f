// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - IntakeService: node_modules filtering and ZIP expansion
//   - UploadService: branch setup, per-file create-or-update, pull request
//   - RepositoryService: list, create and publish repositories
//   - SettingsService: typed settings over the config store
package services

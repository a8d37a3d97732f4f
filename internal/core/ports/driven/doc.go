// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - RepositoryAPI: GitHub repository operations (connectors/github)
//   - RepositoryAPIFactory: builds a RepositoryAPI for an access token
//   - RateLimiter: shared permit gate for outbound calls (connectors/github)
//   - ArchiveReader: ZIP central directory access (adapters/driven/archive/ziparchive)
//   - EntrySource: resolves dropped paths into entries (connectors/filesystem)
//   - ConfigStore: application configuration (adapters/driven/config/file)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven

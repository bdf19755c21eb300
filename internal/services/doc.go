// Package services defines shared utilities consumed by the title step and
// its collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp process IDs, step names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (metadata read, preferences, filesystem, storage swap, persistence) so
//     the step adapter can report them uniformly.
package services

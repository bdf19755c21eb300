// Package step exposes the process title update as a workflow step plugin.
//
// A host initializes the plugin with the step it is attached to, then calls
// Run (or Execute). Run composes the new title from the configured fragment
// template, sanitizes it, and hands it to the rename coordinator. Every
// failure is logged, reported through the host messenger, written to the
// process log, and turned into OutcomeError.
package step

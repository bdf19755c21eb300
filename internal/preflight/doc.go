// Package preflight provides readiness checks for the filesystem paths,
// database, and title policy that retitle depends on.
//
// The CLI "retitle doctor" command runs RunAll and renders the results as a
// table. Individual checks are usable on their own.
package preflight

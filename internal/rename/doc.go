// Package rename commits a new process title and carries it into the names of
// the per-asset directories under the process images root.
//
// The record is always persisted before any directory is touched. Directory
// renames are applied one at a time in name order and are not rolled back
// when a later rename fails.
package rename

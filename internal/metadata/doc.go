// Package metadata reads the per-process metadata document and the ruleset
// preferences that declare which metadata types a process may carry.
//
// Both are YAML files. A process without a metadata document is valid and
// reads as a nil document; a ruleset must always exist.
package metadata

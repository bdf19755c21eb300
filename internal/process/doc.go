// Package process persists workflow process records in SQLite and resolves
// the on-disk layout that belongs to each process.
//
// The Store holds the process table (title, project, ruleset, swap state) and
// the per-process log the step writes its outcome messages to. Paths maps a
// process onto <metadata_dir>/<id>/ with its meta.yaml document and images/
// directory; every path lookup refuses processes whose data is swapped out.
// Lock serializes runs against a single process across CLI invocations.
//
// Schema changes bump schemaVersion in schema.go; operators clear the
// database to adopt a new schema.
package process

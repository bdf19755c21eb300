// Package title composes process titles from an ordered template of typed
// fragments.
//
// A Template is evaluated left to right. Each Fragment resolves according to
// its Kind: static text passes through, variable text goes through the host's
// variable replacer, and random, timestamp, and uuid fragments draw from
// injectable Sources exactly once each. The resolved parts are concatenated
// without separators and handed to a Sanitizer, which trims surrounding
// whitespace and removes every match of the host replacement regex.
//
// Templates are never mutated; evaluation writes into a parallel Result.
package title

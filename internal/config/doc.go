// Package config loads, normalizes, and validates retitle configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the RETITLE_TITLE_REGEX
// environment fallback. The Config type centralizes the directories shared
// with the workflow host (process metadata, rulesets, plugin configuration)
// together with the host-global title replacement regex.
//
// Per-step plugin settings live in separate files handled by the pluginconfig
// package; this package only knows where they are.
package config

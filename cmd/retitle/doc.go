// Command retitle acts as a minimal workflow host for the process title
// update step. It manages process records, runs or previews the step for a
// process, and checks that the environment is usable.
package main

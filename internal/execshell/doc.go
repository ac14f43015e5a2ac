// Package execshell runs external tools for vcstat. It wraps os/exec behind CommandRunner,
// converts non-zero exits into typed errors, and reports command lifecycle events to observers
// so that git invocations can be logged either as structured entries or as console messages.
package execshell

// Package cli constructs the vcstat command-line interface. It wires the status
// command as the Cobra root, loads layered configuration (embedded defaults,
// configuration file, environment), and builds the diagnostic logger.
package cli

// Package status implements the vcstat run: it locates repositories beneath each
// root, queries their status through a bounded worker pool, filters them, and
// prints one aligned group per root.
package status

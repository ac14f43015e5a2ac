// Package ui renders git query lifecycle events as console log lines for interactive runs.
package ui

// Package report renders repository status lines and groups for the terminal.
//
// Rendering is a pure function of its inputs: the Palette is built once from the
// colour mode and carries every style, so identical entries always produce
// byte-identical output.
package report

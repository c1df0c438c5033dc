// Package ui renders command output for the terminal.
//
// [Printer] writes lipgloss panels and colored status lines when attached to a terminal,
// and the same content as plain text otherwise (pipes, files, CI logs).
package ui

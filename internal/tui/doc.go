// Package tui renders bacc in the terminal: the calculator form, the result
// card and scenario table, and the interactive survey screen.
package tui

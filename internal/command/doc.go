// Package command maps admin text commands onto settings store mutations
// and renders user-facing replies, including usage messages for malformed
// input.
package command

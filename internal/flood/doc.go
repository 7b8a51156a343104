// Package flood provides in-memory sliding-window message counting used
// to detect excessive posting rates per (chat, user).
package flood

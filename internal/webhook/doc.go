// Package webhook receives platform update payloads over HTTP and
// translates them into policy engine events and admin command calls.
package webhook

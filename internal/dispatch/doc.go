// Package dispatch executes policy engine decisions against the chat
// platform through an Actuator, with fire-and-forget failure handling.
package dispatch

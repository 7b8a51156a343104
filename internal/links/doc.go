// Package links extracts candidate domains from message text and matches
// them against a chat's whitelist using exact or subdomain equality.
package links

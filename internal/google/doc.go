// Package google handles OAuth2 authentication against the Google Calendar
// API. Tokens are cached on disk so the auth flow runs once.
package google

// Package http provides custom HTTP transport utilities,
// including bearer credential injection with error-status reactions
// and request/response logging with credentials redacted.
package http

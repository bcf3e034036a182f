// Package api provides a client for the backend's authentication endpoints.
// It posts JSON to login, register, refresh and create-admin under user/auth/,
// and reports non-2xx answers as *AuthError values that carry the status code
// and the server's message.
// Arbitrary requests can be sent with Do through the same HTTP client,
// so they get the same credentials and error side effects.
package api

// Package auth owns the user's session on top of the backend's
// authentication API.
//
// Login and registration store what the backend returns, refresh replaces
// the access token, and logout clears everything. Reads are served from the
// in-memory session hydrated at startup, and observers can subscribe to
// user changes.
package auth

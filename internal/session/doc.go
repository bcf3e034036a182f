// Package session owns the authenticated session: the current user and the
// access/refresh token pair.
//
// A Store keeps the session in memory, writes every mutation through to a
// storage.Storage and publishes the current user to subscribers. State is
// read from storage once, when the store is created.
package session

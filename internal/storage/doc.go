// Package storage provides durable string slots for the session.
//
// Every backend implements the same three operations on independent keys.
// There is no multi-key transaction: callers writing several slots accept
// that a crash between writes can leave them inconsistent.
package storage

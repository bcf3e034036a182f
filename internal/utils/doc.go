// Package utils provides small helpers shared across the application:
// content type checks for log dumps, secret masking for console output
// and file existence checks.
package utils

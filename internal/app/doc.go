// Package app wires the session runtime and implements the CLI commands.
//
// NewRuntime assembles storage, the session store, the effect executor,
// the augmented HTTP client, the API client and the auth service in that
// order. The Execute* functions build a runtime, run one command and
// report failures through the logger.
package app

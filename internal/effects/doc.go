// Package effects maps HTTP error statuses to the side effects they require
// and runs those effects at the application boundary.
//
// PlanFor is pure, so the mapping can be tested without a terminal or a
// session. Executor performs a plan through small ports: a session clearer,
// a navigator to the login view and an alerter for blocking warnings.
package effects

package effects

//go:generate $MOCKGEN -source=executor.go -destination=mocks/executor_mock.go

import (
	"context"

	"github.com/oshokin/authkeeper/internal/logger"
)

// Handler runs a plan.
type Handler interface {
	// Execute performs every effect of plan in order.
	Execute(ctx context.Context, plan Plan)
}

// SessionClearer tears the current session down.
type SessionClearer interface {
	// Clear removes the user and both tokens.
	Clear(ctx context.Context)
}

// Navigator moves the user to the login view.
type Navigator interface {
	// NavigateToLogin shows the login view.
	NavigateToLogin(ctx context.Context)
}

// Alerter shows blocking warnings.
type Alerter interface {
	// Alert shows message and returns once the user has seen it.
	Alert(ctx context.Context, message string)
}

// Executor is the default Handler.
type Executor struct {
	session   SessionClearer
	navigator Navigator
	alerter   Alerter
}

// NewExecutor creates an executor over the given ports.
func NewExecutor(session SessionClearer, navigator Navigator, alerter Alerter) *Executor {
	return &Executor{
		session:   session,
		navigator: navigator,
		alerter:   alerter,
	}
}

// Execute performs every effect of plan in order.
func (e *Executor) Execute(ctx context.Context, plan Plan) {
	for _, effect := range plan.Effects {
		switch effect {
		case EffectLogError:
			logger.ErrorKV(ctx, plan.Message, "status", plan.Status, "target", plan.Target)
		case EffectClearSession:
			e.session.Clear(ctx)
		case EffectNavigateToLogin:
			e.navigator.NavigateToLogin(ctx)
		case EffectAlert:
			e.alerter.Alert(ctx, plan.Alert)
		default:
			logger.WarnKV(ctx, "Skipping unknown effect", "effect", effect.String())
		}
	}
}

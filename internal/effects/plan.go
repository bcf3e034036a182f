package effects

import (
	"net/http"
	"slices"
)

// Effect is a single side effect triggered by an error response.
type Effect uint8

const (
	// EffectLogError writes the failure to the error log.
	EffectLogError Effect = iota + 1
	// EffectClearSession tears the session down.
	EffectClearSession
	// EffectNavigateToLogin sends the user back to the login view.
	EffectNavigateToLogin
	// EffectAlert shows a blocking warning to the user.
	EffectAlert
)

// String returns the effect name.
func (e Effect) String() string {
	switch e {
	case EffectLogError:
		return "log_error"
	case EffectClearSession:
		return "clear_session"
	case EffectNavigateToLogin:
		return "navigate_to_login"
	case EffectAlert:
		return "alert"
	default:
		return "unknown"
	}
}

// Messages attached to plans.
const (
	MessageUnauthorized = "Error 401: token is invalid or expired"
	MessageForbidden    = "Error 403: you are not allowed to perform this action"
	MessageNotFound     = "Error 404: resource not found"
	MessageServerError  = "Error 500: internal server error"

	// AlertForbidden is the text of the blocking warning shown on 403.
	AlertForbidden = "You do not have administrator permissions to perform this action"
)

// Plan describes what has to happen after an error response.
type Plan struct {
	// Status is the HTTP status code of the response.
	Status int
	// Target identifies the request, e.g. "POST /api/events".
	Target string
	// Message is the text written to the error log.
	Message string
	// Alert is the text of the blocking warning, if any.
	Alert string
	// Effects lists the effects in execution order.
	Effects []Effect
}

// IsEmpty reports whether the plan requires no effects.
func (p Plan) IsEmpty() bool {
	return len(p.Effects) == 0
}

// Has reports whether the plan contains effect.
func (p Plan) Has(effect Effect) bool {
	return slices.Contains(p.Effects, effect)
}

// PlanFor returns the plan for a response status. Statuses without special
// handling yield an empty plan.
func PlanFor(status int, target string) Plan {
	plan := Plan{
		Status: status,
		Target: target,
	}

	switch status {
	case http.StatusUnauthorized:
		plan.Message = MessageUnauthorized
		plan.Effects = []Effect{EffectLogError, EffectClearSession, EffectNavigateToLogin}
	case http.StatusForbidden:
		plan.Message = MessageForbidden
		plan.Alert = AlertForbidden
		plan.Effects = []Effect{EffectLogError, EffectAlert}
	case http.StatusNotFound:
		plan.Message = MessageNotFound
		plan.Effects = []Effect{EffectLogError}
	case http.StatusInternalServerError:
		plan.Message = MessageServerError
		plan.Effects = []Effect{EffectLogError}
	}

	return plan
}

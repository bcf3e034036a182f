package effects_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/authkeeper/internal/effects"
	mock_effects "github.com/oshokin/authkeeper/internal/effects/mocks"
)

type executorMocks struct {
	session   *mock_effects.MockSessionClearer
	navigator *mock_effects.MockNavigator
	alerter   *mock_effects.MockAlerter
}

func newTestExecutor(t *testing.T) (*effects.Executor, *executorMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &executorMocks{
		session:   mock_effects.NewMockSessionClearer(ctrl),
		navigator: mock_effects.NewMockNavigator(ctrl),
		alerter:   mock_effects.NewMockAlerter(ctrl),
	}

	return effects.NewExecutor(m.session, m.navigator, m.alerter), m
}

// TestExecutorUnauthorized tests that a 401 plan clears the session before navigating.
func TestExecutorUnauthorized(t *testing.T) {
	t.Parallel()

	executor, m := newTestExecutor(t)

	gomock.InOrder(
		m.session.EXPECT().Clear(gomock.Any()).Times(1),
		m.navigator.EXPECT().NavigateToLogin(gomock.Any()).Times(1),
	)

	executor.Execute(context.Background(), effects.PlanFor(http.StatusUnauthorized, "GET /api/events"))
}

// TestExecutorForbidden tests that a 403 plan only alerts.
func TestExecutorForbidden(t *testing.T) {
	t.Parallel()

	executor, m := newTestExecutor(t)

	m.alerter.EXPECT().Alert(gomock.Any(), effects.AlertForbidden).Times(1)

	executor.Execute(context.Background(), effects.PlanFor(http.StatusForbidden, "DELETE /api/events/1"))
}

// TestExecutorLogOnly tests that log-only plans touch no port.
func TestExecutorLogOnly(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusTeapot} {
		executor, _ := newTestExecutor(t)

		// Any port call would fail the test because no expectations are set.
		executor.Execute(context.Background(), effects.PlanFor(status, "GET /api/missing"))
	}
}

// TestExecutorUnknownEffect tests that unknown effects are skipped.
func TestExecutorUnknownEffect(t *testing.T) {
	t.Parallel()

	executor, _ := newTestExecutor(t)

	executor.Execute(context.Background(), effects.Plan{Effects: []effects.Effect{effects.Effect(99)}})
}

// TestConsoleNavigator tests the printed login hint.
func TestConsoleNavigator(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	effects.NewConsoleNavigator(&out, "authkeeper auth login").NavigateToLogin(context.Background())

	assert.Equal(t, "Your session has ended. Log in again with: authkeeper auth login\n", out.String())
}

// TestConsoleAlerter tests the printed warning.
func TestConsoleAlerter(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	effects.NewConsoleAlerter(&out).Alert(context.Background(), effects.AlertForbidden)

	assert.Equal(t, "WARNING: "+effects.AlertForbidden+"\n", out.String())
}

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/authkeeper/internal/config"
	"github.com/oshokin/authkeeper/internal/logger"
	"github.com/oshokin/authkeeper/internal/service/auth"
	"github.com/oshokin/authkeeper/internal/tokeninfo"
	"github.com/oshokin/authkeeper/internal/utils"
)

// RegisterParams holds the fields of a registration.
type RegisterParams struct {
	Username string
	Email    string
	Password string
	Birthday string
}

// ExecuteAuthLoginCommand logs in and stores the session.
func ExecuteAuthLoginCommand(ctx context.Context, cfg *config.Config, username, password string) {
	withRuntime(ctx, cfg, "Login failed", func(rt *Runtime) error {
		return runLogin(ctx, rt.Service, os.Stdout, username, password)
	})
}

// ExecuteAuthRegisterCommand creates an account and stores the returned user.
func ExecuteAuthRegisterCommand(ctx context.Context, cfg *config.Config, params RegisterParams) {
	withRuntime(ctx, cfg, "Registration failed", func(rt *Runtime) error {
		return runRegister(ctx, rt.Service, os.Stdout, params, cfg.LoginHint)
	})
}

// ExecuteAuthRefreshCommand replaces the access token using the stored refresh token.
func ExecuteAuthRefreshCommand(ctx context.Context, cfg *config.Config) {
	withRuntime(ctx, cfg, "Refresh failed", func(rt *Runtime) error {
		return runRefresh(ctx, rt.Service, os.Stdout, time.Now())
	})
}

// ExecuteAuthLogoutCommand clears the stored session.
func ExecuteAuthLogoutCommand(ctx context.Context, cfg *config.Config) {
	withRuntime(ctx, cfg, "Logout failed", func(rt *Runtime) error {
		return runLogout(ctx, rt.Service, os.Stdout)
	})
}

// ExecuteAuthStatusCommand prints the stored session.
func ExecuteAuthStatusCommand(ctx context.Context, cfg *config.Config) {
	withRuntime(ctx, cfg, "Status failed", func(rt *Runtime) error {
		return runStatus(rt.Service, os.Stdout, cfg.LoginHint, time.Now())
	})
}

// ExecuteAuthCreateAdminCommand asks the backend to create its development admin account.
func ExecuteAuthCreateAdminCommand(ctx context.Context, cfg *config.Config) {
	withRuntime(ctx, cfg, "Admin creation failed", func(rt *Runtime) error {
		return runCreateAdmin(ctx, rt.Service, os.Stdout)
	})
}

func withRuntime(ctx context.Context, cfg *config.Config, failure string, run func(*Runtime) error) {
	rt, err := NewRuntime(ctx, cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize: %v", err)

		return
	}

	err = run(rt)

	rt.Close(ctx)

	if err != nil {
		logger.Fatalf(ctx, "%s: %v", failure, err)
	}
}

func runLogin(ctx context.Context, service auth.Service, out io.Writer, username, password string) error {
	result, err := service.Login(ctx, username, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Logged in as %s.\n", result.User.Username)

	if result.User.IsAdmin() {
		fmt.Fprintln(out, "This account has administrator rights.")
	}

	return nil
}

func runRegister(ctx context.Context, service auth.Service, out io.Writer, params RegisterParams, hint string) error {
	user, err := service.Register(ctx, params.Username, params.Email, params.Password, params.Birthday)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Registered %s <%s>.\n", user.Username, user.Email)
	fmt.Fprintf(out, "Log in with: %s\n", hint)

	return nil
}

func runRefresh(ctx context.Context, service auth.Service, out io.Writer, now time.Time) error {
	token, err := service.RefreshAccessToken(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Access token refreshed: %s%s\n", utils.MaskSecret(token), describeExpiry(token, now))

	return nil
}

func runLogout(ctx context.Context, service auth.Service, out io.Writer) error {
	service.Logout(ctx)

	fmt.Fprintln(out, "Logged out.")

	return nil
}

func runStatus(service auth.Service, out io.Writer, hint string, now time.Time) error {
	user := service.CurrentUser()
	token := service.Token()

	if !service.IsLoggedIn() {
		fmt.Fprintln(out, "Not logged in.")

		if user != nil {
			fmt.Fprintf(out, "Registered as %s, but there is no access token.\n", user.Username)
		}

		fmt.Fprintf(out, "Log in with: %s\n", hint)

		return nil
	}

	fmt.Fprintf(out, "Logged in as %s <%s>\n", user.Username, user.Email)
	fmt.Fprintf(out, "User ID:       %s\n", user.ID)

	role := user.Role
	if role == "" {
		role = "-"
	}

	fmt.Fprintf(out, "Role:          %s\n", role)
	fmt.Fprintf(out, "Events:        %d\n", len(user.Events))
	fmt.Fprintf(out, "Access token:  %s%s\n", utils.MaskSecret(token), describeExpiry(token, now))

	refreshToken := service.RefreshToken()
	if refreshToken == "" {
		refreshToken = "-"
	} else {
		refreshToken = utils.MaskSecret(refreshToken)
	}

	fmt.Fprintf(out, "Refresh token: %s\n", refreshToken)

	return nil
}

func runCreateAdmin(ctx context.Context, service auth.Service, out io.Writer) error {
	result, err := service.CreateAdminUser(ctx)
	if err != nil {
		return err
	}

	writeBody(out, result)

	return nil
}

// describeExpiry renders the token expiry relative to now, or nothing for opaque tokens.
func describeExpiry(token string, now time.Time) string {
	info, err := tokeninfo.Inspect(token)
	if err != nil || !info.HasExpiry() {
		return ""
	}

	relative := humanize.RelTime(info.ExpiresAt, now, "ago", "from now")

	if info.IsExpired(now) {
		return " (expired " + relative + ")"
	}

	return " (expires " + relative + ")"
}

// writeBody prints JSON indented and anything else as is.
func writeBody(out io.Writer, body []byte) {
	if len(bytes.TrimSpace(body)) == 0 {
		return
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, body, "", "  "); err == nil {
		body = indented.Bytes()
	}

	fmt.Fprintln(out, string(bytes.TrimRight(body, "\n")))
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/authkeeper/internal/app"
	"github.com/oshokin/authkeeper/internal/logger"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authCmd = &cobra.Command{
		Use:   "auth",
		Short: "Session management commands",
		Long: `Manage the stored session.

Use 'auth login' to authenticate, 'auth status' to see who you are logged in as,
'auth refresh' to get a new access token and 'auth logout' to forget the session.`,
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authLoginCmd = &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Long: `Sends your credentials to the backend and stores the returned user,
access token and refresh token.

Missing values are prompted for; the password is read without echo.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			ctx := cmd.Context()
			flags := cmd.Flags()
			prompt := newStdPrompter()

			username, _ := flags.GetString("username")
			password, _ := flags.GetString("password")

			username, err := valueOrPrompt(username, prompt.Line, "Username")
			if err != nil {
				logger.Fatalf(ctx, "Login failed: %v", err)
			}

			password, err = valueOrPrompt(password, prompt.Secret, "Password")
			if err != nil {
				logger.Fatalf(ctx, "Login failed: %v", err)
			}

			app.ExecuteAuthLoginCommand(ctx, appConfig, username, password)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authRegisterCmd = &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Creates an account on the backend and stores the returned user.
No tokens are issued on registration: run 'auth login' afterwards.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			ctx := cmd.Context()
			flags := cmd.Flags()
			prompt := newStdPrompter()

			var (
				params app.RegisterParams
				err    error
			)

			params.Username, _ = flags.GetString("username")
			params.Email, _ = flags.GetString("email")
			params.Password, _ = flags.GetString("password")
			params.Birthday, _ = flags.GetString("birthday")

			if params.Username, err = valueOrPrompt(params.Username, prompt.Line, "Username"); err != nil {
				logger.Fatalf(ctx, "Registration failed: %v", err)
			}

			if params.Email, err = valueOrPrompt(params.Email, prompt.Line, "Email"); err != nil {
				logger.Fatalf(ctx, "Registration failed: %v", err)
			}

			if params.Password, err = valueOrPrompt(params.Password, prompt.Secret, "Password"); err != nil {
				logger.Fatalf(ctx, "Registration failed: %v", err)
			}

			app.ExecuteAuthRegisterCommand(ctx, appConfig, params)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authRefreshCmd = &cobra.Command{
		Use:   "refresh",
		Short: "Replace the access token using the stored refresh token",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthRefreshCommand(cmd.Context(), appConfig)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authLogoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthLogoutCommand(cmd.Context(), appConfig)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthStatusCommand(cmd.Context(), appConfig)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	authCreateAdminCmd = &cobra.Command{
		Use:   "create-admin",
		Short: "Ask a development backend to create its admin account",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteAuthCreateAdminCommand(cmd.Context(), appConfig)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	authLoginCmd.Flags().StringP("username", "u", "", "account name")
	authLoginCmd.Flags().StringP("password", "p", "", "account password (prompted when omitted)")

	authRegisterCmd.Flags().StringP("username", "u", "", "account name")
	authRegisterCmd.Flags().StringP("email", "e", "", "e-mail address")
	authRegisterCmd.Flags().StringP("password", "p", "", "account password (prompted when omitted)")
	authRegisterCmd.Flags().String("birthday", "", "birth date, e.g. 1995-04-12 (optional)")

	authCmd.AddCommand(
		authLoginCmd,
		authRegisterCmd,
		authRefreshCmd,
		authLogoutCmd,
		authStatusCmd,
		authCreateAdminCmd)

	rootCmd.AddCommand(authCmd)
}

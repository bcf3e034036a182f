package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oshokin/authkeeper/internal/app"
	"github.com/oshokin/authkeeper/internal/logger"
)

//nolint:gochecknoglobals // Cobra command requires a global definition.
var requestCmd = &cobra.Command{
	Use:   "request METHOD PATH",
	Short: "Send an authenticated request to the backend",
	Long: `Sends a request relative to the API root with the stored access token
and prints the status and body. A path that starts with the API root's own
path (for example /api/events with the default base URL) is accepted as is.

A 401 answer clears the session, a 403 prints a warning. Error statuses make
the command fail.

Examples:
  authkeeper request GET events
  authkeeper request GET /api/events
  authkeeper request POST events --data '{"name":"Party"}'
  authkeeper request PUT events/42 --data @event.json`,
	Args: cobra.ExactArgs(2), //nolint:mnd // Method and path.
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		data, _ := cmd.Flags().GetString("data")

		body, err := readRequestBody(data, os.Stdin)
		if err != nil {
			logger.Fatalf(ctx, "Failed to read request body: %v", err)
		}

		app.ExecuteRequestCommand(ctx, appConfig, args[0], args[1], body)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	requestCmd.Flags().StringP("data", "d", "",
		"request body: inline JSON, @file to read a file or @- to read stdin")

	rootCmd.AddCommand(requestCmd)
}

// readRequestBody resolves the --data value.
func readRequestBody(data string, stdin io.Reader) ([]byte, error) {
	switch {
	case data == "":
		return nil, nil
	case data == "@-":
		return io.ReadAll(stdin)
	case strings.HasPrefix(data, "@"):
		return os.ReadFile(strings.TrimPrefix(data, "@"))
	default:
		return []byte(data), nil
	}
}

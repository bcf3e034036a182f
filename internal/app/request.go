package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/oshokin/authkeeper/internal/client/api"
	"github.com/oshokin/authkeeper/internal/config"
)

// ExecuteRequestCommand sends an arbitrary request with the stored credentials and prints the answer.
// Error statuses run their session effects and fail the command.
func ExecuteRequestCommand(ctx context.Context, cfg *config.Config, method, path string, body []byte) {
	withRuntime(ctx, cfg, "Request failed", func(rt *Runtime) error {
		return runRequest(ctx, rt.Client, os.Stdout, method, path, body)
	})
}

func runRequest(ctx context.Context, client api.Client, out io.Writer, method, path string, body []byte) error {
	response, err := client.Do(ctx, method, path, body)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "HTTP %d %s\n", response.StatusCode, http.StatusText(response.StatusCode))
	writeBody(out, response.Body)

	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: %d", api.ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return nil
}

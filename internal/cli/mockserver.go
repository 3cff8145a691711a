package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vertexctl/internal/mockapi"
	"github.com/shinji-kodama/vertexctl/internal/model"
	"github.com/shinji-kodama/vertexctl/internal/port"
)

// shutdownTimeout bounds graceful shutdown of the mock server.
const shutdownTimeout = 5 * time.Second

// NewMockServerCommand creates the "mock-server" subcommand, which serves an
// in-memory copy of the device API for development without hardware.
func NewMockServerCommand() *cobra.Command {
	var (
		addr        string
		failCameras bool
	)

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve a simulated device API",
		Long: `Serve the device-management API from memory.

When the requested port is busy, the next free port in a small range is used.
Point the dashboard or vertexctl at the printed URL, e.g.

  vertexctl --base-url http://127.0.0.1:8080 autodarts status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMockServer(cmd, addr, failCameras)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().BoolVar(&failCameras, "fail-cameras", false, "Answer GET /api/cameras with 500")

	return cmd
}

func runMockServer(cmd *cobra.Command, addr string, failCameras bool) error {
	listenAddr, err := port.ResolveListenAddr(addr, port.DefaultSearchSpan)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "no usable listen address", err)
	}
	if listenAddr != addr {
		VerboseLog("Port in %s is busy; using %s", addr, listenAddr)
	}

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("failed to listen on %s", listenAddr), err)
	}

	state := mockapi.NewState()
	state.FailCameras = failCameras

	srv := &http.Server{
		Handler:           mockapi.NewRouter(state),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Mock device API listening on http://%s/api\n", ln.Addr())
	newLogger().Info("mock server started", "addr", ln.Addr().String(), "fail_cameras", failCameras)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return model.WrapCLIError(model.ExitGeneralError, "mock server stopped", err)
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "mock server shutdown failed", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Mock server stopped.")
	return nil
}

package commands

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/pagination/handler"
	"github.com/ncobase/pagination/logging/logger"
	"github.com/spf13/cobra"
)

func newServeCommand(s *state) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Serve paged search over HTTP until interrupted",
		RunE: s.runE(func(cmd *cobra.Command, args []string) error {
			if s.runMode == gin.DebugMode {
				gin.SetMode(gin.DebugMode)
			} else {
				gin.SetMode(gin.ReleaseMode)
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), ln, handler.New(s.data).Engine())
		}),
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

// serve runs h on ln until ctx is done, then shuts down gracefully
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	server := &http.Server{
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "listening on %s", ln.Addr())
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

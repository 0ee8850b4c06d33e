package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type apiServer struct {
	server *http.Server
}

func NewAPIServer(addr string, router http.Handler) *apiServer {
	return &apiServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (a *apiServer) Name() string { return "api server" }

func (a *apiServer) Start(ctx context.Context) error {
	slog.Info("starting api server", "addr", a.server.Addr)
	defer slog.Info("stopped api server")

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancelFn := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFn()
	return a.server.Shutdown(shutdownCtx)
}

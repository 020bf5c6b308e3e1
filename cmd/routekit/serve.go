package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sjc5/routekit/pkg/colorlog"
	"github.com/sjc5/routekit/pkg/envutil"
	"github.com/sjc5/routekit/pkg/port"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		preferredPort int
		logLevel      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the example app",
		Long: `Serve the example app with metrics on /metrics.

ROUTEKIT_PORT and ROUTEKIT_LOG_LEVEL set the defaults for --port and
--log-level. A busy port is replaced by the next free one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := colorlog.NewWithLevel("routekit", colorlog.ParseLevel(logLevel))

			p, err := port.GetFreePort(preferredPort)
			if err != nil {
				return err
			}
			if preferredPort != 0 && p != preferredPort {
				log.Warn("port busy, using another", "wanted", preferredPort, "port", p)
			}

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", p),
				Handler:           newExampleApp(log).handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				log.Info("listening", "addr", "http://localhost"+srv.Addr)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&preferredPort, "port", "p", envutil.GetInt("ROUTEKIT_PORT", port.DefaultPort), "Port to listen on")
	cmd.Flags().StringVar(&logLevel, "log-level", envutil.GetStr("ROUTEKIT_LOG_LEVEL", "info"), "debug, info, warn or error")
	return cmd
}

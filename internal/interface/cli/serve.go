package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/neilberkman/runclub/internal/core/daemon"
	"github.com/neilberkman/runclub/internal/core/remote"
	"github.com/neilberkman/runclub/internal/interface/httpapi"
)

var (
	serveAddr     string
	serveInterval time.Duration
	serveNoWatch  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the session API over HTTP",
	Long: `Start a JSON API over the same sessions the CLI and TUI use.

While running, the server reloads seeds.yaml when it changes and, when a
remote is configured, imports the club's sessions every --interval.

Routes:
  GET    /sessions?query=...     search (same tokens as 'runclub search')
  POST   /sessions               create
  GET    /sessions/{id}          fetch
  PATCH  /sessions/{id}          edit a custom session
  DELETE /sessions/{id}          delete a custom session
  GET    /sessions/{id}/share    share card as text
  POST   /sessions/{id}/join     join, body {"groupId": "B"} optional
  DELETE /sessions/{id}/join     leave
  GET    /joined                 joined sessions`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, 127.0.0.1:8787)")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", daemon.DefaultInterval, "Remote sync interval")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not reload seeds.yaml on change")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	addr := serveAddr
	if addr == "" {
		addr = a.Config.ListenAddr
	}

	opts := daemon.Options{Interval: serveInterval, Logger: a.Logger}
	if !serveNoWatch {
		opts.SeedsPath = a.Config.SeedsPath
	}
	if a.Config.RemoteURL != "" {
		opts.Remote = remote.NewClient(a.Config.RemoteURL)
	}
	d := daemon.New(a.Catalog, opts)

	api := httpapi.New(a.Catalog, httpapi.Options{
		RunnerGroup:   a.Config.RunnerGroup,
		Paces:         referencePaces(a.Config.Paces),
		ShareTemplate: a.Config.ShareTemplate,
		Logger:        a.Logger,
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Printf("listening on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return d.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tapedeck/internal/contenthost"
	"github.com/llehouerou/tapedeck/internal/errmsg"
	"github.com/llehouerou/tapedeck/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr, root string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a media directory as a content host",
		Long: "Serve the albums under the media root: listings at / and /{album}, audio files\n" +
			"under " + contenthost.MediaPrefix + " and Prometheus metrics at /metrics.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if root == "" {
				root = a.cfg.Media.Root
			}
			if root == "" {
				return fail(errmsg.OpServe, errors.New("no media root (set media.root or --root)"))
			}
			if addr == "" {
				addr = a.cfg.GetServerConfig().Addr
			}
			return fail(errmsg.OpServe, serve(cmd.Context(), a.fs, root, addr, nil))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")
	cmd.Flags().StringVar(&root, "root", "", "media directory (default: media.root)")
	return cmd
}

// serve runs a content host until ctx is done. ready, when non-nil, receives the bound
// address once the listener is open.
func serve(ctx context.Context, fsys afero.Fs, root, addr string, ready chan<- string) error {
	log := logging.For("serve")

	st, err := fsys.Stat(root)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	host := contenthost.New(afero.NewBasePathFs(fsys, root), contenthost.Options{
		Metrics:  contenthost.NewMetrics(reg),
		Gatherer: reg,
		Logger:   logging.For("contenthost"),
	})

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: host, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.WithField("addr", ln.Addr().String()).WithField("root", root).Info("content host listening")
	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("content host stopped")
	return nil
}

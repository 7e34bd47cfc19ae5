// Package cli implements the tapedeck command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tapedeck/internal/config"
	"github.com/llehouerou/tapedeck/internal/content"
	"github.com/llehouerou/tapedeck/internal/errmsg"
	"github.com/llehouerou/tapedeck/internal/logging"
)

var errNoHost = errors.New("no content host configured (set content.host)")

// opError tags a command failure with the operation it belongs to.
type opError struct {
	op  errmsg.Op
	err error
}

func (e *opError) Error() string { return errmsg.Format(e.op, e.err) }
func (e *opError) Unwrap() error { return e.err }

func fail(op errmsg.Op, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// app is the state shared by every command.
type app struct {
	cfgPath string
	cfg     *config.Config
	logs    io.Closer
	fs      afero.Fs
	client  *http.Client
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{fs: afero.NewOsFs(), client: &http.Client{}}

	root := &cobra.Command{
		Use:           "tapedeck",
		Short:         "Browse and play albums from a music host",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/tapedeck/config.toml)")

	root.AddCommand(
		newAlbumsCmd(a),
		newTracksCmd(a),
		newPlayCmd(a),
		newServeCmd(a),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return fail(errmsg.OpConfigLoad, err)
	}
	if err := cfg.Validate(); err != nil {
		return fail(errmsg.OpConfigLoad, err)
	}
	logs, err := logging.Setup(a.fs, cfg.LogSettings())
	if err != nil {
		return fail(errmsg.OpInitialize, err)
	}
	a.cfg = cfg
	a.logs = logs
	return nil
}

func (a *app) close() error {
	if a.logs == nil {
		return nil
	}
	err := a.logs.Close()
	a.logs = nil
	return err
}

// resolver returns a listing resolver for the configured host.
func (a *app) resolver() (*content.Resolver, *content.Client, error) {
	if !a.cfg.HasContentHost() {
		return nil, nil, errNoHost
	}
	cc := a.cfg.GetContentConfig()
	client := content.NewClient(cc.Host, a.client)
	r := content.NewResolver(client, content.Options{
		Policy:   cc.Policy(),
		Reserved: cc.Reserved,
		Logger:   logging.For("content"),
	})
	return r, client, nil
}

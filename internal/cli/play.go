package cli

import (
	"fmt"
	"io"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tapedeck/internal/config"
	"github.com/llehouerou/tapedeck/internal/errmsg"
	"github.com/llehouerou/tapedeck/internal/logging"
	"github.com/llehouerou/tapedeck/internal/playback"
	"github.com/llehouerou/tapedeck/internal/player"
	"github.com/llehouerou/tapedeck/internal/stderr"
)

func newPlayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play <album> [track]",
		Short: "Play an album, starting at track or at its first track",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			album := args[0]
			resolver, _, err := a.resolver()
			if err != nil {
				return fail(errmsg.OpListTracks, err)
			}
			tracks, err := resolver.FetchTrackList(cmd.Context(), album)
			if err != nil {
				return fail(errmsg.OpListTracks, err)
			}

			start := 0
			if len(args) == 2 {
				start = slices.Index(tracks, args[1])
				if start < 0 {
					return fail(errmsg.OpPlaybackStart, fmt.Errorf("track %q not found in %q", args[1], album))
				}
			}

			// Log lines would tear the alternate screen.
			if a.cfg.Log.File == "" {
				logrus.SetOutput(io.Discard)
			}

			label := newTitleLabel("tapedeck")
			ctrl, err := newController(a.cfg, label)
			if err != nil {
				return fail(errmsg.OpInitialize, err)
			}
			defer closeLogged(logging.For("cli"), "playback", ctrl)

			model := newPlayerModel(cmd.Context(), ctrl, label, album, tracks, start)
			if capture, err := stderr.Start(); err != nil {
				logging.For("cli").WithError(err).Debug("stderr capture unavailable")
			} else {
				defer capture.Stop()
				model = model.withNoise(capture.Lines())
			}

			p := tea.NewProgram(
				model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			label.attach(p.Send)
			if _, err := p.Run(); err != nil && cmd.Context().Err() == nil {
				return fail(errmsg.OpInitialize, err)
			}
			return nil
		},
	}
}

// newController wires a player.Loader and a playback.Controller from the configuration.
func newController(cfg *config.Config, label playback.Label) (*playback.Controller, error) {
	mc := cfg.GetMediaConfig()
	strategy, err := player.ParseStrategy(mc.Strategy)
	if err != nil {
		return nil, err
	}

	root := mc.Root
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	loader := player.NewLoader(player.LoaderOptions{
		Fs:       afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), root)),
		Strategy: strategy,
		Logger:   logging.For("player"),
	})

	pc := cfg.GetPlayerConfig()
	return playback.New(loader, playback.Options{
		Label:     label,
		Scheduler: playback.NewFrameScheduler(pc.Tick),
		Locator:   playback.Locator{MirrorBase: mc.MirrorBase},
		Volume:    mo.Some(*pc.Volume),
		Logger:    logging.For("playback"),
	}), nil
}

// closeLogged closes c, logging a failure at debug level.
func closeLogged(log *logrus.Entry, what string, c io.Closer) {
	if err := c.Close(); err != nil {
		log.WithError(err).WithField("resource", what).Debug("close failed")
	}
}

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tapedeck/internal/content"
	"github.com/llehouerou/tapedeck/internal/errmsg"
)

func newAlbumsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "albums",
		Short: "List the albums on the content host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolver, _, err := a.resolver()
			if err != nil {
				return fail(errmsg.OpListAlbums, err)
			}
			albums, err := resolver.FetchAlbumList(cmd.Context())
			if err != nil {
				return fail(errmsg.OpListAlbums, err)
			}
			for _, album := range albums {
				fmt.Fprintln(cmd.OutOrStdout(), album)
			}
			return nil
		},
	}
}

func newTracksCmd(a *app) *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "tracks <album>",
		Short: "List the playable tracks of an album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, client, err := a.resolver()
			if err != nil {
				return fail(errmsg.OpListTracks, err)
			}
			tracks, err := resolver.FetchTrackList(cmd.Context(), args[0])
			if err != nil {
				return fail(errmsg.OpListTracks, err)
			}
			if !long {
				for _, track := range tracks {
					fmt.Fprintln(cmd.OutOrStdout(), track)
				}
				return nil
			}

			// Sizes are not cached; fetch the raw listing once more.
			entries, err := client.List(cmd.Context(), args[0])
			if err != nil {
				return fail(errmsg.OpListTracks, err)
			}
			byName := lo.KeyBy(entries, func(e content.Entry) string { return e.Name })
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			for _, track := range tracks {
				fmt.Fprintf(w, "%s\t  %s\n", humanize.IBytes(uint64(max(byName[track].Size, 0))), track) //nolint:gosec // clamped
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show file sizes")
	return cmd
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newClearDBCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-db",
		Short: "Delete every video, moment and clip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return errors.New("refusing to delete all rows without --yes")
			}
			st, closeStore, err := rt.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			n, err := st.DeleteAll(context.Background())
			if err != nil {
				return fmt.Errorf("clear database: %w", err)
			}
			rt.log.WithField("videos", n).Warn("Database cleared")
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d videos\n", n)
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "Confirm deletion")
	return cmd
}

func newTranscriptCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "transcript <video-id>",
		Short: "Print a video's transcript, fetching it from the platform when none is stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid video id %q: %w", args[0], err)
			}
			if err := rt.cfg.RequireCredentials(); err != nil {
				return err
			}
			st, closeStore, err := rt.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			text, err := rt.newServices(st, nil).videos.Transcript(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

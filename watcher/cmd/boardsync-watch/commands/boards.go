package commands

import (
	"context"
	"time"

	"github.com/itchan-dev/boardsync/watcher/internal/render"
	"github.com/spf13/cobra"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List your boards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		boards, err := client.GetBoards(ctx)
		if err != nil {
			return err
		}
		render.Boards(cmd.OutOrStdout(), boards)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardsCmd)
}

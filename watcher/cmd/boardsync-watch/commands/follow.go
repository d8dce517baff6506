package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/itchan-dev/boardsync/watcher/internal/follow"
	"github.com/spf13/cobra"
)

var followVerbose bool

var followCmd = &cobra.Command{
	Use:   "follow <board-id>",
	Short: "Print a board and redraw it on every change",
	Long: `Print a board and redraw it on every change.

The stream is reopened automatically after network errors. It stops when the
board is deleted or on Ctrl-C.

Examples:
  boardsync-watch follow 0b8e6a6e-5d39-4c3a-9d8f-3f1b2f9c1c11
  boardsync-watch follow -v 0b8e6a6e-5d39-4c3a-9d8f-3f1b2f9c1c11`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		boardId, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid board id %q", args[0])
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return follow.New(boardId, cmd.OutOrStdout(), followVerbose).Run(ctx, client, boardId)
	},
}

func init() {
	followCmd.Flags().BoolVarP(&followVerbose, "verbose", "v", false, "also print every change")
	rootCmd.AddCommand(followCmd)
}

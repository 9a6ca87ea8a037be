package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/itera-sync/internal/config"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "itera",
		Short:         "Challenges and bad-habit trackers from the terminal",
		Long:          "itera talks to an Itera Sync server, keeps working offline and replays writes once the server is back.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultClientPath(), "path to the itera config file")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newLoginCmd(&configPath))
	cmd.AddCommand(newListCmd(&configPath))
	cmd.AddCommand(newShowCmd(&configPath))
	cmd.AddCommand(newCreateCmd(&configPath))
	cmd.AddCommand(newToggleCmd(&configPath))
	cmd.AddCommand(newExtendCmd(&configPath))
	cmd.AddCommand(newRenameCmd(&configPath))
	cmd.AddCommand(newDeleteCmd(&configPath))
	cmd.AddCommand(newWatchCmd(&configPath))
	cmd.AddCommand(newNotifyCmd(&configPath))
	cmd.AddCommand(newReplayCmd(&configPath))
	cmd.AddCommand(newErrorsCmd(&configPath))
	cmd.AddCommand(newCacheCmd(&configPath))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "itera %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}

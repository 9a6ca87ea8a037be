package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/itera-sync/internal/adapters/offline"
)

func newReplayCmd(configPath *string) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Send the writes queued while offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *configPath, !list, func(ctx context.Context, e *env) error {
				if list {
					pending, err := e.store.Pending(ctx)
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tMETHOD\tPATH\tQUEUED")
					for _, p := range pending {
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Method, p.Path, p.QueuedAt.Local().Format(time.DateTime))
					}
					return w.Flush()
				}

				res, err := e.client.Replay(ctx)
				fmt.Fprintf(cmd.OutOrStdout(), "Sent %d, rejected %d, still queued %d\n", res.Sent, res.Rejected, res.Pending)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "only list the queue")
	return cmd
}

func newErrorsCmd(configPath *string) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "errors",
		Short: "Show the most recent local errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *configPath, false, func(ctx context.Context, e *env) error {
				if clear {
					if err := e.store.ClearErrorReports(ctx); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Error log cleared")
					return nil
				}

				reports, err := e.store.ErrorReports(ctx)
				if err != nil {
					return err
				}
				if len(reports) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No errors recorded")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "WHEN\tWHERE\tMESSAGE")
				for _, r := range reports {
					fmt.Fprintf(w, "%s\t%s\t%s\n", r.ReportedAt.Local().Format(time.DateTime), r.Context, r.Message)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "delete all recorded errors")
	return cmd
}

func newCacheCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the offline response cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Pre-fetch the core assets and drop older cache versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *configPath, false, func(ctx context.Context, e *env) error {
				removed, err := e.router.Install(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Installed %d asset(s) into %s\n", len(e.cfg.Cache.Manifest), e.router.Generation(offline.ClassStatic))
				for _, gen := range removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", gen)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "activate",
		Short: "Delete cache generations from older versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *configPath, false, func(ctx context.Context, e *env) error {
				removed, err := e.router.Activate(ctx)
				if err != nil {
					return err
				}
				if len(removed) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to remove")
					return nil
				}
				for _, gen := range removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", gen)
				}
				return nil
			})
		},
	})
	return cmd
}

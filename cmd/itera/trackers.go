package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/itera-sync/internal/adapters/localstore"
	"github.com/comitanigiacomo/itera-sync/internal/client"
	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
)

// reportQueued turns ErrQueued into a notice: the write is safe in the outbox.
func reportQueued(out io.Writer, err error) error {
	if errors.Is(err, client.ErrQueued) {
		fmt.Fprintln(out, "Server unreachable: change queued. Run `itera replay` once back online.")
		return nil
	}
	return err
}

func parseCollection(s string) (domain.Collection, error) {
	return domain.ParseCollection(s)
}

func newLoginCmd(configPath *string) *cobra.Command {
	var (
		email    string
		password string
		register bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ITERA_PASSWORD")
			}
			if password == "" {
				return errors.New("password required (--password or ITERA_PASSWORD)")
			}

			return run(cmd, *configPath, false, func(ctx context.Context, e *env) error {
				if register {
					if _, err := e.client.Register(ctx, email, password); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", email)
				}

				token, err := e.client.Login(ctx, email, password)
				if err != nil {
					return err
				}
				if err := e.store.PutSetting(ctx, localstore.KeySession, session{Email: email, Token: token}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&register, "register", false, "create the account first")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newListCmd(configPath *string) *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "List the trackers of a collection (itera, tatakae, habits)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := parseCollection(args[0])
			if err != nil {
				return err
			}
			return run(cmd, *configPath, true, func(ctx context.Context, e *env) error {
				snap, err := e.client.Snapshot(ctx, coll)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), renderSnapshot(*snap, history, time.Now()))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "include finished trackers")
	return cmd
}

func newShowCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one tracker with its day grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *configPath, true, func(ctx context.Context, e *env) error {
				v, err := e.client.Get(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTracker(v))
				return nil
			})
		},
	}
}

func newCreateCmd(configPath *string) *cobra.Command {
	var in client.CreateTracker
	var difficulty string

	cmd := &cobra.Command{
		Use:   "create <collection> <name>",
		Short: "Start a new tracker",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := parseCollection(args[0])
			if err != nil {
				return err
			}
			in.Name = strings.Join(args[1:], " ")
			in.Difficulty = domain.Difficulty(difficulty)

			return run(cmd, *configPath, true, func(ctx context.Context, e *env) error {
				v, err := e.client.Create(ctx, coll, in)
				if err != nil {
					return reportQueued(cmd.OutOrStdout(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", v.ID)
				fmt.Fprint(cmd.OutOrStdout(), renderTracker(v))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&in.Duration, "days", "d", domain.LongDuration, "duration in days (7 or 30)")
	cmd.Flags().StringVar(&in.Icon, "icon", "", "emoji icon")
	cmd.Flags().StringVar(&in.Color, "color", "", "accent color (#RRGGBB)")
	cmd.Flags().StringVar(&in.Description, "description", "", "free text description")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "bad habits only: easy, medium or hard")
	return cmd
}

func newToggleCmd(configPath *string) *cobra.Command {
	var day int

	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle today's cell",
		Long:  "Toggles today's cell. Only today can change; other days are reported as ignored.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *configPath, true, func(ctx context.Context, e *env) error {
				idx := day - 1
				if !cmd.Flags().Changed("day") {
					v, err := e.client.Get(ctx, args[0])
					if err != nil {
						return err
					}
					idx = v.CurrentDay
				}

				res, err := e.client.Toggle(ctx, args[0], idx)
				if err != nil {
					return reportQueued(cmd.OutOrStdout(), err)
				}
				fmt.Fprint(cmd.OutOrStdout(), renderToggle(res))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "1-based day number instead of today")
	return cmd
}

func newExtendCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "extend <id>",
		Short: "Turn a finished 7-day challenge into a 30-day one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *configPath, true, func(ctx context.Context, e *env) error {
				v, err := e.client.Extend(ctx, args[0])
				if err != nil {
					return reportQueued(cmd.OutOrStdout(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Extended to %d days\n", v.Duration)
				fmt.Fprint(cmd.OutOrStdout(), renderTracker(v))
				return nil
			})
		},
	}
}

func newRenameCmd(configPath *string) *cobra.Command {
	var in client.UpdateTracker

	cmd := &cobra.Command{
		Use:   "rename <id> [name]",
		Short: "Change the name or display details of a tracker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = strings.Join(args[1:], " ")
			if in == (client.UpdateTracker{}) {
				return errors.New("nothing to change")
			}
			return run(cmd, *configPath, true, func(ctx context.Context, e *env) error {
				v, err := e.client.Update(ctx, args[0], in)
				if err != nil {
					return reportQueued(cmd.OutOrStdout(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", v.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.Icon, "icon", "", "emoji icon")
	cmd.Flags().StringVar(&in.Color, "color", "", "accent color (#RRGGBB)")
	cmd.Flags().StringVar(&in.Description, "description", "", "free text description")
	return cmd
}

func newDeleteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tracker permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *configPath, true, func(ctx context.Context, e *env) error {
				if err := e.client.Delete(ctx, args[0]); err != nil {
					return reportQueued(cmd.OutOrStdout(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newWatchCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <collection>",
		Short: "Follow a collection live until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := parseCollection(args[0])
			if err != nil {
				return err
			}
			return run(cmd, *configPath, true, func(ctx context.Context, e *env) error {
				return e.client.Watch(ctx, coll, func(snap domain.Snapshot) error {
					fmt.Fprintf(cmd.OutOrStdout(), "── %s ──\n", snap.TakenAt.Local().Format(time.TimeOnly))
					fmt.Fprint(cmd.OutOrStdout(), renderSnapshot(snap, false, time.Now()))
					return nil
				})
			})
		},
	}
}

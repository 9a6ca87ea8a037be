package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
)

func newNotifyCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Reminder settings and notifications",
	}

	cmd.AddCommand(newNotifyPushCmd(configPath))
	cmd.AddCommand(newNotifyTestCmd(configPath))
	cmd.AddCommand(newNotifyListenCmd(configPath))
	return cmd
}

func newNotifyPushCmd(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Send reminder settings to the server scheduler",
		Long: "Sends the locally saved reminder settings, or the ones in --file, together with\n" +
			"this machine's wall clock so reminders fire at local time.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *configPath, true, func(ctx context.Context, e *env) error {
				settings, err := e.store.NotificationSettings(ctx)
				if err != nil {
					return err
				}

				if file != "" {
					data, err := os.ReadFile(file)
					if err != nil {
						return err
					}
					settings = domain.NotificationSettings{}
					if err := yaml.Unmarshal(data, &settings); err != nil {
						return fmt.Errorf("parse %s: %w", file, err)
					}
					if err := e.store.SaveNotificationSettings(ctx, settings); err != nil {
						return err
					}
				}

				err = e.client.SendMessage(ctx, domain.WorkerMessage{
					Type:        domain.MsgSetNotificationSettings,
					Settings:    &settings,
					CurrentTime: time.Now().Format("15:04"),
				})
				if err != nil {
					return reportQueued(cmd.OutOrStdout(), err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d reminder(s), notifications %s\n", len(settings.Reminders), onOff(settings.Enabled))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with enabled and reminders")
	return cmd
}

func newNotifyTestCmd(configPath *string) *cobra.Command {
	var n domain.Notification

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Ask the server to deliver a notification right away",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *configPath, true, func(ctx context.Context, e *env) error {
				err := e.client.SendMessage(ctx, domain.WorkerMessage{
					Type:    domain.MsgShowNotification,
					Payload: &n,
				})
				if err != nil {
					return reportQueued(cmd.OutOrStdout(), err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Notification requested")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&n.Title, "title", "Itera", "notification title")
	cmd.Flags().StringVar(&n.Body, "body", "This is a test notification.", "notification body")
	return cmd
}

func newNotifyListenCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Print notifications as they are delivered",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *configPath, true, func(ctx context.Context, e *env) error {
				return e.client.WatchNotifications(ctx, func(n domain.Notification) error {
					fmt.Fprint(cmd.OutOrStdout(), renderNotification(n, time.Now()))
					return nil
				})
			})
		},
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

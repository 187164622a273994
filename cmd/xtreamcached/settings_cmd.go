package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/xtreamcached/internal/store"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View or change per-identity sync settings",
	}
	cmd.AddCommand(newSettingsShowCmd())
	cmd.AddCommand(newSettingsSetCmd())
	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	var identity string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print one identity's sync settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			settings, err := a.store.GetSyncSettings(identity)
			if err != nil {
				return err
			}
			fmt.Printf("auto_sync_enabled:   %v\n", settings.AutoSyncEnabled)
			fmt.Printf("sync_interval_hours: %d\n", settings.SyncIntervalHours)
			fmt.Printf("wifi_only:           %v\n", settings.WifiOnly)
			fmt.Printf("notify_on_complete:  %v\n", settings.NotifyOnComplete)
			return nil
		},
	}
	cmd.Flags().StringVar(&identity, "identity", "", "identity namespace (required)")
	cmd.MarkFlagRequired("identity")
	return cmd
}

func newSettingsSetCmd() *cobra.Command {
	var identity string
	var autoSync, wifiOnly, notify bool
	var intervalHours int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update one identity's sync settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			err = a.store.UpdateSyncSettings(&store.SyncSettings{
				Identity:          identity,
				AutoSyncEnabled:   autoSync,
				SyncIntervalHours: intervalHours,
				WifiOnly:          wifiOnly,
				NotifyOnComplete:  notify,
			})
			if err != nil {
				return err
			}
			fmt.Println("settings updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&identity, "identity", "", "identity namespace (required)")
	cmd.Flags().BoolVar(&autoSync, "auto-sync", false, "enable automatic background sync")
	cmd.Flags().IntVar(&intervalHours, "interval-hours", 24, "minimum hours between automatic syncs (>= 6)")
	cmd.Flags().BoolVar(&wifiOnly, "wifi-only", false, "restrict automatic sync to wifi")
	cmd.Flags().BoolVar(&notify, "notify-on-complete", true, "notify when a sync completes")
	cmd.MarkFlagRequired("identity")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var identity string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show sync status and content counts for one identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			status, err := a.store.GetSyncStatus(identity)
			if err != nil {
				return err
			}
			counts, err := a.store.ContentCounts(identity)
			if err != nil {
				return err
			}

			fmt.Printf("identity:  %s\n", identity)
			fmt.Printf("status:    %s (%d%%)\n", status.Status, status.Progress)
			fmt.Printf("channels:  %d\n", counts.Channels)
			fmt.Printf("movies:    %d\n", counts.Movies)
			fmt.Printf("series:    %d\n", counts.Series)
			if status.LastMessage != nil {
				fmt.Printf("message:   %s\n", *status.LastMessage)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "identity namespace to report on (required)")
	cmd.MarkFlagRequired("identity")
	return cmd
}

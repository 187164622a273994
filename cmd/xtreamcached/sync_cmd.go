package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/xtreamcached/internal/syncengine"
	"github.com/Nomadcxx/xtreamcached/internal/xtream"
)

func newSyncCmd() *cobra.Command {
	var identity, baseURL, username, password string
	var incremental bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a full or incremental sync for one identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.InitializeIdentity(identity); err != nil {
				return fmt.Errorf("initialize identity: %w", err)
			}

			cred := xtream.Credentials{BaseURL: baseURL, Username: username, Password: password}
			sink := make(syncengine.ProgressSink, 32)
			go printProgress(sink)

			var result *syncengine.SyncProgress
			if incremental {
				result, err = a.scheduler.StartIncrementalSync(context.Background(), identity, cred, sink)
			} else {
				result, err = a.scheduler.StartFullSync(context.Background(), identity, cred, sink)
			}
			close(sink)
			if err != nil {
				return err
			}

			fmt.Printf("sync finished: status=%s channels=%d movies=%d series=%d\n",
				result.Status, result.ChannelsSynced, result.MoviesSynced, result.SeriesSynced)
			for _, e := range result.Errors {
				fmt.Println("  error:", e)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "identity namespace for this panel (required)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "xtream-codes panel base URL (required)")
	cmd.Flags().StringVar(&username, "username", "", "panel username (required)")
	cmd.Flags().StringVar(&password, "password", "", "panel password (required)")
	cmd.Flags().BoolVar(&incremental, "incremental", false, "run an incremental sync instead of a full sync")
	cmd.MarkFlagRequired("identity")
	cmd.MarkFlagRequired("base-url")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")

	return cmd
}

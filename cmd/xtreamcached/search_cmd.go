package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/xtreamcached/internal/store"
)

func newSearchCmd() *cobra.Command {
	var identity, family, query string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search cached content for one identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query = args[0]
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			f := store.Filter{Limit: limit}
			switch family {
			case "channels":
				rows, err := a.repo.SearchChannels(identity, query, f)
				if err != nil {
					return err
				}
				for _, r := range rows {
					fmt.Println(r.Name)
				}
			case "movies":
				rows, err := a.repo.SearchMovies(identity, query, f)
				if err != nil {
					return err
				}
				for _, r := range rows {
					fmt.Println(r.Name)
				}
			case "series":
				rows, err := a.repo.SearchSeries(identity, query, f)
				if err != nil {
					return err
				}
				for _, r := range rows {
					fmt.Println(r.Name)
				}
			default:
				return fmt.Errorf("unknown family %q: must be channels, movies, or series", family)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", "identity namespace to search (required)")
	cmd.Flags().StringVar(&family, "family", "channels", "content family: channels, movies, or series")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to print")
	cmd.MarkFlagRequired("identity")
	return cmd
}

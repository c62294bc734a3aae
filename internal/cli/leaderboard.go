package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	var (
		sort  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the public leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if sort != "" {
				query.Set("sort", sort)
			}
			if limit > 0 {
				query.Set("limit", fmt.Sprintf("%d", limit))
			}

			path := "/api/leaderboard"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var result Leaderboard
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&sort, "sort", "", "Sort key: waves_killed, zombies_killed, worlds_saved, total_playtime_seconds")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to return")

	return cmd
}

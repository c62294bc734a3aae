package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newScoresCmd() *cobra.Command {
	scoresCmd := &cobra.Command{
		Use:   "scores",
		Short: "Score commands",
	}

	scoresCmd.AddCommand(newScoresSubmitCmd())
	scoresCmd.AddCommand(newScoresGetCmd())

	return scoresCmd
}

func newScoresSubmitCmd() *cobra.Command {
	var (
		playerID string
		score    int
		zombies  int
		worlds   int
		playtime int
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a run's score for a player",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"playerId":      playerID,
				"score":         score,
				"zombiesKilled": zombies,
			}
			if worlds > 0 {
				body["worldsSaved"] = worlds
			}
			if playtime > 0 {
				body["playtimeSeconds"] = playtime
			}

			var result SubmitResult
			if err := client.Post("/api/scores", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Player ID (required)")
	cmd.Flags().IntVar(&score, "score", 0, "Waves survived this run (required)")
	cmd.Flags().IntVar(&zombies, "zombies", 0, "Zombies killed this run")
	cmd.Flags().IntVar(&worlds, "worlds", 0, "Worlds saved this run")
	cmd.Flags().IntVar(&playtime, "playtime", 0, "Playtime in seconds this run")
	_ = cmd.MarkFlagRequired("player")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}

func newScoresGetCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a player's stats and recent matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/scores?player_id=" + url.QueryEscape(playerID)

			var result PlayerSummary
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Player ID (required)")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

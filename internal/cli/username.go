package cli

import (
	"github.com/spf13/cobra"
)

func newUsernameCmd() *cobra.Command {
	usernameCmd := &cobra.Command{
		Use:   "username",
		Short: "Username commands",
	}

	usernameCmd.AddCommand(newUsernameSetCmd())

	return usernameCmd
}

func newUsernameSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <username>",
		Short: "Claim a username for the authenticated player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"username": args[0]}

			var result UsernameResult
			if err := client.Put("/api/username", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Player verification commands",
	}

	verifyCmd.AddCommand(newVerifyRequestCmd())
	verifyCmd.AddCommand(newVerifyRedeemCmd())

	return verifyCmd
}

func newVerifyRequestCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Request a verification code for a player",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"playerId": playerID}

			var result IssueResult
			if err := client.Post("/api/verification", body, &result); err != nil {
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

func newVerifyRedeemCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "redeem",
		Short: "Redeem a verification code and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"code": code}

			var result RedeemResult
			session, err := client.Do(http.MethodPost, "/api/verify", body, &result)
			if err != nil {
				return err
			}

			if session == "" {
				return fmt.Errorf("server did not set a session cookie")
			}
			if err := cfg.SaveSession(session); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
			client.SetSession(session)

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Verification code (required)")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

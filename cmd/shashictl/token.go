package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/devaakutty/Shashi-backend/internal/auth"
)

func newTokenCmd() *cobra.Command {
	var (
		operatorFlag string
		ttl          time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator bearer token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			operator, err := parseOperator(operatorFlag)
			if err != nil {
				return err
			}
			tokens, err := auth.NewTokens(auth.Config{
				Secret:   os.Getenv("JWT_SECRET"),
				Issuer:   os.Getenv("JWT_ISSUER"),
				Audience: os.Getenv("JWT_AUDIENCE"),
				TTL:      ttl,
			})
			if err != nil {
				return err
			}
			token, expiresAt, err := tokens.Issue(operator)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			logger.Info().Str("operator", operator.String()).Time("expires_at", expiresAt).Msg("token issued")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&operatorFlag, "operator", "", "operator id used as the token subject (defaults to a new id)")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}

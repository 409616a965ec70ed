package main

import (
	"errors"
	"fmt"
	"time"

	"eduloan-backend/internal/adapter/middleware"

	"github.com/spf13/cobra"
)

// tokenCmd signs a bearer token with JWT_SECRET for local testing.
func tokenCmd(envDir *string) *cobra.Command {
	var (
		role string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token [actor-id]",
		Short: "Print a bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*envDir)
			if err != nil {
				return err
			}
			if a.cfg.JWTSecret == "" {
				return errors.New("missing JWT_SECRET")
			}
			tok, err := middleware.SignToken([]byte(a.cfg.JWTSecret), middleware.Actor{ID: args[0], Role: role}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", middleware.RoleStudent, "student, nbfc, admin or consultant")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matst80/slask-storefront/pkg/config"
	"github.com/matst80/slask-storefront/pkg/server"
)

func adminAuth(cfg *config.Config) *server.AdminAuth {
	return &server.AdminAuth{
		ApiKey: cfg.Admin.ApiKey,
		Secret: []byte(cfg.Admin.Secret),
	}
}

func NewTokenCommand(opts *RootOptions) *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a token for the admin routes, signed with admin.secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.Admin.TokenTtl
			}
			token, err := adminAuth(cfg).IssueToken(subject, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default admin.token_ttl)")
	return cmd
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lzjever/microsvc/internal/auth"
	"github.com/lzjever/microsvc/internal/config"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Mint an access token signed with SECRET_KEY",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(envFile)
		if err != nil {
			return err
		}
		ttl := settings.AccessTokenTTL()
		if tokenTTL > 0 {
			ttl = tokenTTL
		}
		issuer, err := auth.NewIssuer(settings.SecretKey, settings.Algorithm, ttl)
		if err != nil {
			return err
		}
		tok, exp, err := issuer.Issue(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", exp.UTC().Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (default ACCESS_TOKEN_EXPIRE_MINUTES)")
	rootCmd.AddCommand(tokenCmd)
}

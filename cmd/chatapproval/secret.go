package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/chatapproval/internal/secret"
)

func secretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage secrets referenced by server.apiKeyURL and transport.gateway.tokenURL",
	}
	seal := &cobra.Command{
		Use:   "seal [url] [value]",
		Short: "Store value as a secret at url",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, _ := cmd.Flags().GetString("key")
			if err := secret.New().Seal(cmd.Context(), args[0], key, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "secret stored at %s\n", args[0])
			return nil
		},
	}
	seal.Flags().StringP("key", "k", "", "encryption key, e.g. blowfish://default")
	cmd.AddCommand(seal)
	return cmd
}

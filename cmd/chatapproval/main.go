package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/chatapproval"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chatapproval",
		Short:         "Chat based order approval service",
		Version:       chatapproval.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (YAML), local path or storage URL")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(ordersCmd())
	rootCmd.AddCommand(secretCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func loadConfig(cmd *cobra.Command) (*chatapproval.Config, error) {
	location, _ := cmd.Flags().GetString("config")
	return chatapproval.LoadConfig(cmd.Context(), location)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", chatapproval.ServiceName, chatapproval.Version)
		},
	}
}

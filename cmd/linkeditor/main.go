package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/linkeditor/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "linkeditor",
		Short: "Internal link editing and the lookup service behind it",
		Long: "linkeditor applies, updates and removes internal links in attributed text documents,\n" +
			"and serves the lookup API that resolves link titles and keyword labels.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newLinkCmd())
	rootCmd.AddCommand(newUnlinkCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), build.String())
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

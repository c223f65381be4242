package cmd

import (
	"fmt"
	"os"

	"r2-explorer/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configDir    string
	outputFormat string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "r2-explorer",
	Short: "Browse and manage Cloudflare R2 and other S3-compatible storage",
	Long: `R2 Explorer keeps credentials for several storage accounts and lets you
list buckets, browse folders, transfer files and issue presigned links.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Development preset for readable timestamps on the terminal.
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory holding the .env file")
	RootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")
}

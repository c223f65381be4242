package cmd

import (
	"github.com/spf13/cobra"
)

// bucketCmd groups the bucket commands; every subcommand takes the local account id first
var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Manage buckets of a stored account",
}

var bucketListCmd = &cobra.Command{
	Use:   "list <account>",
	Short: "List buckets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		buckets, err := a.service.ListBuckets(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, buckets)
	},
}

var bucketCreateCmd = &cobra.Command{
	Use:   "create <account> <bucket>",
	Short: "Create a bucket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.service.CreateBucket(cmd.Context(), args[0], args[1])
	},
}

var bucketDeleteCmd = &cobra.Command{
	Use:   "delete <account> <bucket>",
	Short: "Delete an empty bucket",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.service.DeleteBucket(cmd.Context(), args[0], args[1])
	},
}

var bucketInfoCmd = &cobra.Command{
	Use:   "info <account> <bucket>",
	Short: "Check that a bucket exists",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		info, err := a.service.GetBucketInfo(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, info)
	},
}

func init() {
	bucketCmd.AddCommand(bucketListCmd, bucketCreateCmd, bucketDeleteCmd, bucketInfoCmd)
	RootCmd.AddCommand(bucketCmd)
}

package cmd

import (
	"fmt"
	"path/filepath"

	"r2-explorer/core/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	objectPrefix    string
	presignExpiry   uint64
	downloadSaveDir string
)

// objectCmd groups the object commands; every subcommand takes the local account id and bucket first
var objectCmd = &cobra.Command{
	Use:   "object",
	Short: "Browse and transfer objects",
}

var objectListCmd = &cobra.Command{
	Use:   "list <account> <bucket>",
	Short: "List one folder level",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		objects, err := a.service.ListObjects(cmd.Context(), args[0], args[1], objectPrefix)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, objects)
	},
}

var objectDeleteCmd = &cobra.Command{
	Use:   "delete <account> <bucket> <key>...",
	Short: "Delete one or more objects",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		keys := args[2:]
		if len(keys) == 1 {
			return a.service.DeleteObject(cmd.Context(), args[0], args[1], keys[0])
		}
		return a.service.DeleteObjects(cmd.Context(), args[0], args[1], keys)
	},
}

var objectMkdirCmd = &cobra.Command{
	Use:   "mkdir <account> <bucket> <path>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.service.CreateFolder(cmd.Context(), args[0], args[1], args[2])
	},
}

var objectPresignCmd = &cobra.Command{
	Use:   "presign <account> <bucket> <key>",
	Short: "Print a presigned download URL",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		url, err := a.service.GetPresignedURL(cmd.Context(), args[0], args[1], args[2], presignExpiry)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, map[string]string{"url": url})
	},
}

var objectUploadCmd = &cobra.Command{
	Use:   "upload <account> <bucket> <local-file> [key]",
	Short: "Upload a local file",
	Long:  `Uploads a file in a single request. The key defaults to the file's base name.`,
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		key := filepath.Base(args[2])
		if len(args) == 4 {
			key = args[3]
		}
		if err := a.service.UploadFile(cmd.Context(), args[0], args[1], key, args[2]); err != nil {
			return err
		}
		a.logger.Info("Uploaded", zap.String("key", key))
		return nil
	},
}

var objectDownloadCmd = &cobra.Command{
	Use:   "download <account> <bucket> <key>",
	Short: "Download an object",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		savePath, err := downloadPath(downloadSaveDir, args[2])
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.service.DownloadFile(cmd.Context(), args[0], args[1], args[2], savePath); err != nil {
			return err
		}
		a.logger.Info("Downloaded", zap.String("path", savePath))
		return nil
	},
}

// downloadPath places key's file name under dir. Folder markers have no
// content to save.
func downloadPath(dir, key string) (string, error) {
	if utils.IsFolderMarker(key) {
		return "", fmt.Errorf("%q is a folder, not an object", key)
	}
	return filepath.Join(dir, utils.BaseName(key)), nil
}

func init() {
	objectListCmd.Flags().StringVar(&objectPrefix, "prefix", "", "folder to list")
	objectPresignCmd.Flags().Uint64Var(&presignExpiry, "expires-in", 3600, "validity in seconds")
	objectDownloadCmd.Flags().StringVar(&downloadSaveDir, "dir", ".", "directory to save into")

	objectCmd.AddCommand(objectListCmd, objectDeleteCmd, objectMkdirCmd, objectPresignCmd, objectUploadCmd, objectDownloadCmd)
	RootCmd.AddCommand(objectCmd)
}

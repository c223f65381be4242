package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	accountName        string
	accountRemoteID    string
	accountAccessKeyID string
	accountSecret      string
)

// accountCmd groups the credential store commands
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage stored storage accounts",
}

var accountSaveCmd = &cobra.Command{
	Use:   "save [id]",
	Short: "Create or replace an account",
	Long:  `Stores account metadata in the config file and the secret in the OS keyring. A new id is generated when none is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		id := uuid.NewString()
		if len(args) == 1 {
			id = args[0]
		}

		if err := a.service.SaveAccount(cmd.Context(), id, accountName, accountRemoteID, accountAccessKeyID, accountSecret); err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, map[string]string{"id": id})
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		accounts, err := a.service.GetAccounts(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, accounts)
	},
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account and its secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.service.DeleteAccount(cmd.Context(), args[0])
	},
}

var accountValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check credentials against the endpoint without storing them",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		valid, err := a.service.ValidateCredentials(cmd.Context(), accountRemoteID, accountAccessKeyID, accountSecret)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, map[string]bool{"valid": valid})
	},
}

func init() {
	for _, c := range []*cobra.Command{accountSaveCmd, accountValidateCmd} {
		c.Flags().StringVar(&accountRemoteID, "account-id", "", "remote account id")
		c.Flags().StringVar(&accountAccessKeyID, "access-key-id", "", "access key id")
		c.Flags().StringVar(&accountSecret, "secret-access-key", "", "secret access key")
		_ = c.MarkFlagRequired("account-id")
		_ = c.MarkFlagRequired("access-key-id")
		_ = c.MarkFlagRequired("secret-access-key")
	}
	accountSaveCmd.Flags().StringVar(&accountName, "name", "", "display name")

	accountCmd.AddCommand(accountSaveCmd, accountListCmd, accountDeleteCmd, accountValidateCmd)
	RootCmd.AddCommand(accountCmd)
}

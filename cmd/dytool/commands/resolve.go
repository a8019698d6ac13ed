package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/deppfellow/dytool-backend/internal/lib/utils"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <url or share text>",
	Short: "Prints the sec_user_id of a Douyin link.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		res := a.services.User.ExtractSecUserID(cmd.Context(), args[0])
		return utils.PrintJSON(cmd.OutOrStdout(), res)
	},
}

package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/deppfellow/dytool-backend/internal/lib/utils"
)

const cookieEnv = "DYTOOL_COOKIE"

var profileCookie *string

func init() {
	profileCookie = profileCmd.Flags().String("cookie", "", "Douyin web session cookie. Defaults to $"+cookieEnv+".")
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile <url or share text> [--cookie <cookie>]",
	Short: "Runs the profile parse workflow and prints the response.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cookie := *profileCookie
		if cookie == "" {
			cookie = os.Getenv(cookieEnv)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		res := a.services.User.ParseUser(cmd.Context(), args[0], cookie)
		return utils.PrintJSON(cmd.OutOrStdout(), res)
	},
}

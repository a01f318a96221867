package main

import (
	"github.com/spf13/cobra"

	"github.com/varoOP/reelshelf/internal/app"
	"github.com/varoOP/reelshelf/internal/domain"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Read or write user profiles",
}

var profileGetCmd = &cobra.Command{
	Use:   "get USER",
	Short: "Show a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) (any, error) {
			return a.Profile(cmd.Context(), args[0])
		})
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set [USER]",
	Short: "Create or update a profile",
	Long: `Set writes the profile fields given as flags. Without USER a new profile
with a generated id is created. Fields that are not given are cleared.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		p := &domain.Profile{}
		if len(args) == 1 {
			p.UserID = args[0]
		}
		p.Name, _ = flags.GetString("name")
		p.Email, _ = flags.GetString("email")
		p.AvatarURL, _ = flags.GetString("avatar-url")
		p.Birthday, _ = flags.GetString("birthday")
		p.FavoriteGenres, _ = flags.GetStringSlice("genre")

		return withApp(cmd, func(a *app.App) (any, error) {
			return a.SaveProfile(cmd.Context(), p)
		})
	},
}

func init() {
	profileSetCmd.Flags().String("name", "", "display name")
	profileSetCmd.Flags().String("email", "", "email address")
	profileSetCmd.Flags().String("avatar-url", "", "avatar image URL")
	profileSetCmd.Flags().String("birthday", "", "birthday, YYYY-MM-DD")
	profileSetCmd.Flags().StringSliceP("genre", "g", nil, "favorite genre name, repeatable")

	profileCmd.AddCommand(profileGetCmd, profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}

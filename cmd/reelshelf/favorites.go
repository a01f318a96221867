package main

import (
	"github.com/spf13/cobra"

	"github.com/varoOP/reelshelf/internal/app"
	"github.com/varoOP/reelshelf/internal/domain"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage a user's favorites",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list USER",
	Short: "List a user's favorites as display items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) (any, error) {
			return a.Favorites().Load(cmd.Context(), args[0])
		})
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add USER movie|tv ID",
	Short: "Add a title to a user's favorites",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleFavorite(cmd, args, true)
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove USER movie|tv ID",
	Short: "Remove a title from a user's favorites",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleFavorite(cmd, args, false)
	},
}

var favoritesCheckCmd = &cobra.Command{
	Use:   "check USER movie|tv ID",
	Short: "Report whether a title is one of the user's favorites",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := itemFromArgs(args[1:])
		if err != nil {
			return err
		}

		return withApp(cmd, func(a *app.App) (any, error) {
			fav, err := a.Favorites().IsFavorite(cmd.Context(), args[0], item)
			if err != nil {
				return nil, err
			}
			return map[string]any{"key": mustKey(item), "favorite": fav}, nil
		})
	},
}

func toggleFavorite(cmd *cobra.Command, args []string, isFavorite bool) error {
	item, err := itemFromArgs(args[1:])
	if err != nil {
		return err
	}

	return withApp(cmd, func(a *app.App) (any, error) {
		if err := a.Favorites().Toggle(cmd.Context(), args[0], item, isFavorite); err != nil {
			return nil, err
		}
		return map[string]any{"key": mustKey(item), "favorite": isFavorite}, nil
	})
}

func itemFromArgs(args []string) (domain.MediaDisplayItem, error) {
	kind, id, err := parseTitleArgs(args)
	if err != nil {
		return domain.MediaDisplayItem{}, err
	}
	return domain.MediaDisplayItem{ExternalID: id, MediaKind: kind}, nil
}

func mustKey(item domain.MediaDisplayItem) string {
	key, _ := item.FavoriteKey()
	return key.String()
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd, favoritesAddCmd, favoritesRemoveCmd, favoritesCheckCmd)
	rootCmd.AddCommand(favoritesCmd)
}

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/varoOP/reelshelf/internal/app"
	"github.com/varoOP/reelshelf/internal/domain"
)

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List merged movie and tv genre names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) (any, error) {
			return a.Genres(cmd.Context())
		})
	},
}

var recommendedCmd = &cobra.Command{
	Use:   "recommended",
	Short: "Discover titles for a set of preferred genres",
	Long: `Recommended discovers movies and tv shows matching the given genre names.
With --user the preferred genres are read from that user's profile. Without
any genres a random sample of the available genres is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		genres, _ := cmd.Flags().GetStringSlice("genre")
		user, _ := cmd.Flags().GetString("user")
		page, _ := cmd.Flags().GetInt("page")

		return withApp(cmd, func(a *app.App) (any, error) {
			if user != "" {
				return a.Feed().LoadRecommendedForUser(cmd.Context(), user, page)
			}
			return a.Feed().LoadRecommended(cmd.Context(), genres, page)
		})
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show trending movies and tv shows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("window")
		page, _ := cmd.Flags().GetInt("page")

		window, err := domain.ParseTimeWindow(raw)
		if err != nil {
			return err
		}

		return withApp(cmd, func(a *app.App) (any, error) {
			return a.Feed().LoadTrending(cmd.Context(), window, page)
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Search movies and tv shows",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		query := strings.Join(args, " ")

		return withApp(cmd, func(a *app.App) (any, error) {
			return a.Feed().Search(cmd.Context(), query, page)
		})
	},
}

func init() {
	recommendedCmd.Flags().StringSliceP("genre", "g", nil, "preferred genre name, repeatable")
	recommendedCmd.Flags().StringP("user", "u", "", "read preferred genres from this profile")
	recommendedCmd.Flags().Int("page", 1, "result page")

	trendingCmd.Flags().StringP("window", "w", "day", "time window: day or week")
	trendingCmd.Flags().Int("page", 1, "result page")

	searchCmd.Flags().Int("page", 1, "result page")

	rootCmd.AddCommand(genresCmd, recommendedCmd, trendingCmd, searchCmd)
}

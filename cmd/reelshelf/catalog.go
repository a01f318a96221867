package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/varoOP/reelshelf/internal/app"
	"github.com/varoOP/reelshelf/internal/domain"
)

var detailsCmd = &cobra.Command{
	Use:   "details movie|tv ID",
	Short: "Show one movie or tv show",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, id, err := parseTitleArgs(args)
		if err != nil {
			return err
		}

		return withApp(cmd, func(a *app.App) (any, error) {
			return a.Details(cmd.Context(), kind, id)
		})
	},
}

var creditsCmd = &cobra.Command{
	Use:   "credits movie|tv ID",
	Short: "Show cast and crew",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, id, err := parseTitleArgs(args)
		if err != nil {
			return err
		}

		return withApp(cmd, func(a *app.App) (any, error) {
			return a.Credits(cmd.Context(), kind, id)
		})
	},
}

var reviewsCmd = &cobra.Command{
	Use:   "reviews movie|tv ID",
	Short: "Show user reviews",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, id, err := parseTitleArgs(args)
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")

		return withApp(cmd, func(a *app.App) (any, error) {
			return a.Reviews(cmd.Context(), kind, id, page)
		})
	},
}

var seasonCmd = &cobra.Command{
	Use:   "season TVID NUMBER",
	Short: "Show the episodes of a tv season",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tvID, err := parseID(args[0])
		if err != nil {
			return err
		}
		number, err := strconv.Atoi(args[1])
		if err != nil || number < 0 {
			return fmt.Errorf("invalid season number: %s", args[1])
		}

		return withApp(cmd, func(a *app.App) (any, error) {
			return a.Season(cmd.Context(), tvID, number)
		})
	},
}

func parseTitleArgs(args []string) (domain.MediaKind, int, error) {
	kind, err := domain.ParseMediaKind(args[0])
	if err != nil {
		return "", 0, err
	}
	id, err := parseID(args[1])
	if err != nil {
		return "", 0, err
	}
	return kind, id, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}

func init() {
	reviewsCmd.Flags().Int("page", 1, "result page")

	rootCmd.AddCommand(detailsCmd, creditsCmd, reviewsCmd, seasonCmd)
}

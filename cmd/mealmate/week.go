package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mealmate/internal/app"
	"mealmate/internal/domain"
)

var (
	weekDate      string
	weekSearch    string
	weekFavorites bool
	weekSort      string
	weekMode      string
)

func init() {
	weekCmd.Flags().StringVar(&weekDate, "date", "", "any date inside the week (YYYY-MM-DD, default today)")
	weekCmd.Flags().StringVarP(&weekSearch, "query", "q", "", "only meals whose name contains this text")
	weekCmd.Flags().BoolVar(&weekFavorites, "favorites", false, "only favorite meals")
	weekCmd.Flags().StringVar(&weekSort, "sort", "", "sort by none, date or category")
	weekCmd.Flags().StringVar(&weekMode, "mode", "", "slot meals by date or weekday (default from config)")
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Print the planned meals of a week",
	Long: `Print the meals of one week grouped by day.

Examples:
  # This week
  mealmate week

  # Favorites of the week containing 2026-10-28
  mealmate week --date 2026-10-28 --favorites`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		q, err := weekQuery()
		if err != nil {
			return err
		}

		repo, closeRepo, err := openPlannerStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeRepo() }()

		meals := app.NewMealStore(repo, app.WithLogger(logger), app.WithRetry(retryPolicy(cfg)))
		if err := meals.LoadAll(cmd.Context()); err != nil {
			return err
		}
		planner := app.NewPlannerService(meals, plannerOptions(cfg)...)

		week := planner.CurrentWeek()
		if weekDate != "" {
			anchor, ok := domain.ParseDate(weekDate)
			if !ok {
				return fmt.Errorf("--date must be YYYY-MM-DD, got %q", weekDate)
			}
			week = planner.WeekAt(anchor)
		}
		printWeek(cmd.OutOrStdout(), planner.Greeting(), planner.View(week, q))
		return nil
	},
}

func weekQuery() (domain.ViewQuery, error) {
	sort, err := domain.ParseSortKey(weekSort)
	if err != nil {
		return domain.ViewQuery{}, err
	}
	var mode domain.Mode
	if weekMode != "" {
		if mode, err = domain.ParseMode(weekMode); err != nil {
			return domain.ViewQuery{}, err
		}
	}
	return domain.ViewQuery{Search: weekSearch, FavoritesOnly: weekFavorites, Sort: sort, Mode: mode}, nil
}

func printWeek(w io.Writer, greeting string, v app.WeekView) {
	fmt.Fprintln(w, greeting)
	fmt.Fprintln(w, v.Title)
	fmt.Fprintln(w, strings.Repeat("-", len(v.Title)))
	for _, day := range v.Days {
		marker := ""
		if day.Date == v.Today {
			marker = " (today)"
		}
		fmt.Fprintf(w, "%s%s\n", day.Label, marker)
		if len(day.Meals) == 0 {
			fmt.Fprintln(w, "  no meals planned")
			continue
		}
		for _, m := range day.Meals {
			star := ""
			if m.Favorite {
				star = " *"
			}
			fmt.Fprintf(w, "  %-9s  %s%s\n", m.Category, m.Name, star)
		}
	}
	if v.Empty() {
		fmt.Fprintln(w, "No meals match.")
	}
}

// Command gareport generates graduate-attribute histogram datasets from
// indicator and grade spreadsheets.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"gareport/internal/app"
	"gareport/internal/config"
	"gareport/internal/indicators"
)

var (
	programs    []string
	indicator   []string
	level       []string
	course      []string
	assessment  []string
	promoYear   int
	promoFile   string
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:           "gareport",
		Short:         "Generate graduate-attribute grade histograms",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Run one report generation sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Generate(config.LoadConfig(), programs, whitelistFilters())
		},
	}
	addWhitelistFlags(generateCmd)

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run generation sweeps on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Schedule(config.LoadConfig(), programs, whitelistFilters())
		},
	}
	addWhitelistFlags(scheduleCmd)

	splitPromoCmd := &cobra.Command{
		Use:   "split-promo",
		Short: "Split an Engineering One promotion sheet into grade files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.SplitPromo(config.LoadConfig(), promoYear, promoFile)
		},
	}
	splitPromoCmd.Flags().IntVar(&promoYear, "year", 0, "year on the promo sheet (academic year + 1)")
	splitPromoCmd.Flags().StringVar(&promoFile, "file", "", "promo sheet path (overrides --year search)")

	initDirsCmd := &cobra.Command{
		Use:   "init-dirs",
		Short: "Create the grade storage folder hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.InitDirs(config.LoadConfig())
		},
	}

	rootCmd.AddCommand(generateCmd, scheduleCmd, splitPromoCmd, initDirsCmd)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func addWhitelistFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&programs, "program", nil, "only process these programs")
	cmd.Flags().StringSliceVar(&indicator, "indicator", nil, "only rows whose indicator matches")
	cmd.Flags().StringSliceVar(&level, "level", nil, "only rows whose level matches")
	cmd.Flags().StringSliceVar(&course, "course", nil, "only rows whose course matches")
	cmd.Flags().StringSliceVar(&assessment, "assessment", nil, "only rows whose assessment matches")
}

// whitelistFilters builds store filters in a fixed key order; later keys
// narrow the rows surviving earlier ones.
func whitelistFilters() []indicators.Filter {
	var filters []indicators.Filter
	add := func(key string, values []string) {
		if len(values) > 0 {
			filters = append(filters, indicators.Filter{Key: key, Values: values})
		}
	}
	add("indicator", indicator)
	add("level", level)
	add("course", course)
	add("assessment", assessment)
	return filters
}

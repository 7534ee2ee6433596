// Package app wires the pipeline together for the CLI: storage, tabular
// store, renderer, notifications and the optional cron schedule.
package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/robfig/cron/v3"

	"gareport/internal/config"
	"gareport/internal/indicators"
	"gareport/internal/integrations/llm"
	slacknotify "gareport/internal/integrations/slack"
	"gareport/internal/render"
	"gareport/internal/report"
	"gareport/internal/storage/sqlite"
	"gareport/internal/tabular"
)

// Generate runs one full report sweep and sends notifications.
func Generate(cfg config.Config, programs []string, filters []indicators.Filter) error {
	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("init run catalog: %w", err)
	}
	defer db.Close()

	if err := os.MkdirAll(cfg.HistogramsDir, 0755); err != nil {
		return fmt.Errorf("create histograms dir: %w", err)
	}

	tab := tabular.NewXLSXStore()
	gen := report.NewGenerator(cfg, tab, render.NewDatasetExporter(tab), db)
	result, err := gen.Run(programs, filters)
	if err != nil {
		return err
	}

	narrative := ""
	if cfg.LLMConfigured() && result.Missing > 0 {
		missing, err := sqlite.MissingForRun(db, result.RunID)
		if err != nil {
			log.Printf("Error loading missing data for summary: %v", err)
		} else if narrative, err = llm.SummarizeMissing(cfg.AnthropicAPIKey, cfg.LLMModel, missing); err != nil {
			log.Printf("Error summarizing run: %v", err)
			narrative = ""
		}
	}
	if cfg.SlackConfigured() {
		notifier := slacknotify.NewNotifier(cfg.SlackBotToken, cfg.SlackChannelID)
		if err := notifier.PostRunSummary(result.Summary(), narrative); err != nil {
			log.Printf("Error posting run summary: %v", err)
		}
	}
	return nil
}

// SplitPromo splits a promotion sheet into per-program grade files.
func SplitPromo(cfg config.Config, year int, file string) error {
	if year == 0 && file == "" {
		return fmt.Errorf("either --year or --file is required")
	}
	return report.SplitPromoSheet(cfg, tabular.NewXLSXStore(), year, file)
}

// Schedule runs Generate on the configured cron spec and blocks.
func Schedule(cfg config.Config, programs []string, filters []indicators.Filter) error {
	if cfg.Schedule == "" {
		return fmt.Errorf("no schedule configured")
	}
	c := cron.New()
	_, err := c.AddFunc(cfg.Schedule, func() {
		if err := Generate(cfg, programs, filters); err != nil {
			log.Printf("Scheduled run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
	}
	log.Printf("Report generation scheduled: %s", cfg.Schedule)
	c.Run()
	return nil
}

// InitDirs bootstraps the grade storage hierarchy: one folder per
// program plus the shared Core and Co-op folders, the indicators folder
// and the histograms folder.
func InitDirs(cfg config.Config) error {
	dirs := []string{cfg.IndicatorsDir, cfg.HistogramsDir}
	subdirs := append(append([]string(nil), cfg.Programs...), "Core", "Co-op")
	for _, d := range subdirs {
		dirs = append(dirs, filepath.Join(cfg.GradesDir, d))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
		log.Printf("Created %s", d)
	}
	return nil
}

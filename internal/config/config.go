package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"gareport/internal/domain"
)

type Config struct {
	Name         string `yaml:"name"`
	PlotGradesBy string `yaml:"plot_grades_by"`

	Programs      []string `yaml:"programs"`
	IndicatorsDir string   `yaml:"indicators_dir"`
	GradesDir     string   `yaml:"grades_dir"`
	HistogramsDir string   `yaml:"histograms_dir"`

	UniqueCoursesFile string   `yaml:"unique_courses_file"`
	MissingDataLog    string   `yaml:"missing_data_log"`
	GradeFileExt      string   `yaml:"grade_file_ext"`
	GradeBackupDirs   []string `yaml:"grade_backup_dirs"`

	HeaderAttribs []string `yaml:"header_attribs"`
	BinLabels     []string `yaml:"bin_labels"`
	GraphTitle    string   `yaml:"graph_title"`

	MaxPlots     int     `yaml:"max_plots"`
	AddTitle     bool    `yaml:"-"`
	AddPercents  bool    `yaml:"-"`
	AddLegend    bool    `yaml:"-"`
	AddBinRanges bool    `yaml:"-"`
	ShowNDA      bool    `yaml:"-"`
	NDAThreshold float64 `yaml:"nda_threshold"`

	DBPath   string `yaml:"db_path"`
	Schedule string `yaml:"schedule"` // cron spec; empty disables scheduling

	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`
}

// toggles carries the boolean options separately so an omitted key can
// default to true.
type toggles struct {
	AddTitle     *bool `yaml:"add_title"`
	AddPercents  *bool `yaml:"add_percents"`
	AddLegend    *bool `yaml:"add_legend"`
	AddBinRanges *bool `yaml:"add_bin_ranges"`
	ShowNDA      *bool `yaml:"show_nda"`
}

func LoadConfig() Config {
	var cfg Config
	var tog toggles

	// A local .env can hold tokens during development.
	_ = godotenv.Load()

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		if err := yaml.Unmarshal(data, &tog); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.Name, "REPORT_CONFIG_NAME")
	envOverride(&cfg.IndicatorsDir, "INDICATORS_DIR")
	envOverride(&cfg.GradesDir, "GRADES_DIR")
	envOverride(&cfg.HistogramsDir, "HISTOGRAMS_DIR")
	envOverride(&cfg.MissingDataLog, "MISSING_DATA_LOG")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.Schedule, "SCHEDULE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverrideFloat(&cfg.NDAThreshold, "NDA_THRESHOLD")
	envOverrideInt(&cfg.MaxPlots, "MAX_PLOTS")

	if names := os.Getenv("PROGRAMS"); names != "" {
		cfg.Programs = nil
		for _, name := range strings.Split(names, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				cfg.Programs = append(cfg.Programs, name)
			}
		}
	}

	// Defaults
	if cfg.Name == "" {
		cfg.Name = "default"
	}
	if cfg.PlotGradesBy == "" {
		cfg.PlotGradesBy = "year"
	}
	if len(cfg.Programs) == 0 {
		cfg.Programs = []string{"ENCM", "ENCV", "ENEL", "ENMC", "ENPR", "ONAE"}
	}
	if cfg.IndicatorsDir == "" {
		cfg.IndicatorsDir = "./Indicators"
	}
	if cfg.GradesDir == "" {
		cfg.GradesDir = "./Grades"
	}
	if cfg.HistogramsDir == "" {
		cfg.HistogramsDir = "./Histograms"
	}
	if cfg.UniqueCoursesFile == "" {
		cfg.UniqueCoursesFile = filepath.Join(cfg.IndicatorsDir, "Unique Courses.xlsx")
	}
	if cfg.MissingDataLog == "" {
		cfg.MissingDataLog = filepath.Join(cfg.HistogramsDir, "missing_data.log")
	}
	if cfg.GradeFileExt == "" {
		cfg.GradeFileExt = ".xlsx"
	}
	if len(cfg.GradeBackupDirs) == 0 {
		cfg.GradeBackupDirs = []string{"Core", "Co-op", "ECE"}
	}
	if len(cfg.HeaderAttribs) == 0 {
		cfg.HeaderAttribs = []string{"Graduate Attribute", "Indicator", "Level", "Program", "Course", "Assessment"}
	}
	if len(cfg.BinLabels) == 0 {
		cfg.BinLabels = append([]string(nil), domain.DefaultBinLabels...)
	}
	if cfg.GraphTitle == "" {
		cfg.GraphTitle = "GRADE DISTRIBUTION"
	}
	if cfg.MaxPlots == 0 {
		cfg.MaxPlots = 5
	}
	if cfg.NDAThreshold == 0 {
		cfg.NDAThreshold = 0.10
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./gareport.db"
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = "claude-3-5-haiku-latest"
	}
	cfg.AddTitle = boolOrDefault(tog.AddTitle, true)
	cfg.AddPercents = boolOrDefault(tog.AddPercents, true)
	cfg.AddLegend = boolOrDefault(tog.AddLegend, true)
	cfg.AddBinRanges = boolOrDefault(tog.AddBinRanges, true)
	cfg.ShowNDA = boolOrDefault(tog.ShowNDA, true)

	// Validate once at load; per-row code trusts these.
	if cfg.MaxPlots < 1 {
		log.Fatalf("invalid max_plots '%d': must be >= 1", cfg.MaxPlots)
	}
	if cfg.NDAThreshold < 0 || cfg.NDAThreshold > 1 {
		log.Fatalf("invalid nda_threshold '%f': must be between 0 and 1", cfg.NDAThreshold)
	}
	if !strings.HasPrefix(cfg.GradeFileExt, ".") {
		log.Fatalf("invalid grade_file_ext '%s': must start with a dot", cfg.GradeFileExt)
	}
	for _, attrib := range cfg.HeaderAttribs {
		if strings.TrimSpace(attrib) == "" {
			log.Fatalf("invalid header_attribs: blank attribute name")
		}
	}
	if cfg.SlackBotToken != "" && cfg.SlackChannelID == "" {
		log.Fatalf("slack_channel_id is required when slack_bot_token is set")
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// SlackConfigured reports whether run summaries should go to Slack.
func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackChannelID != ""
}

// LLMConfigured reports whether narrative run summaries are enabled.
func (c Config) LLMConfigured() bool {
	return c.AnthropicAPIKey != ""
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"glucose-chart/internal/glucose"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Series   SeriesConfig   `mapstructure:"series"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	App      AppConfig      `mapstructure:"app"`
}

// SeriesConfig drives the generator.
type SeriesConfig struct {
	Start       string `mapstructure:"start"`
	End         string `mapstructure:"end"`
	MinValue    int    `mapstructure:"min_value"`
	MaxValue    int    `mapstructure:"max_value"`
	Granularity string `mapstructure:"granularity"`
	Seed        uint64 `mapstructure:"seed"` // 0 = seeded from the clock
}

// ChartConfig holds renderer choice, cosmetics and output location.
type ChartConfig struct {
	Renderer   string   `mapstructure:"renderer"` // canvas or gochart
	Width      int      `mapstructure:"width"`
	Height     int      `mapstructure:"height"`
	LineColor  string   `mapstructure:"line_color"`
	MarkerSize float64  `mapstructure:"marker_size"`
	LineWidth  float64  `mapstructure:"line_width"`
	Alpha      float64  `mapstructure:"alpha"`
	OutputDir  string   `mapstructure:"output_dir"`
	Show       bool     `mapstructure:"show"` // open the PNG in the system viewer
	FontPaths  []string `mapstructure:"font_paths"`
}

type TelegramConfig struct {
	BotToken      string  `mapstructure:"bot_token"`
	ChatID        string  `mapstructure:"chat_id"`
	SendCron      string  `mapstructure:"send_cron"` // standard 5-field cron, empty disables
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	MaxRetries    int     `mapstructure:"max_retries"`
}

type AppConfig struct {
	LogDir string `mapstructure:"log_dir"`
}

// timeLayouts are tried in order; layouts without a zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime reads a date or date-time in one of the supported layouts.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q (use YYYY-MM-DD, YYYY-MM-DDTHH:MM or RFC3339)", s)
}

// StartTime parses Series.Start.
func (c SeriesConfig) StartTime() (time.Time, error) { return ParseTime(c.Start) }

// EndTime parses Series.End.
func (c SeriesConfig) EndTime() (time.Time, error) { return ParseTime(c.End) }

// LoadConfig reads configuration from, in increasing priority:
// 1. defaults
// 2. config.yaml in the working directory
// 3. environment (.env is loaded first)
// 4. flags registered with RegisterFlags on flags, if not nil
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	// .env is optional
	godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	}

	// TELEGRAM_SEND_CRON= must be able to disable the schedule
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	setupEnvAliases(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// CHART_FONT_PATHS and --chart.font_paths arrive as one comma-separated string
	if raw := v.Get("chart.font_paths"); raw != nil {
		switch fp := raw.(type) {
		case string:
			config.Chart.FontPaths = splitList(fp)
		case []string:
			config.Chart.FontPaths = fp
		case []interface{}:
			result := make([]string, 0, len(fp))
			for _, item := range fp {
				if str, ok := item.(string); ok {
					result = append(result, strings.TrimSpace(str))
				}
			}
			config.Chart.FontPaths = result
		}
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setupEnvAliases(v *viper.Viper) {
	// Series
	v.BindEnv("series.start", "GLUCOSE_START")
	v.BindEnv("series.end", "GLUCOSE_END")
	v.BindEnv("series.min_value", "GLUCOSE_MIN_VALUE")
	v.BindEnv("series.max_value", "GLUCOSE_MAX_VALUE")
	v.BindEnv("series.granularity", "GLUCOSE_GRANULARITY")
	v.BindEnv("series.seed", "GLUCOSE_SEED")

	// Chart
	v.BindEnv("chart.renderer", "CHART_RENDERER")
	v.BindEnv("chart.width", "CHART_WIDTH")
	v.BindEnv("chart.height", "CHART_HEIGHT")
	v.BindEnv("chart.line_color", "CHART_LINE_COLOR")
	v.BindEnv("chart.marker_size", "CHART_MARKER_SIZE")
	v.BindEnv("chart.line_width", "CHART_LINE_WIDTH")
	v.BindEnv("chart.alpha", "CHART_ALPHA")
	v.BindEnv("chart.output_dir", "CHART_OUTPUT_DIR")
	v.BindEnv("chart.show", "CHART_SHOW")
	v.BindEnv("chart.font_paths", "CHART_FONT_PATHS")

	// Telegram
	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	v.BindEnv("telegram.send_cron", "TELEGRAM_SEND_CRON")
	v.BindEnv("telegram.rate_per_second", "TELEGRAM_RATE_PER_SECOND")
	v.BindEnv("telegram.max_retries", "TELEGRAM_MAX_RETRIES")

	// App
	v.BindEnv("app.log_dir", "LOG_DIR")
}

func setDefaults(v *viper.Viper) {
	// Series
	v.SetDefault("series.start", "2025-01-20")
	v.SetDefault("series.end", "2025-01-27")
	v.SetDefault("series.min_value", 70)
	v.SetDefault("series.max_value", 180)
	v.SetDefault("series.granularity", "day")
	v.SetDefault("series.seed", 0)

	// Chart
	v.SetDefault("chart.renderer", "canvas")
	v.SetDefault("chart.width", 1200)
	v.SetDefault("chart.height", 600)
	v.SetDefault("chart.line_color", "r")
	v.SetDefault("chart.marker_size", 4.0)
	v.SetDefault("chart.line_width", 1.2)
	v.SetDefault("chart.alpha", 0.7)
	v.SetDefault("chart.output_dir", "etc/charts")
	v.SetDefault("chart.show", false)

	// Telegram
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.send_cron", "0 10 * * *") // daily at 10:00
	v.SetDefault("telegram.rate_per_second", 1.0)
	v.SetDefault("telegram.max_retries", 3)

	// App
	v.SetDefault("app.log_dir", "logs")
}

// RegisterFlags adds the configuration flags to fs. Bind them with LoadConfig(fs).
func RegisterFlags(fs *pflag.FlagSet) {
	// Series
	fs.String("series.start", "2025-01-20", "Series start, YYYY-MM-DD[THH:MM] (env: GLUCOSE_START)")
	fs.String("series.end", "2025-01-27", "Series end, inclusive (env: GLUCOSE_END)")
	fs.Int("series.min_value", 70, "Minimum glucose value in mg/dL (env: GLUCOSE_MIN_VALUE)")
	fs.Int("series.max_value", 180, "Maximum glucose value in mg/dL (env: GLUCOSE_MAX_VALUE)")
	fs.String("series.granularity", "day", "Granularity: day, hour or minute (env: GLUCOSE_GRANULARITY)")
	fs.Uint64("series.seed", 0, "Random seed, 0 seeds from the clock (env: GLUCOSE_SEED)")

	// Chart
	fs.String("chart.renderer", "canvas", "Chart backend: canvas or gochart (env: CHART_RENDERER)")
	fs.Int("chart.width", 1200, "Chart width in px (env: CHART_WIDTH)")
	fs.Int("chart.height", 600, "Chart height in px (env: CHART_HEIGHT)")
	fs.String("chart.line_color", "r", "Line color: b g r c m y k w, a name or #rrggbb (env: CHART_LINE_COLOR)")
	fs.Float64("chart.marker_size", 4, "Marker size in points (env: CHART_MARKER_SIZE)")
	fs.Float64("chart.line_width", 1.2, "Line width in points (env: CHART_LINE_WIDTH)")
	fs.Float64("chart.alpha", 0.7, "Line and marker opacity, 0..1 (env: CHART_ALPHA)")
	fs.String("chart.output_dir", "etc/charts", "Directory for rendered charts (env: CHART_OUTPUT_DIR)")
	fs.Bool("chart.show", false, "Open the chart in the system image viewer (env: CHART_SHOW)")
	fs.String("chart.font_paths", "", "Comma-separated TrueType font paths (env: CHART_FONT_PATHS)")

	// Telegram
	fs.String("telegram.bot_token", "", "Telegram bot token (env: TELEGRAM_BOT_TOKEN)")
	fs.String("telegram.chat_id", "", "Telegram chat ID (env: TELEGRAM_CHAT_ID)")
	fs.String("telegram.send_cron", "0 10 * * *", "Cron schedule for chart delivery, empty disables (env: TELEGRAM_SEND_CRON)")

	// App
	fs.String("app.log_dir", "logs", "Log directory (env: LOG_DIR)")
}

// Validate checks the generator and chart settings.
func Validate(cfg *Config) error {
	if _, err := glucose.ParseGranularity(cfg.Series.Granularity); err != nil {
		return err
	}
	start, err := cfg.Series.StartTime()
	if err != nil {
		return fmt.Errorf("series.start: %w", err)
	}
	end, err := cfg.Series.EndTime()
	if err != nil {
		return fmt.Errorf("series.end: %w", err)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: series.start %s must be before series.end %s", glucose.ErrInvalidRange, cfg.Series.Start, cfg.Series.End)
	}
	if cfg.Series.MinValue > cfg.Series.MaxValue {
		return fmt.Errorf("%w: series.min_value %d > series.max_value %d", glucose.ErrInvalidValueRange, cfg.Series.MinValue, cfg.Series.MaxValue)
	}

	if cfg.Chart.Width <= 0 || cfg.Chart.Height <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", cfg.Chart.Width, cfg.Chart.Height)
	}
	if cfg.Chart.MarkerSize <= 0 || cfg.Chart.LineWidth <= 0 {
		return fmt.Errorf("chart.marker_size and chart.line_width must be positive")
	}
	if cfg.Chart.Alpha <= 0 || cfg.Chart.Alpha > 1 {
		return fmt.Errorf("chart.alpha must be within (0, 1], got %v", cfg.Chart.Alpha)
	}
	return nil
}

// ValidateTelegram checks the settings needed to talk to Telegram.
func ValidateTelegram(cfg *Config) error {
	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if cfg.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load builds the run configuration. Starts with defaults, overlays an
// optional config.yaml from configPath, then environment variables.
func Load(configPath string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	} else {
		v.AddConfigPath(".")
	}
	v.AutomaticEnv()        // allow environment overrides
	v.SetEnvPrefix("SHIEN") // map env vars like SHIEN_OUTPUT_SUFFIX

	v.BindEnv("template.format_sheet")
	v.BindEnv("output.suffix")
	v.BindEnv("limits.contact_note")
	v.BindEnv("limits.remarks")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Use defaults + env.
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	// Override defaults if values exist
	if v.IsSet("template.format_sheet") {
		cfg.FormatSheet = v.GetString("template.format_sheet")
	}
	if v.IsSet("output.suffix") {
		cfg.OutputSuffix = v.GetString("output.suffix")
	}
	if v.IsSet("limits.contact_note") {
		cfg.ContactNoteCap = v.GetInt("limits.contact_note")
	}
	if v.IsSet("limits.remarks") {
		cfg.RemarksCap = v.GetInt("limits.remarks")
	}
	if v.IsSet("font.override_size") {
		cfg.OverrideFontSize = v.GetFloat64("font.override_size")
	}
	if v.IsSet("columns.date") {
		cfg.DateColumns = v.GetStringSlice("columns.date")
	}
	if v.IsSet("columns.contact") {
		cfg.ContactColumns = v.GetStringSlice("columns.contact")
	}

	cells := map[string]*string{
		"cells.office":      &cfg.Cells.Office,
		"cells.date":        &cfg.Cells.Date,
		"cells.user":        &cfg.Cells.User,
		"cells.time":        &cfg.Cells.Time,
		"cells.method":      &cfg.Cells.Method,
		"cells.program":     &cfg.Cells.Program,
		"cells.dayreport":   &cfg.Cells.DayReport,
		"cells.temperature": &cfg.Cells.Temperature,
		"cells.contact":     &cfg.Cells.Contact,
	}
	for key, target := range cells {
		if v.IsSet(key) {
			*target = v.GetString(key)
		}
	}

	return cfg, nil
}

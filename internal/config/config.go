package config

// CellMap pins each output field to its position on the format sheet. The
// positions are configuration because historical template variants disagree
// on where the contact note lives.
type CellMap struct {
	Office      string
	Date        string
	User        string
	Time        string
	Method      string
	Program     string
	DayReport   string
	Temperature string
	Contact     string
}

// Config carries every tunable of a generation run. Defaults match the
// current template; a config.yaml or SHIEN_* environment variables override.
type Config struct {
	FormatSheet  string
	OutputSuffix string
	Cells        CellMap

	// ContactNoteCap limits each contact-note segment; RemarksCap limits the
	// remarks fallback text before segmentation.
	ContactNoteCap int
	RemarksCap     int

	// OverrideFontSize is applied to the program and contact cells.
	OverrideFontSize float64

	// DateColumns and ContactColumns are candidate headers in the daily log,
	// tested in order; first present wins.
	DateColumns    []string
	ContactColumns []string
}

// DefaultConfig returns the built-in settings for the current template.
func DefaultConfig() Config {
	return Config{
		FormatSheet:  "Format",
		OutputSuffix: "サービス提供記録",
		Cells: CellMap{
			Office:      "B3",
			Date:        "B4",
			User:        "G4",
			Time:        "B5",
			Method:      "G5",
			Program:     "A9",
			DayReport:   "A11",
			Temperature: "B13",
			Contact:     "B15",
		},
		ContactNoteCap:   30,
		RemarksCap:       1500,
		OverrideFontSize: 9,
		DateColumns:      []string{"日付", "年月日", "対象日"},
		ContactColumns:   []string{"連絡事項", "Slack連絡", "連絡"},
	}
}

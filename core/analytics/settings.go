package analytics

import "github.com/trezcool/schoolinsights/core"

// Settings are the tunables of the Engine.
type Settings struct {
	TrendDays         int
	TopPerformers     int
	DirectoryLimit    int
	WorklistThreshold float64
	WorklistLimit     int
	SuggestionCutoff  float64
	MaxSuggestions    int
}

func DefaultSettings() Settings {
	return Settings{
		TrendDays:         30,
		TopPerformers:     5,
		DirectoryLimit:    50,
		WorklistThreshold: 3.5,
		WorklistLimit:     10,
		SuggestionCutoff:  0.6,
		MaxSuggestions:    3,
	}
}

// NewSettings reads the settings from the configuration; unset values keep their default.
func NewSettings(conf core.AnalyticsConfig) Settings {
	s := DefaultSettings()
	if conf.TrendDays > 0 {
		s.TrendDays = conf.TrendDays
	}
	if conf.TopPerformers > 0 {
		s.TopPerformers = conf.TopPerformers
	}
	if conf.DirectoryLimit > 0 {
		s.DirectoryLimit = conf.DirectoryLimit
	}
	if conf.WorklistThreshold > 0 {
		s.WorklistThreshold = conf.WorklistThreshold
	}
	if conf.WorklistLimit > 0 {
		s.WorklistLimit = conf.WorklistLimit
	}
	if conf.SuggestionCutoff > 0 {
		s.SuggestionCutoff = conf.SuggestionCutoff
	}
	if conf.MaxSuggestions > 0 {
		s.MaxSuggestions = conf.MaxSuggestions
	}
	return s
}

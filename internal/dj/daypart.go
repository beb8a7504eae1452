package dj

import (
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DaypartConfig maps weekday/hour ranges to an energy flow pattern so the
// station sounds different at breakfast than at 2am.
type DaypartConfig struct {
	Defaults DaypartRules             `yaml:"defaults"`
	Dayparts map[string][]DaypartSlot `yaml:"dayparts"`
}

type DaypartSlot struct {
	StartHour int    `yaml:"start_hour"`
	EndHour   int    `yaml:"end_hour"`
	Name      string `yaml:"name"`
	Pattern   string `yaml:"pattern"`
}

type DaypartRules struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

var (
	currentDayparts *DaypartConfig
	daypartMu       sync.RWMutex
	// Fallback if config fails entirely
	fallbackDaypart = DaypartRules{
		Name:    "General Rotation",
		Pattern: PatternMixed,
	}
)

func LoadDayparts(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var cfg DaypartConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}

	daypartMu.Lock()
	currentDayparts = &cfg
	daypartMu.Unlock()

	log.Printf("📅 Dayparts loaded: defaults + %d days of slots", len(cfg.Dayparts))
	return nil
}

// CurrentDaypart returns the rules for the slot covering t, the YAML
// defaults when no slot matches, or the hardcoded fallback when no config
// was ever loaded.
func CurrentDaypart(t time.Time) DaypartRules {
	daypartMu.RLock()
	defer daypartMu.RUnlock()

	if currentDayparts == nil {
		return fallbackDaypart
	}

	dayName := strings.ToLower(t.Weekday().String())
	hour := t.Hour()

	if slots, ok := currentDayparts.Dayparts[dayName]; ok {
		for _, slot := range slots {
			if hour >= slot.StartHour && hour < slot.EndHour {
				return DaypartRules{Name: slot.Name, Pattern: slot.Pattern}
			}
		}
	}

	return currentDayparts.Defaults
}

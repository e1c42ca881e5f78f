package timerfile

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"timervid/types"
)

type yamlFile struct {
	Categories []types.Category `yaml:"categories"`
}

// ParseYAML reads categories of countdown and interval timers:
//
//	categories:
//	  - name: Workout Timers
//	    countdowns:
//	      - {name: Plank Challenge, minutes: 1, seconds: 30}
//	    intervals:
//	      - name: Tabata
//	        total_video_length: 250
//	        prepare_duration: 10
//	        intervals_repeat: 8
//	        interval_list:
//	          - {name: work, seconds: 20, color: green}
//	          - {name: rest, seconds: 10, color: red}
//
// Timers that cannot be planned are skipped with a warning.
func ParseYAML(r io.Reader) ([]types.Category, []Warning, error) {
	var doc yamlFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []types.Category{}, nil, nil
		}
		return nil, nil, err
	}

	set := newCategorySet()
	var warnings []Warning
	for i, c := range doc.Categories {
		name := types.NormalizeCategory(c.Name)
		if name == "" {
			warnings = append(warnings, Warning{i + 1, "", "category without a name"})
			continue
		}
		cat := set.get(name)

		for _, t := range c.Countdowns {
			if t.Name == "" || t.Minutes < 0 || t.Seconds < 0 {
				warnings = append(warnings, Warning{i + 1, t.Name, "invalid countdown"})
				continue
			}
			t.Category = name
			cat.Countdowns = append(cat.Countdowns, t)
		}
		for _, t := range c.Intervals {
			if err := checkInterval(t); err != nil {
				warnings = append(warnings, Warning{i + 1, t.Name, err.Error()})
				continue
			}
			t.Category = name
			cat.Intervals = append(cat.Intervals, t)
		}
	}
	return set.list(), warnings, nil
}

func checkInterval(t types.IntervalTimer) error {
	switch {
	case t.Name == "":
		return errors.New("missing name")
	case t.TotalSeconds <= 0:
		return fmt.Errorf("invalid total_video_length %v", t.TotalSeconds)
	case t.PrepareSeconds < 0:
		return fmt.Errorf("invalid prepare_duration %v", t.PrepareSeconds)
	case t.Repeat < 1:
		return fmt.Errorf("invalid intervals_repeat %d", t.Repeat)
	}
	return nil
}

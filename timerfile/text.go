package timerfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"timervid/types"
)

// ParseText reads the flat countdown format:
//
//	# comment
//	[Food Timers]
//	Pasta,10,0
//	Steak (rare),3,30
func ParseText(r io.Reader) ([]types.Category, []Warning, error) {
	set := newCategorySet()
	var warnings []Warning
	current := ""

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = types.NormalizeCategory(line[1 : len(line)-1])
			if current == "" {
				warnings = append(warnings, Warning{lineNo, line, "empty category name"})
				continue
			}
			set.get(current)
			continue
		}

		if current == "" {
			warnings = append(warnings, Warning{lineNo, line, "timer outside of a category"})
			continue
		}

		timer, err := parseCountdownLine(line)
		if err != nil {
			warnings = append(warnings, Warning{lineNo, line, err.Error()})
			continue
		}
		timer.Category = current
		cat := set.get(current)
		cat.Countdowns = append(cat.Countdowns, timer)
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, err
	}
	return set.list(), warnings, nil
}

func parseCountdownLine(line string) (types.CountdownTimer, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return types.CountdownTimer{}, fmt.Errorf("expected name,minutes,seconds but got %d fields", len(parts))
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return types.CountdownTimer{}, errors.New("missing timer name")
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return types.CountdownTimer{}, errors.New("invalid minutes")
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return types.CountdownTimer{}, errors.New("invalid seconds")
	}
	if minutes < 0 || seconds < 0 {
		return types.CountdownTimer{}, errors.New("negative duration")
	}
	return types.CountdownTimer{Name: name, Minutes: minutes, Seconds: seconds}, nil
}

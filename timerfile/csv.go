package timerfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"timervid/types"
)

// DefaultIntervalCategory holds CSV rows without a category column
const DefaultIntervalCategory = "interval_timers"

var requiredColumns = []string{
	"name",
	"total_video_length",
	"prepare_duration",
	"intervals_repeat",
	"interval_list",
}

// ParseCSV reads interval timers from a CSV file with a header row.
// Optional columns: category, prepare_text.
func ParseCSV(r io.Reader) ([]types.Category, []Warning, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []types.Category{}, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range requiredColumns {
		if _, ok := cols[want]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", want)
		}
	}

	set := newCategorySet()
	var warnings []Warning
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				warnings = append(warnings, Warning{perr.Line, "", perr.Err.Error()})
				continue
			}
			return nil, warnings, err
		}
		line, _ := reader.FieldPos(0)

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		timer, err := parseIntervalRow(field)
		if err != nil {
			warnings = append(warnings, Warning{line, strings.Join(record, ","), err.Error()})
			continue
		}
		cat := set.get(timer.Category)
		cat.Intervals = append(cat.Intervals, timer)
	}
	return set.list(), warnings, nil
}

func parseIntervalRow(field func(string) string) (types.IntervalTimer, error) {
	name := field("name")
	if name == "" {
		return types.IntervalTimer{}, errors.New("missing name")
	}
	total, err := strconv.ParseFloat(field("total_video_length"), 64)
	if err != nil || total <= 0 {
		return types.IntervalTimer{}, errors.New("invalid total_video_length")
	}
	prepare, err := strconv.ParseFloat(field("prepare_duration"), 64)
	if err != nil || prepare < 0 {
		return types.IntervalTimer{}, errors.New("invalid prepare_duration")
	}
	repeat, err := strconv.Atoi(field("intervals_repeat"))
	if err != nil || repeat < 1 {
		return types.IntervalTimer{}, errors.New("invalid intervals_repeat")
	}
	intervals, err := ParseIntervalList(field("interval_list"))
	if err != nil {
		return types.IntervalTimer{}, fmt.Errorf("invalid interval_list: %w", err)
	}

	category := types.NormalizeCategory(field("category"))
	if category == "" {
		category = DefaultIntervalCategory
	}
	return types.IntervalTimer{
		Name:           name,
		Category:       category,
		TotalSeconds:   total,
		PrepareSeconds: prepare,
		PrepareText:    field("prepare_text"),
		Repeat:         repeat,
		Intervals:      intervals,
	}, nil
}

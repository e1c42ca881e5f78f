package publish

import (
	"fmt"
	"strings"

	"timervid/config"
	"timervid/timeline"
)

const maxTitleLength = 100

// Metadata is what YouTube needs besides the file
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
}

// GenerateMetadata derives title, description and tags from the plan
func GenerateMetadata(plan timeline.Plan) Metadata {
	countdown := isCountdown(plan)
	clock := timeline.FormatClock(int(plan.Total))

	kind := "Interval Timer"
	if countdown {
		kind = "Timer"
		if len(plan.Segments) > 0 {
			clock = timeline.FormatClock(plan.Segments[0].CountFrom)
		}
	}

	title := fmt.Sprintf("%s %s (%s)", plan.Name, kind, clock)
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength-3] + "..."
	}

	category := strings.ReplaceAll(plan.Category, "_", " ")
	description := fmt.Sprintf(
		"%s\n\n"+
			"⏱️ %s\n"+
			"📂 %s\n\n"+
			"#timer #%s",
		plan.Name,
		plan.Summary(),
		category,
		strings.ReplaceAll(plan.Category, "_", ""),
	)

	tags := []string{"timer", strings.ToLower(plan.Name)}
	if countdown {
		tags = append(tags, "countdown", "countdown timer")
	} else {
		tags = append(tags, "interval timer", "workout timer")
	}
	if category != "" {
		tags = append(tags, category)
	}

	return Metadata{
		Title:       title,
		Description: description,
		Tags:        tags,
		CategoryID:  config.YouTubeCategoryID,
		Privacy:     config.YouTubePrivacyStatus,
	}
}

func isCountdown(plan timeline.Plan) bool {
	for _, s := range plan.Segments {
		if s.Kind == timeline.KindCountdown {
			return true
		}
	}
	return false
}

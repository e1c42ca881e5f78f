package timerfile

import (
	"fmt"
	"strings"

	"timervid/types"
)

var safeNameReplacer = strings.NewReplacer(" ", "_", "/", "", ":", "", ",", "", `"`, "", "\\", "")

// SafeName turns a timer name into something usable as a file name
func SafeName(name string) string {
	return safeNameReplacer.Replace(strings.TrimSpace(name))
}

// CountdownFileName gives "Steak_(rare)_03m30s.mp4"
func CountdownFileName(t types.CountdownTimer) string {
	return fmt.Sprintf("%s_%02dm%02ds.mp4", SafeName(t.Name), t.Minutes, t.Seconds)
}

// IntervalFileName gives "hiit_sprint.mp4" for "HIIT Sprint"
func IntervalFileName(t types.IntervalTimer) string {
	name := strings.ToLower(strings.TrimSpace(t.Name))
	name = strings.ReplaceAll(name, ",", "_")
	return SafeName(name) + ".mp4"
}

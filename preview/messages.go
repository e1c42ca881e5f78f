package preview

import "time"

// TickMsg advances playback by one tick
type TickMsg struct {
	Time time.Time
}

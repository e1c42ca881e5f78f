package config

import "time"

// Video Output Constants
const (
	// VideoWidth is the default output width (16:9)
	VideoWidth = 1280

	// VideoHeight is the default output height (16:9)
	VideoHeight = 720

	// VideoFPS is the default output frame rate
	VideoFPS = 24

	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"
)

// Text Constants
const (
	// Font is the fontconfig family used by drawtext
	Font = "Arial"

	// LabelFontSize is used for interval labels
	LabelFontSize = 50

	// TitleFontSize is used for the countdown title
	TitleFontSize = 100

	// ClockFontSize is used for the countdown clock
	ClockFontSize = 300

	// FinalFontSize is used for the "Timer Complete!" screen
	FinalFontSize = 120
)

// Timeline Constants
const (
	// PrepareText labels the optional lead-in segment
	PrepareText = "PREPARE"

	// PrepareColor is the palette color of the lead-in segment
	PrepareColor = "orange"

	// FinalScreenSeconds is how long the countdown completion screen stays up
	FinalScreenSeconds = 5

	// FinalText is shown once a countdown reaches zero
	FinalText = "Timer Complete!"

	// FinalTextColor is the drawtext color of FinalText
	FinalTextColor = "red"

	// AlarmCount is the number of alarm cues at the end of an interval timer
	AlarmCount = 3

	// AlarmLead is how far before the nominal end the first alarm fires, in seconds.
	// With AlarmSpacing it keeps the last alarm inside the video.
	AlarmLead = 1.5

	// AlarmSpacing separates consecutive alarms, in seconds
	AlarmSpacing = 0.5
)

// Processing Constants
const (
	// MaxConcurrentRenders limits the number of ffmpeg processes running at once
	MaxConcurrentRenders = 2

	// RenderTimeout bounds a single ffmpeg run
	RenderTimeout = 2 * time.Hour

	// LedgerTTL is how long a rendered fingerprint is remembered
	LedgerTTL = 30 * 24 * time.Hour

	// RenderAttempts is how often a queued render is tried before its claim is restarted
	RenderAttempts = 3

	// RenderRetryBackoff is the pause between queued render attempts, doubled each time
	RenderRetryBackoff = 2 * time.Second

	// KafkaRetryDelay is the pause before a failed message is consumed again
	KafkaRetryDelay = 5 * time.Second
)

// Directory Constants
const (
	// InputFile is the default timer configuration file
	InputFile = "timers.txt"

	// OutputDir is the directory for generated videos
	OutputDir = "videos"

	// AssetsDir holds the beep and alarm sounds
	AssetsDir = "assets"
)

// YouTube Constants
const (
	// YouTubeCategoryID for Howto & Style
	YouTubeCategoryID = "26"

	// YouTubePrivacyStatus sets video visibility
	YouTubePrivacyStatus = "unlisted"
)

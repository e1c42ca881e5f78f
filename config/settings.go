package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Settings holds the runtime configuration resolved from the environment.
// Zero values are never used directly; Load fills every field.
type Settings struct {
	Width        int
	Height       int
	FPS          int
	VideoCodec   string
	AudioCodec   string
	AudioBitrate string
	Preset       string

	Font     string
	FontFile string

	BeepPath  string
	AlarmPath string

	InputFile string
	OutputDir string

	MaxConcurrentRenders int
}

// Load resolves Settings from environment variables, falling back to the
// package constants. Call godotenv.Load() first if a .env file should apply.
func Load() Settings {
	return Settings{
		Width:        GetEnvInt("VIDEO_WIDTH", VideoWidth),
		Height:       GetEnvInt("VIDEO_HEIGHT", VideoHeight),
		FPS:          GetEnvInt("VIDEO_FPS", VideoFPS),
		VideoCodec:   GetEnvOrDefault("VIDEO_CODEC", VideoCodec),
		AudioCodec:   GetEnvOrDefault("AUDIO_CODEC", AudioCodec),
		AudioBitrate: GetEnvOrDefault("AUDIO_BITRATE", AudioBitrate),
		Preset:       GetEnvOrDefault("VIDEO_PRESET", VideoPreset),

		Font:     GetEnvOrDefault("FONT", Font),
		FontFile: strings.TrimSpace(os.Getenv("FONT_FILE")),

		BeepPath:  GetEnvOrDefault("BEEP_PATH", filepath.Join(AssetsDir, "beep.mp3")),
		AlarmPath: GetEnvOrDefault("ALARM_PATH", filepath.Join(AssetsDir, "alarm.mp3")),

		InputFile: GetEnvOrDefault("TIMERS_FILE", InputFile),
		OutputDir: GetEnvOrDefault("OUTPUT_DIR", OutputDir),

		MaxConcurrentRenders: GetEnvInt("MAX_CONCURRENT_RENDERS", MaxConcurrentRenders),
	}
}

// GetEnvOrDefault returns the value of an environment variable or a default value
func GetEnvOrDefault(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

// GetEnvInt parses a positive integer environment variable.
// Missing, malformed, or non-positive values yield defaultVal.
func GetEnvInt(key string, defaultVal int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}

// GetEnvBool reports whether the variable is set to a true value.
func GetEnvBool(key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && b
}

// GetEnvList splits a comma-separated variable, dropping empty items.
func GetEnvList(key string, defaultVal []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

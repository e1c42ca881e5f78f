package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"timervid/config"
	"timervid/preview"
	"timervid/timeline"
	"timervid/timerfile"
)

func main() {
	_ = godotenv.Load()
	settings := config.Load()

	input := flag.String("input", settings.InputFile, "Timer configuration file (.txt, .csv, .yaml)")
	filter := flag.String("timer", "", "Only preview timers whose name contains this text")
	speed := flag.Float64("speed", 1, "Playback speed multiplier")
	flag.Parse()

	cats, warnings, err := timerfile.Load(*input)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	for _, w := range warnings {
		log.Printf("⚠️  %s", w)
	}

	plans := preview.PlansFromCategories(cats, timeline.DefaultOptions(), *filter)
	if len(plans) == 0 {
		log.Fatalf("No timers in %s match %q", *input, *filter)
	}

	program := tea.NewProgram(preview.NewModel(plans, *speed))

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

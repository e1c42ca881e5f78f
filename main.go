package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"timervid/api"
	"timervid/config"
	"timervid/jobs"
	"timervid/ledger"
	"timervid/processor"
	"timervid/publish"
	"timervid/queue"
	"timervid/schedule"
	"timervid/timerfile"
	"timervid/video"
)

const (
	// DefaultAPIPort is the default port for the HTTP API server
	DefaultAPIPort = ":8080"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	settings := config.Load()

	inputFile := flag.String("input", settings.InputFile, "Timer configuration file (.txt, .csv, .yaml)")
	outputDir := flag.String("output", settings.OutputDir, "Directory for generated videos")
	batchMode := flag.Bool("batch", false, "Run in batch mode (render every timer in -input)")
	kafkaMode := flag.Bool("kafka", false, "Run in Kafka consumer mode (consume render requests)")
	apiPort := flag.String("port", defaultPort(), "API server port (e.g., :8080)")
	cronSchedule := flag.String("cron", "", "Cron schedule for repeated batch runs (batch mode only)")
	flag.Parse()

	settings.InputFile = *inputFile
	settings.OutputDir = *outputDir

	log.Println("🎬 Timer Video Service - Starting...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := video.NewRenderer(settings)
	opts := []processor.Option{processor.WithPublishers(publish.FromEnv(ctx)...)}

	// One-shot batches render everything; long-running modes remember what they rendered.
	if !*batchMode || *cronSchedule != "" {
		l, closeLedger := initializeLedger()
		defer closeLedger()
		opts = append(opts, processor.WithLedger(l))
	}
	proc := processor.New(renderer, settings, opts...)

	if *batchMode {
		log.Println("📁 Running in BATCH mode")
		runBatch(ctx, proc, settings.InputFile, *cronSchedule)
		return
	}

	if *kafkaMode {
		log.Println("📨 Running in KAFKA consumer mode")

		kafkaConfig := queue.RenderConfigFromEnv(proc)
		log.Printf("🔗 Kafka Brokers: %v", kafkaConfig.Brokers)
		log.Printf("📋 Topic: %s", kafkaConfig.Topic)
		log.Printf("👥 Consumer Group: %s", kafkaConfig.GroupID)

		if err := queue.RunWithGracefulShutdown(ctx, kafkaConfig); err != nil {
			log.Fatalf("❌ Kafka consumer failed: %v", err)
		}
		return
	}

	log.Println("🌐 Running in API mode")
	runAPI(ctx, proc, *apiPort, healthChecks(settings))
}

// healthChecks reports ffmpeg as required and the cue sounds as optional,
// since renders without them still succeed as silent videos
func healthChecks(settings config.Settings) []api.HealthCheck {
	return []api.HealthCheck{
		{Name: "ffmpeg", Required: true, Check: video.CheckFFmpeg},
		{Name: "beep", Check: func() error { return video.CheckAsset(settings.BeepPath) }},
		{Name: "alarm", Check: func() error { return video.CheckAsset(settings.AlarmPath) }},
	}
}

func defaultPort() string {
	if v := os.Getenv("PORT"); v != "" {
		return ":" + v
	}
	return DefaultAPIPort
}

// initializeLedger uses Redis when REDIS_ADDR is set and falls back to memory
func initializeLedger() (ledger.Ledger, func()) {
	if os.Getenv("REDIS_ADDR") == "" {
		log.Println("Using in-memory render ledger")
		return ledger.NewMemoryLedger(), func() {}
	}

	rl, err := ledger.NewRedisLedgerFromEnv()
	if err != nil {
		log.Printf("⚠️  Redis ledger not available: %v (using in-memory ledger)", err)
		return ledger.NewMemoryLedger(), func() {}
	}
	log.Println("✅ Redis render ledger connected")
	return rl, func() { _ = rl.Close() }
}

func runBatch(ctx context.Context, proc *processor.Processor, inputFile, cronSpec string) {
	if _, err := os.Stat(inputFile); err != nil {
		log.Fatalf("❌ Input file %s not found. Create it or pass -input.", inputFile)
	}

	batch := func(ctx context.Context) error {
		summary, err := proc.ProcessFile(ctx, inputFile)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return errors.New("some timers failed to render")
		}
		return nil
	}

	if cronSpec == "" {
		if err := batch(ctx); err != nil {
			if errors.Is(err, timerfile.ErrInputNotFound) || errors.Is(err, timerfile.ErrUnknownFormat) {
				log.Fatalf("❌ %v", err)
			}
			log.Printf("❌ Batch processing finished with errors: %v", err)
			os.Exit(1)
		}
		return
	}

	scheduler := schedule.NewBatch(ctx, batch)
	if err := scheduler.Start(cronSpec); err != nil {
		log.Fatalf("❌ Failed to start cron: %v", err)
	}
	log.Printf("⏰ Cron schedule %q, next run %s", cronSpec, scheduler.Next())
	scheduler.Trigger()

	<-ctx.Done()
	log.Println("Shutting down scheduler...")
	scheduler.Stop()
}

func runAPI(ctx context.Context, proc *processor.Processor, addr string, checks []api.HealthCheck) {
	manager := jobs.NewManager(100)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewRouter(manager, proc, checks...),
	}

	log.Printf("🚀 API Server listening on %s", addr)
	log.Println("📌 Endpoints:")
	for _, e := range api.Endpoints {
		log.Printf("   %s", e)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Fatalf("❌ Server failed: %v", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Waiting for in-flight renders...")
	manager.Wait()
	log.Println("Server stopped")
}

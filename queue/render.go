package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timervid/config"
	"timervid/processor"
	"timervid/types"
)

// RequestProcessor renders one request
type RequestProcessor interface {
	ProcessRequest(ctx context.Context, req types.RenderRequest) (types.RenderResult, error)
}

// RenderConfig holds the render-request consumer configuration
type RenderConfig struct {
	Brokers   []string
	Topic     string
	GroupID   string
	Processor RequestProcessor
}

// NewRenderHandler decodes RenderRequest messages and renders them.
// Invalid and empty requests are marked and skipped. Other render failures
// are retried with backoff; if every attempt fails the message stays
// unmarked and is consumed again.
func NewRenderHandler(proc RequestProcessor) *TypedMessageHandler[types.RenderRequest] {
	return newRenderHandler(proc, config.RenderAttempts, config.RenderRetryBackoff)
}

func newRenderHandler(proc RequestProcessor, attempts int, backoff time.Duration) *TypedMessageHandler[types.RenderRequest] {
	attempts = max(attempts, 1)

	return &TypedMessageHandler[types.RenderRequest]{
		Validate: func(msg *types.RenderRequest) error {
			return msg.Validate()
		},
		Process: func(ctx context.Context, msg *types.RenderRequest) error {
			log.Printf("🎬 Rendering %s timer %q (id=%s)", msg.Kind, msg.Name(), msg.ID)

			delay := backoff
			var err error
			for attempt := 1; attempt <= attempts; attempt++ {
				var result types.RenderResult
				result, err = proc.ProcessRequest(ctx, *msg)
				if err == nil {
					log.Printf("✅ %s: %s", result.Status, result.OutputPath)
					return nil
				}
				if permanent(err) {
					log.Printf("⚠️  Dropping request %q: %v", msg.Name(), err)
					return nil
				}

				log.Printf("❌ Failed to render %q (attempt %d/%d): %v", msg.Name(), attempt, attempts, err)
				if attempt == attempts {
					break
				}
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return ctx.Err()
				}
				delay *= 2
			}
			return fmt.Errorf("render %q failed after %d attempts: %w", msg.Name(), attempts, err)
		},
		AlwaysMark: true,
	}
}

// permanent reports errors that no retry can fix
func permanent(err error) bool {
	return errors.Is(err, processor.ErrInvalidRequest) || errors.Is(err, processor.ErrNothingToRender)
}

// NewRenderConsumer creates a consumer wired to NewRenderHandler
func NewRenderConsumer(cfg RenderConfig) (*Consumer, error) {
	return NewConsumer(ConsumerConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
		Handler: NewRenderHandler(cfg.Processor),
	})
}

// RunWithGracefulShutdown consumes until SIGINT/SIGTERM or ctx is done
func RunWithGracefulShutdown(ctx context.Context, cfg RenderConfig) error {
	consumer, err := NewRenderConsumer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		consumer.Close()
		return err
	}

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigterm)

	select {
	case <-sigterm:
		log.Println("Received termination signal")
	case <-ctx.Done():
		log.Println("Context canceled")
	}

	cancel()

	// Give some time for in-flight processing to complete
	time.Sleep(2 * time.Second)

	return consumer.Close()
}

// GetKafkaBrokers parses the broker list from KAFKA_BOOTSTRAP_SERVERS
func GetKafkaBrokers() []string {
	return config.GetEnvList("KAFKA_BOOTSTRAP_SERVERS", []string{"localhost:9093"})
}

// GetKafkaTopic returns the render request topic
func GetKafkaTopic() string {
	return config.GetEnvOrDefault("KAFKA_TOPIC_RENDER_REQUESTS", "timer-render-requests")
}

// GetKafkaGroupID returns the consumer group ID
func GetKafkaGroupID() string {
	return config.GetEnvOrDefault("KAFKA_CONSUMER_GROUP_ID", "timervid-render-group")
}

// RenderConfigFromEnv combines the env getters with a processor
func RenderConfigFromEnv(proc RequestProcessor) RenderConfig {
	return RenderConfig{
		Brokers:   GetKafkaBrokers(),
		Topic:     GetKafkaTopic(),
		GroupID:   GetKafkaGroupID(),
		Processor: proc,
	}
}

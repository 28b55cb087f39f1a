package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nestbio/linko/config"
	"github.com/nestbio/linko/internal/database"
	"github.com/nestbio/linko/internal/pkg/cron"
	"github.com/nestbio/linko/internal/pkg/pubsub"
	"github.com/nestbio/linko/internal/pkg/queue"
	"github.com/nestbio/linko/internal/repository"
	"github.com/nestbio/linko/internal/worker"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	eventQueue := queue.NewQueue(rdb, cfg.Queue.EventQueue)
	if backlog, err := eventQueue.Length(context.Background()); err == nil && backlog > 0 {
		log.Printf("Event queue backlog: %d pending", backlog)
	}

	publisher := pubsub.NewPublisher(rdb)

	userRepo := repository.NewUserRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	clickRepo := repository.NewClickEventRepository(db)

	processor := worker.NewProcessor(userRepo, linkRepo, clickRepo, publisher)

	cronService := cron.NewService(clickRepo, userRepo, cfg.Plans.PremiumAnalyticsDays)
	cronService.Start()
	defer cronService.Stop()

	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := cfg.Queue.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, id, eventQueue, processor)
		}(i)
	}
	log.Printf("Worker started with %d goroutines", maxWorkers)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down worker...")
	cancel()
	wg.Wait()
	log.Println("Worker stopped")
}

func runWorker(ctx context.Context, id int, eventQueue *queue.Queue, processor *worker.Processor) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := eventQueue.Pop(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Worker %d: failed to pop event: %v", id, err)
			time.Sleep(time.Second)
			continue
		}
		if msg == nil {
			continue
		}

		if err := processor.Process(ctx, msg); err != nil {
			log.Printf("Worker %d: failed to process %s event for user %d: %v", id, msg.EventType, msg.UserID, err)
		}
	}
}

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/nestbio/linko/config"
	"github.com/nestbio/linko/internal/api"
	"github.com/nestbio/linko/internal/api/handler"
	"github.com/nestbio/linko/internal/database"
	"github.com/nestbio/linko/internal/pkg/billing"
	"github.com/nestbio/linko/internal/pkg/email"
	"github.com/nestbio/linko/internal/pkg/oauth"
	"github.com/nestbio/linko/internal/pkg/oss"
	"github.com/nestbio/linko/internal/pkg/pubsub"
	"github.com/nestbio/linko/internal/pkg/queue"
	"github.com/nestbio/linko/internal/pkg/ws"
	"github.com/nestbio/linko/internal/repository"
	"github.com/nestbio/linko/internal/service"
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

	// OSS is optional; avatar upload degrades to an error without it
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	var emailSvc *email.Service
	if cfg.Email.SMTPHost != "" {
		emailSvc = email.NewService(&cfg.Email)
		log.Println("Email service initialized")
	}

	stripeClient := billing.NewStripeClient(&cfg.Stripe)
	stateStore := oauth.NewStateStore(rdb)

	wsHub := ws.NewHub()

	// bridge worker activity notifications onto dashboard sockets
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.ActivityMessage) {
			_ = wsHub.SendToUser(msg.UserID, &ws.Message{Type: msg.Type, Data: msg})
		})
		if err != nil && err != context.Canceled {
			log.Printf("Activity subscriber stopped: %v", err)
		}
	}()

	userRepo := repository.NewUserRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	clickRepo := repository.NewClickEventRepository(db)

	templateService := service.NewTemplateService()
	authService := service.NewAuthService(userRepo, emailSvc, cfg)
	userService := service.NewUserService(userRepo, templateService, ossClient)
	linkService := service.NewLinkService(linkRepo, userRepo, cfg)
	billingService := service.NewBillingService(stripeClient, userRepo, subRepo, cfg)
	publicService := service.NewPublicService(userRepo, linkRepo, eventQueue)
	analyticsService := service.NewAnalyticsService(clickRepo, linkRepo, userRepo, cfg)

	authHandler := handler.NewAuthHandler(authService, stateStore)
	userHandler := handler.NewUserHandler(userService, templateService)
	linkHandler := handler.NewLinkHandler(linkService)
	billingHandler := handler.NewBillingHandler(billingService)
	publicHandler := handler.NewPublicHandler(publicService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	router := api.NewRouter(
		authHandler,
		userHandler,
		linkHandler,
		billingHandler,
		publicHandler,
		analyticsHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

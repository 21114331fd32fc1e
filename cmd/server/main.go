package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dispatchqa/config"
	"dispatchqa/internal/cache"
	"dispatchqa/internal/repository"
	"dispatchqa/internal/service"
	"dispatchqa/internal/transport/rest"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	redisOpts, err := cfg.RedisOptions()
	if err != nil {
		log.Fatal("Invalid REDIS_ADDR:", err)
	}

	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize repositories
	callRepo := repository.NewCallRepo(db)
	questionRepo := repository.NewQuestionRepo(db)
	evalRepo := repository.NewEvaluationRepo(db)
	coachingRepo := repository.NewCoachingRepo(db)

	// Initialize caches
	callCache := cache.NewCallCache(rdb)
	complianceCache := cache.NewComplianceCache(rdb)
	leaderboard := cache.NewLeaderboardCache(rdb)

	// Initialize services
	callSvc := service.NewCallService(callRepo, evalRepo, callCache)
	questionSvc := service.NewQuestionService(questionRepo)
	coachingSvc := service.NewCoachingService(coachingRepo)
	analyticsSvc := service.NewAnalyticsService(callRepo, evalRepo, leaderboard)
	persister := service.NewAnswerPersister(evalRepo, callRepo, complianceCache)
	reviewSvc := service.NewReviewService(callSvc, questionSvc, coachingSvc, persister)

	elevateAI := service.NewElevateAIClient(cfg.ElevateAIBaseURL, cfg.ElevateAIAPIToken)
	transcriptionSvc := service.NewTranscriptionService(elevateAI, callRepo)
	if cfg.ElevateAIAPIToken == "" {
		log.Println("Warning: ELEVATEAI_API_TOKEN not set, transcription requests will fail")
	}

	// Create router with container
	container := &rest.Container{
		Config:               cfg,
		CallService:          callSvc,
		QuestionService:      questionSvc,
		ReviewService:        reviewSvc,
		CoachingService:      coachingSvc,
		AnalyticsService:     analyticsSvc,
		TranscriptionService: transcriptionSvc,
		EvaluationRepo:       evalRepo,
		ComplianceCache:      complianceCache,
		Persister:            persister,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

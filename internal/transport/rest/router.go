package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"dispatchqa/config"
	"dispatchqa/internal/cache"
	"dispatchqa/internal/evaluation"
	"dispatchqa/internal/repository"
	"dispatchqa/internal/service"
	"dispatchqa/internal/transport/rest/handler"
	"dispatchqa/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	Config               *config.Config
	CallService          *service.CallService
	QuestionService      *service.QuestionService
	ReviewService        *service.ReviewService
	CoachingService      *service.CoachingService
	AnalyticsService     *service.AnalyticsService
	TranscriptionService *service.TranscriptionService
	EvaluationRepo       repository.EvaluationRepo
	ComplianceCache      cache.ComplianceCache
	Persister            evaluation.Persister
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	callHandler := handler.NewCallHandler(c.CallService)
	questionHandler := handler.NewQuestionHandler(c.QuestionService)
	reviewHandler := handler.NewReviewHandler(c.ReviewService, c.EvaluationRepo, c.ComplianceCache, c.Persister)
	coachingHandler := handler.NewCoachingHandler(c.CoachingService)
	analyticsHandler := handler.NewAnalyticsHandler(c.AnalyticsService)
	transcriptionHandler := handler.NewTranscriptionHandler(c.TranscriptionService)
	proxyHandler := handler.NewProxyHandler(c.Config.UpstreamAPIBase)

	// CORS middleware (apply first), then request logging
	r.Use(corsMiddleware(c.Config.AllowedOrigins))
	r.Use(middleware.Logging)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Calls
	v1.HandleFunc("/calls", callHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/calls", callHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/calls/recent", callHandler.Recent).Methods("GET", "OPTIONS")
	v1.HandleFunc("/calls/{callId}", callHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/calls/{callId}/status", callHandler.UpdateStatus).Methods("PATCH", "OPTIONS")
	v1.HandleFunc("/activity/recent", callHandler.Activity).Methods("GET", "OPTIONS")

	// Question catalog
	v1.HandleFunc("/questions", questionHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questions", questionHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questions/{questionId}", questionHandler.Update).Methods("PUT", "OPTIONS")

	// Review sessions
	v1.HandleFunc("/review/sessions", reviewHandler.StartSession).Methods("POST", "OPTIONS")
	v1.HandleFunc("/review/sessions/{sessionId}", reviewHandler.GetSession).Methods("GET", "OPTIONS")
	v1.HandleFunc("/review/sessions/{sessionId}", reviewHandler.EndSession).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/review/sessions/{sessionId}/call", reviewHandler.SelectCall).Methods("POST", "OPTIONS")
	v1.HandleFunc("/review/sessions/{sessionId}/edit", reviewHandler.BeginEdit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/review/sessions/{sessionId}/answers/{questionId}", reviewHandler.SetAnswer).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/review/sessions/{sessionId}/save", reviewHandler.Save).Methods("POST", "OPTIONS")
	v1.HandleFunc("/review/sessions/{sessionId}/reset", reviewHandler.Reset).Methods("POST", "OPTIONS")
	v1.HandleFunc("/review/sessions/{sessionId}/done", reviewHandler.EndEdit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/review/sessions/{sessionId}/coaching", reviewHandler.GenerateCoaching).Methods("POST", "OPTIONS")

	// Stored evaluations
	v1.HandleFunc("/calls/{callId}/qa-answers", reviewHandler.GetAnswers).Methods("GET", "OPTIONS")
	v1.HandleFunc("/calls/{callId}/qa-answers", reviewHandler.PutAnswers).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/calls/{callId}/qa-summary", reviewHandler.GetSummary).Methods("GET", "OPTIONS")

	// Coaching
	v1.HandleFunc("/coaching/tasks", coachingHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/coaching/tasks", coachingHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/coaching/tasks/{taskId}", coachingHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/coaching/tasks/{taskId}/action-items/{index}/toggle", coachingHandler.ToggleActionItem).Methods("POST", "OPTIONS")
	v1.HandleFunc("/coaching/tasks/{taskId}/complete", coachingHandler.Complete).Methods("POST", "OPTIONS")

	// Analytics
	v1.HandleFunc("/analytics/calls-by-type", analyticsHandler.CallsByType).Methods("GET", "OPTIONS")
	v1.HandleFunc("/analytics/volume", analyticsHandler.Volume).Methods("GET", "OPTIONS")
	v1.HandleFunc("/analytics/leaderboard", analyticsHandler.Leaderboard).Methods("GET", "OPTIONS")
	v1.HandleFunc("/analytics/dashboard", analyticsHandler.Dashboard).Methods("GET", "OPTIONS")

	// Transcription
	v1.HandleFunc("/transcribe", transcriptionHandler.Transcribe).Methods("POST", "OPTIONS")
	v1.HandleFunc("/calls/{callId}/transcribe", transcriptionHandler.TranscribeCall).Methods("POST", "OPTIONS")

	// Upstream proxy gateway
	r.HandleFunc("/api/proxy/{path:.*}", proxyHandler.Forward)

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package main

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"museumCompanionAPI/handlers"
	"museumCompanionAPI/internal/docstore"
	"museumCompanionAPI/internal/notification"
	"museumCompanionAPI/middleware"
	"museumCompanionAPI/services"

	_ "net/http/pprof"
)

var (
	firestoreClient     *firestore.Client
	authClient          *fbauth.Client
	userService         *services.UserService
	activityService     *services.ActivityService
	scanService         *services.ScanService
	progressService     *services.ProgressService
	achievementService  *services.AchievementService
	notificationService *services.NotificationService
	fcmService          *notification.FCMService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	apiKey := os.Getenv("FIREBASE_WEB_API_KEY")
	if apiKey == "" {
		log.Fatal("FIREBASE_WEB_API_KEY environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	app, err := firebase.NewApp(ctx, nil, firebaseCredentials())
	if err != nil {
		log.Fatal("Failed to initialize Firebase app:", err)
	}

	authClient, err = app.Auth(ctx)
	if err != nil {
		log.Fatal("Failed to create Auth client:", err)
	}

	firestoreClient, err = app.Firestore(ctx)
	if err != nil {
		log.Fatal("Failed to create Firestore client:", err)
	}
	log.Println("Successfully connected to Firestore")

	store := docstore.NewFirestoreStore(firestoreClient)

	userService = services.NewUserService(store, authClient, apiKey)
	activityService = services.NewActivityService(store)
	scanService = services.NewScanService(store)
	progressService = services.NewProgressService(store)
	achievementService = services.NewAchievementService(store)
	notificationService = services.NewNotificationService(store)

	fcmService, err = notification.NewFCMService("./serviceAccountKey.json")
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		notificationService.SetPushProvider(fcmService)
		scanService.SetNotifier(notificationService)
		log.Println("FCM Push Provider initialized successfully")
	}

	middleware.InitPrometheus()
}

// firebaseCredentials prefers the base64 env var so deploys need no key file
// on disk.
func firebaseCredentials() option.ClientOption {
	if encoded := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); encoded != "" {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			log.Fatal("Failed to decode FIREBASE_SERVICE_ACCOUNT_JSON:", err)
		}
		return option.WithCredentialsJSON(decoded)
	}
	return option.WithCredentialsFile("./serviceAccountKey.json")
}

func main() {
	defer func() {
		log.Println("Closing Firestore client...")
		firestoreClient.Close()
	}()

	userHandler := handlers.NewUserHandler(userService)
	activityHandler := handlers.NewActivityHandler(activityService)
	scanHandler := handlers.NewScanHandler(scanService)
	progressHandler := handlers.NewProgressHandler(progressService)
	achievementHandler := handlers.NewAchievementHandler(achievementService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		// One cheap read proves the store is reachable.
		if _, err := firestoreClient.Collections(ctx).Next(); err != nil && err != iterator.Done {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "store connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "museum-companion-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/signup", userHandler.SignUp).Methods("POST")
	api.HandleFunc("/auth/login", userHandler.Login).Methods("POST")
	api.HandleFunc("/zones", activityHandler.GetZones).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.FirebaseAuthMiddleware(authClient))

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/activities/random", activityHandler.GetRandomActivities).Methods("GET")
	protected.HandleFunc("/activities/{id}", activityHandler.GetActivityByID).Methods("GET")
	protected.HandleFunc("/zones/{zoneId}/activities", activityHandler.GetActivitiesByZone).Methods("GET")
	protected.HandleFunc("/scan", scanHandler.ProcessScan).Methods("POST")
	protected.HandleFunc("/progress", progressHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/achievements", achievementHandler.GetAchievements).Methods("GET")
	protected.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"paircall_server/routes"
	"paircall_server/services"
	"paircall_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and stores
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	queueStore := &services.DynamoQueueStore{Dynamo: dynamoService}
	matchStore := &services.DynamoMatchStore{Dynamo: dynamoService}

	// Initialize Services
	matchService := &services.MatchService{Queue: queueStore, Matches: matchStore}
	matchListener := &services.MatchListener{Matches: matchStore, Interval: pollInterval()}
	tokenService := services.NewTokenServiceFromEnv()
	if !tokenService.Secured() {
		log.Println("⚠️ AGORA_APP_CERTIFICATE not set — running in unsecured mode, issuing empty tokens")
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Paircall")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterQueueRoutes(r, matchService)
	routes.RegisterMatchRoutes(r, matchService)
	routes.RegisterTokenRoutes(r, tokenService)

	// Mount the match notification socket
	socketServer := socket.NewSocketServer(matchListener)
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

// pollInterval reads the match subscription poll interval from the
// environment, defaulting to half a second.
func pollInterval() time.Duration {
	if ms, err := strconv.Atoi(os.Getenv("MATCH_POLL_INTERVAL_MS")); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return 500 * time.Millisecond
}

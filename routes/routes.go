package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"warbler/handlers"
	"warbler/monitoring"
)

// SetupRoutes initializes all the application routes.
// The routing logic is isolated here.
func SetupRoutes(userHandler *handlers.UserHandler, messageHandler *handlers.MessageHandler) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", userHandler.Home).Methods("GET")

	// Auth routes
	router.HandleFunc("/signup", userHandler.Signup).Methods("GET", "POST")
	router.HandleFunc("/login", userHandler.Login).Methods("GET", "POST")
	router.HandleFunc("/logout", userHandler.Logout).Methods("GET")

	// User routes
	router.HandleFunc("/users/follow/{id:[0-9]+}", userHandler.Follow).Methods("POST")
	router.HandleFunc("/users/stop-following/{id:[0-9]+}", userHandler.StopFollowing).Methods("POST")
	router.HandleFunc("/users/delete", userHandler.Delete).Methods("POST")
	router.HandleFunc("/users/{id:[0-9]+}", userHandler.Profile).Methods("GET")
	router.HandleFunc("/users/{id:[0-9]+}/followers", userHandler.Followers).Methods("GET")
	router.HandleFunc("/users/{id:[0-9]+}/following", userHandler.Following).Methods("GET")

	// Message routes
	router.HandleFunc("/messages/new", messageHandler.New).Methods("GET", "POST")
	router.HandleFunc("/messages/{id:[0-9]+}", messageHandler.Show).Methods("GET")
	router.HandleFunc("/messages/{id:[0-9]+}/delete", messageHandler.Delete).Methods("POST")

	// Metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return monitoring.InstrumentHandler(router)
}

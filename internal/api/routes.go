package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Trending routes
	api.HandleFunc("/trending-stocks", handler.GetTrendingStocks).Methods("GET")

	// Briefing routes
	api.HandleFunc("/briefings", handler.ListBriefings).Methods("GET")
	api.HandleFunc("/briefings", handler.CreateBriefing).Methods("POST")
	api.HandleFunc("/briefings/{id}", handler.GetBriefing).Methods("GET")
	api.HandleFunc("/briefings/{id}/regenerate", handler.RegenerateBriefing).Methods("POST")
	api.HandleFunc("/briefings/{id}/dispatch", handler.DispatchBriefing).Methods("POST")

	// Dispatch log
	api.HandleFunc("/dispatches", handler.ListDispatches).Methods("GET")

	// Subscription routes
	api.HandleFunc("/subscriptions", handler.Subscribe).Methods("POST")
	api.HandleFunc("/subscriptions/{email}", handler.Unsubscribe).Methods("DELETE")

	return r
}

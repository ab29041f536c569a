package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes registers all API routes on the router
func SetupRoutes(router *mux.Router, handlers *Handlers) {
	// API version prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Dataset management endpoints
	datasets := api.PathPrefix("/datasets").Subrouter()
	datasets.HandleFunc("", handlers.ListDatasets).Methods("GET")
	datasets.HandleFunc("", handlers.UploadDataset).Methods("POST")
	datasets.HandleFunc("/{datasetId}", handlers.GetDataset).Methods("GET")
	datasets.HandleFunc("/{datasetId}", handlers.DeleteDataset).Methods("DELETE")
	datasets.HandleFunc("/{datasetId}/analysis", handlers.SubmitAnalysis).Methods("POST")
	datasets.HandleFunc("/{datasetId}/analysis", handlers.ListAnalyses).Methods("GET")

	// Analysis job endpoints
	analysis := api.PathPrefix("/analysis").Subrouter()
	analysis.HandleFunc("/{jobId}", handlers.GetAnalysisJob).Methods("GET")
	analysis.HandleFunc("/{jobId}/result", handlers.GetAnalysisResult).Methods("GET")
	analysis.HandleFunc("/{jobId}/cancel", handlers.CancelAnalysisJob).Methods("POST")

	// Comparison endpoints
	comparisons := api.PathPrefix("/comparisons").Subrouter()
	comparisons.HandleFunc("", handlers.CreateComparison).Methods("POST")
	comparisons.HandleFunc("", handlers.ListComparisons).Methods("GET")
	comparisons.HandleFunc("/{comparisonId}", handlers.GetComparison).Methods("GET")
	comparisons.HandleFunc("/{comparisonId}", handlers.DeleteComparison).Methods("DELETE")

	// Health check endpoint
	api.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
}

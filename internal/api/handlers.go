package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/gilchrisn/hypergraph-analysis-service/internal/models"
	"github.com/gilchrisn/hypergraph-analysis-service/internal/service"
)

// Handlers contains HTTP request handlers
type Handlers struct {
	datasetService    *service.DatasetService
	analysisService   *service.AnalysisService
	comparisonService *service.ComparisonService
	maxUploadBytes    int64
}

// NewHandlers creates new API handlers
func NewHandlers(datasetService *service.DatasetService, analysisService *service.AnalysisService, comparisonService *service.ComparisonService, maxUploadBytes int64) *Handlers {
	return &Handlers{
		datasetService:    datasetService,
		analysisService:   analysisService,
		comparisonService: comparisonService,
		maxUploadBytes:    maxUploadBytes,
	}
}

// UploadDataset handles hypergraph dataset upload
func (h *Handlers) UploadDataset(w http.ResponseWriter, r *http.Request) {
	log.Info().Msg("Dataset upload request received")

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		log.Error().Err(err).Msg("Failed to parse multipart form")
		writeError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = "Unnamed Hypergraph"
	}

	file, header, err := r.FormFile("hypergraphFile")
	if err != nil {
		log.Error().Err(err).Msg("Missing required file")
		writeError(w, http.StatusBadRequest, "Missing required file: hypergraphFile", err)
		return
	}
	file.Close() // Close immediately, the service reopens from the header

	dataset, err := h.datasetService.Upload(name, header)
	if err != nil {
		log.Error().Err(err).Msg("Dataset upload failed")
		writeError(w, http.StatusBadRequest, "Dataset upload failed", err)
		return
	}

	log.Info().
		Str("dataset_id", dataset.ID).
		Str("name", dataset.Name).
		Msg("Dataset uploaded successfully")

	response := models.UploadResponse{
		DatasetID: dataset.ID,
		Dataset:   *dataset,
	}
	writeSuccess(w, "Dataset uploaded successfully", response)
}

// ListDatasets lists all datasets
func (h *Handlers) ListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets := h.datasetService.List()
	writeSuccess(w, "Datasets retrieved successfully", datasets)
}

// GetDataset retrieves a specific dataset
func (h *Handlers) GetDataset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	datasetID := vars["datasetId"]

	dataset, err := h.datasetService.Get(datasetID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Dataset not found", err)
		return
	}

	writeSuccess(w, "Dataset retrieved successfully", dataset)
}

// DeleteDataset deletes a dataset and its uploaded file
func (h *Handlers) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	datasetID := vars["datasetId"]

	if err := h.datasetService.Delete(datasetID); err != nil {
		log.Error().
			Str("dataset_id", datasetID).
			Err(err).
			Msg("Dataset deletion failed")
		writeError(w, http.StatusNotFound, "Dataset not found", err)
		return
	}

	writeSuccess(w, "Dataset deleted successfully", nil)
}

// SubmitAnalysis queues an analysis job for a dataset
func (h *Handlers) SubmitAnalysis(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	datasetID := vars["datasetId"]

	// An empty body runs the analysis with server defaults.
	var req struct {
		Parameters models.JobParameters `json:"parameters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error().Err(err).Msg("Invalid request body")
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if _, err := h.datasetService.Get(datasetID); err != nil {
		writeError(w, http.StatusNotFound, "Dataset not found", err)
		return
	}

	job, err := h.analysisService.Submit(datasetID, req.Parameters)
	if err != nil {
		log.Error().
			Str("dataset_id", datasetID).
			Err(err).
			Msg("Failed to submit analysis job")
		writeError(w, http.StatusBadRequest, "Failed to submit analysis job", err)
		return
	}

	log.Info().
		Str("job_id", job.ID).
		Str("dataset_id", datasetID).
		Msg("Analysis job submitted successfully")

	response := models.AnalysisResponse{
		JobID: job.ID,
		Job:   *job,
	}
	writeSuccess(w, "Analysis job submitted", response)
}

// ListAnalyses lists the analysis jobs of a dataset
func (h *Handlers) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	datasetID := vars["datasetId"]

	if _, err := h.datasetService.Get(datasetID); err != nil {
		writeError(w, http.StatusNotFound, "Dataset not found", err)
		return
	}

	jobs := h.analysisService.List(datasetID)
	writeSuccess(w, "Analysis jobs retrieved successfully", jobs)
}

// GetAnalysisJob gets analysis job status
func (h *Handlers) GetAnalysisJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["jobId"]

	job, err := h.analysisService.Get(jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Job not found", err)
		return
	}

	writeSuccess(w, "Job status retrieved", job)
}

// GetAnalysisResult returns the full analyzer bundle of a completed job
func (h *Handlers) GetAnalysisResult(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["jobId"]

	job, err := h.analysisService.Get(jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Job not found", err)
		return
	}
	if job.Status != models.JobStatusCompleted {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Job not completed, status: %s", job.Status), nil)
		return
	}

	bundle, err := h.analysisService.GetResult(jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Result not found", err)
		return
	}

	writeSuccess(w, "Analysis result retrieved successfully", bundle)
}

// CancelAnalysisJob cancels a queued or running job
func (h *Handlers) CancelAnalysisJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["jobId"]

	if err := h.analysisService.Cancel(jobID); err != nil {
		log.Error().
			Str("job_id", jobID).
			Err(err).
			Msg("Failed to cancel job")
		writeError(w, http.StatusBadRequest, "Failed to cancel job", err)
		return
	}

	writeSuccess(w, "Job cancelled successfully", nil)
}

// CreateComparison starts a comparison between two completed analysis jobs
func (h *Handlers) CreateComparison(w http.ResponseWriter, r *http.Request) {
	log.Info().Msg("Comparison creation request received")

	var req models.CreateComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("Invalid request body")
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Comparison name is required", nil)
		return
	}
	if req.Generated.DatasetID == "" || req.Generated.JobID == "" {
		writeError(w, http.StatusBadRequest, "Generated analysis references are required", nil)
		return
	}
	if req.Reference.DatasetID == "" || req.Reference.JobID == "" {
		writeError(w, http.StatusBadRequest, "Reference analysis references are required", nil)
		return
	}

	comparison, err := h.comparisonService.Create(req.Name, req.Generated, req.Reference)
	if err != nil {
		log.Error().Err(err).Msg("Comparison creation failed")
		writeError(w, http.StatusBadRequest, "Comparison creation failed", err)
		return
	}

	log.Info().
		Str("comparison_id", comparison.ID).
		Str("name", req.Name).
		Msg("Comparison created successfully")

	response := models.ComparisonResponse{
		ComparisonID: comparison.ID,
		Comparison:   *comparison,
	}
	writeSuccess(w, "Comparison started successfully", response)
}

// GetComparison retrieves a comparison by ID
func (h *Handlers) GetComparison(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	comparisonID := vars["comparisonId"]

	comparison, err := h.comparisonService.Get(comparisonID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Comparison not found", err)
		return
	}

	writeSuccess(w, "Comparison retrieved successfully", comparison)
}

// DeleteComparison removes a comparison
func (h *Handlers) DeleteComparison(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	comparisonID := vars["comparisonId"]

	if err := h.comparisonService.Delete(comparisonID); err != nil {
		writeError(w, http.StatusNotFound, "Comparison not found", err)
		return
	}

	writeSuccess(w, "Comparison deleted successfully", nil)
}

// ListComparisons returns all comparisons
func (h *Handlers) ListComparisons(w http.ResponseWriter, r *http.Request) {
	comparisons := h.comparisonService.List()
	writeSuccess(w, "Comparisons retrieved successfully", comparisons)
}

// HealthCheck returns server health status
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}
	writeSuccess(w, "Service is healthy", health)
}

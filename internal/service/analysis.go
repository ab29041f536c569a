package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gilchrisn/hypergraph-analysis-service/internal/config"
	"github.com/gilchrisn/hypergraph-analysis-service/internal/models"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/clustering"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/evaluation"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/hypergraph"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/motifs"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/spectral"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/structural"
)

// AnalysisService runs analyzer jobs against uploaded datasets. Jobs are
// processed by a bounded pool of worker goroutines; completed bundles are
// kept in memory until the result TTL expires.
type AnalysisService struct {
	jobs            map[string]*models.AnalysisJob
	bundles         map[string]*evaluation.Bundle
	cancels         map[string]context.CancelFunc
	workers         chan struct{}
	datasetService  *DatasetService
	baseConfig      *hypergraph.Config
	jobTimeout      time.Duration
	resultTTL       time.Duration
	cleanupInterval time.Duration
	mutex           sync.RWMutex
}

// NewAnalysisService creates a new analysis service and starts its cleanup loop
func NewAnalysisService(datasetService *DatasetService, cfg config.JobConfig) *AnalysisService {
	maxWorkers := cfg.MaxWorkers
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}

	service := &AnalysisService{
		jobs:            make(map[string]*models.AnalysisJob),
		bundles:         make(map[string]*evaluation.Bundle),
		cancels:         make(map[string]context.CancelFunc),
		workers:         make(chan struct{}, maxWorkers),
		datasetService:  datasetService,
		baseConfig:      hypergraph.NewConfig(),
		jobTimeout:      cfg.JobTimeout,
		resultTTL:       cfg.ResultTTL,
		cleanupInterval: cleanupInterval,
	}

	go service.cleanupLoop()

	return service
}

// Submit queues an analysis job for a dataset and returns immediately.
// The job is picked up by a worker goroutine.
func (s *AnalysisService) Submit(datasetID string, params models.JobParameters) (*models.AnalysisJob, error) {
	dataset, err := s.datasetService.Get(datasetID)
	if err != nil {
		return nil, err
	}
	if dataset.Status != models.DatasetStatusReady {
		return nil, fmt.Errorf("dataset not ready for analysis: %s", dataset.Status)
	}
	if err := validateParameters(params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	jobID := uuid.New().String()
	now := time.Now()
	job := &models.AnalysisJob{
		ID:         jobID,
		DatasetID:  datasetID,
		Parameters: params,
		Status:     models.JobStatusQueued,
		Progress:   models.JobProgress{Percentage: 0, Message: "Queued"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.jobs[jobID] = job

	log.Info().
		Str("job_id", jobID).
		Str("dataset_id", datasetID).
		Msg("Analysis job submitted")

	go s.processJob(jobID)

	snapshot := *job
	return &snapshot, nil
}

// Get retrieves the current state of a job
func (s *AnalysisService) Get(jobID string) (*models.AnalysisJob, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	snapshot := *job
	return &snapshot, nil
}

// GetResult retrieves the full analyzer bundle of a completed job
func (s *AnalysisService) GetResult(jobID string) (*evaluation.Bundle, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	bundle, exists := s.bundles[jobID]
	if !exists {
		return nil, fmt.Errorf("result not found for job: %s", jobID)
	}

	return bundle, nil
}

// List returns all jobs for a dataset, or all jobs when datasetID is empty
func (s *AnalysisService) List(datasetID string) []*models.AnalysisJob {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	jobs := make([]*models.AnalysisJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		if datasetID != "" && job.DatasetID != datasetID {
			continue
		}
		snapshot := *job
		jobs = append(jobs, &snapshot)
	}

	return jobs
}

// ActiveCount returns the number of queued or running jobs.
func (s *AnalysisService) ActiveCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	count := 0
	for _, job := range s.jobs {
		if job.Status == models.JobStatusQueued || job.Status == models.JobStatusRunning {
			count++
		}
	}
	return count
}

// Cancel stops a queued or running job. The worker goroutine observes the
// cancelled context at its next phase boundary.
func (s *AnalysisService) Cancel(jobID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	switch job.Status {
	case models.JobStatusQueued, models.JobStatusRunning:
	default:
		return fmt.Errorf("job already finished: %s", job.Status)
	}

	if cancel, ok := s.cancels[jobID]; ok {
		cancel()
	}

	job.Status = models.JobStatusCancelled
	job.Progress.Message = "Cancelled"
	now := time.Now()
	job.CompletedAt = &now
	job.UpdatedAt = now

	log.Info().
		Str("job_id", jobID).
		Msg("Analysis job cancelled")

	return nil
}

// processJob runs a single analysis job. It blocks until a worker slot is free.
func (s *AnalysisService) processJob(jobID string) {
	s.workers <- struct{}{}
	defer func() { <-s.workers }()

	startTime := time.Now()
	if !s.startJob(jobID, startTime) {
		// Cancelled or removed while waiting for a slot.
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	s.mutex.Lock()
	s.cancels[jobID] = cancel
	s.mutex.Unlock()
	defer func() {
		s.mutex.Lock()
		delete(s.cancels, jobID)
		s.mutex.Unlock()
	}()

	job, err := s.Get(jobID)
	if err != nil {
		return
	}

	log.Info().
		Str("job_id", jobID).
		Str("dataset_id", job.DatasetID).
		Msg("Analysis job processing started")

	dataset, err := s.datasetService.Get(job.DatasetID)
	if err != nil {
		s.failJob(jobID, fmt.Errorf("failed to get dataset: %w", err))
		return
	}

	bundle, err := s.runAnalyzers(ctx, jobID, dataset.File, job.Parameters)
	if err != nil {
		if errors.Is(err, context.Canceled) && s.jobStatus(jobID) == models.JobStatusCancelled {
			log.Debug().Str("job_id", jobID).Msg("Analysis job stopped after cancellation")
			return
		}
		s.failJob(jobID, err)
		return
	}

	s.completeJob(jobID, bundle, time.Since(startTime))
}

// runAnalyzers loads the hypergraph and runs the four analyzers in sequence,
// reporting progress between phases.
func (s *AnalysisService) runAnalyzers(ctx context.Context, jobID, path string, params models.JobParameters) (*evaluation.Bundle, error) {
	hg, err := hypergraph.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load hypergraph: %w", err)
	}

	runConfig := s.baseConfig.Clone()
	applyParameters(runConfig, params)

	bundle := &evaluation.Bundle{}

	s.updateProgress(jobID, 5, "Running clustering analysis")
	if bundle.Clustering, err = clustering.Run(hg, runConfig, ctx); err != nil {
		return nil, fmt.Errorf("clustering analysis: %w", err)
	}

	s.updateProgress(jobID, 30, "Running structural analysis")
	if bundle.Structural, err = structural.Run(hg, runConfig, ctx); err != nil {
		return nil, fmt.Errorf("structural analysis: %w", err)
	}

	s.updateProgress(jobID, 55, "Running motif analysis")
	if bundle.Motif, err = motifs.Run(hg, runConfig, ctx); err != nil {
		return nil, fmt.Errorf("motif analysis: %w", err)
	}

	s.updateProgress(jobID, 80, "Running spectral analysis")
	if bundle.Spectral, err = spectral.Run(hg, runConfig, ctx); err != nil {
		return nil, fmt.Errorf("spectral analysis: %w", err)
	}

	return bundle, nil
}

// startJob transitions a queued job to running. It reports false when the job
// was cancelled while waiting for a worker slot.
func (s *AnalysisService) startJob(jobID string, startTime time.Time) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists || job.Status != models.JobStatusQueued {
		return false
	}

	job.Status = models.JobStatusRunning
	job.Progress = models.JobProgress{Percentage: 0, Message: "Starting..."}
	job.StartedAt = &startTime
	job.UpdatedAt = time.Now()

	return true
}

// updateProgress updates the progress of a running job
func (s *AnalysisService) updateProgress(jobID string, percentage int, message string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists || job.Status != models.JobStatusRunning {
		return
	}

	job.Progress.Percentage = percentage
	job.Progress.Message = message
	job.UpdatedAt = time.Now()

	log.Debug().
		Str("job_id", jobID).
		Int("percentage", percentage).
		Str("message", message).
		Msg("Job progress updated")
}

// completeJob stores the bundle and marks the job as completed
func (s *AnalysisService) completeJob(jobID string, bundle *evaluation.Bundle, elapsed time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists || job.Status != models.JobStatusRunning {
		return
	}

	now := time.Now()
	job.Status = models.JobStatusCompleted
	job.Progress = models.JobProgress{Percentage: 100, Message: "Complete"}
	job.Result = summarize(bundle, elapsed.Milliseconds())
	job.CompletedAt = &now
	job.UpdatedAt = now

	s.bundles[jobID] = bundle

	log.Info().
		Str("job_id", jobID).
		Float64("node_clustering", job.Result.NodeClustering).
		Float64("spectral_radius", job.Result.SpectralRadius).
		Int64("processing_time_ms", job.Result.ProcessingTimeMS).
		Msg("Analysis job completed successfully")
}

// failJob marks a running job as failed
func (s *AnalysisService) failJob(jobID string, err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists || job.Status != models.JobStatusRunning {
		return
	}

	now := time.Now()
	job.Status = models.JobStatusFailed
	job.Error = err.Error()
	job.CompletedAt = &now
	job.UpdatedAt = now

	log.Error().
		Str("job_id", jobID).
		Err(err).
		Msg("Analysis job failed")
}

// jobStatus reads the current status of a job
func (s *AnalysisService) jobStatus(jobID string) models.JobStatus {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if job, exists := s.jobs[jobID]; exists {
		return job.Status
	}
	return ""
}

// cleanupLoop periodically removes finished jobs older than the result TTL
func (s *AnalysisService) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanup()
	}
}

// cleanup removes stale finished jobs and their bundles
func (s *AnalysisService) cleanup() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := time.Now().Add(-s.resultTTL)
	removed := 0

	for jobID, job := range s.jobs {
		switch job.Status {
		case models.JobStatusQueued, models.JobStatusRunning:
			continue
		}
		if job.UpdatedAt.After(cutoff) {
			continue
		}
		delete(s.jobs, jobID)
		delete(s.bundles, jobID)
		removed++
	}

	if removed > 0 {
		log.Info().
			Int("removed", removed).
			Msg("Cleaned up expired analysis jobs")
	}
}

// summarize extracts the headline numbers of a bundle for the job record
func summarize(bundle *evaluation.Bundle, elapsedMS int64) *models.AnalysisSummary {
	return &models.AnalysisSummary{
		NumNodes:         bundle.Clustering.BasicStats.NumNodes,
		NumHyperedges:    bundle.Clustering.BasicStats.NumHyperedges,
		AvgHyperedgeSize: bundle.Clustering.BasicStats.AvgHyperedgeSize,
		NodeClustering:   bundle.Clustering.GlobalClustering.AverageNodeClustering,
		TotalWedges:      bundle.Structural.WedgeCounts.TotalWedges,
		SpectralRadius:   bundle.Spectral.AdjacencySpectrum.SpectralRadius,
		SpectralGap:      bundle.Spectral.LaplacianSpectrum.SpectralGap,
		ProcessingTimeMS: elapsedMS,
	}
}

// applyParameters overlays job parameters onto a run configuration
func applyParameters(cfg *hypergraph.Config, params models.JobParameters) {
	if params.RandomSeed != nil {
		cfg.Set("analysis.random_seed", *params.RandomSeed)
	}
	if params.NumEigenvalues != nil {
		cfg.Set("spectral.num_eigenvalues", *params.NumEigenvalues)
	}
	if params.TriadSampleSize != nil {
		cfg.Set("motifs.triad_sample_size", *params.TriadSampleSize)
	}
	if params.MaxTriangleSamples != nil {
		cfg.Set("structural.max_triangle_samples", *params.MaxTriangleSamples)
	}
	if params.IncludeRaw != nil {
		cfg.Set("output.include_raw", *params.IncludeRaw)
	}
}

func validateParameters(params models.JobParameters) error {
	if params.NumEigenvalues != nil && *params.NumEigenvalues < 1 {
		return fmt.Errorf("numEigenvalues must be positive, got %d", *params.NumEigenvalues)
	}
	if params.TriadSampleSize != nil && *params.TriadSampleSize < 1 {
		return fmt.Errorf("triadSampleSize must be positive, got %d", *params.TriadSampleSize)
	}
	if params.MaxTriangleSamples != nil && *params.MaxTriangleSamples < 1 {
		return fmt.Errorf("maxTriangleSamples must be positive, got %d", *params.MaxTriangleSamples)
	}
	return nil
}

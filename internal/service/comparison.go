package service

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gilchrisn/hypergraph-analysis-service/internal/models"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/evaluation"
)

// Distance thresholds for the similarity verdict and the key-difference list.
const (
	highSimilarityMax   = 0.10
	mediumSimilarityMax = 0.35
	keyDifferenceMin    = 0.25
)

// ComparisonService joins two completed analysis jobs into a distance report
type ComparisonService struct {
	comparisons     map[string]*models.Comparison
	analysisService *AnalysisService
	outputDir       string
	mutex           sync.RWMutex
}

// NewComparisonService creates a new comparison service. Completed evaluations
// are persisted under outputDir; an empty outputDir keeps results in memory
// only.
func NewComparisonService(analysisService *AnalysisService, outputDir string) *ComparisonService {
	return &ComparisonService{
		comparisons:     make(map[string]*models.Comparison),
		analysisService: analysisService,
		outputDir:       outputDir,
	}
}

// Create starts a comparison between two completed analysis jobs. Both jobs
// must be completed and their results must still be retained.
func (s *ComparisonService) Create(name string, generated, reference models.AnalysisRef) (*models.Comparison, error) {
	if err := s.validateRef("generated", generated); err != nil {
		return nil, err
	}
	if err := s.validateRef("reference", reference); err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	comparisonID := uuid.New().String()
	comparison := &models.Comparison{
		ID:        comparisonID,
		Name:      name,
		Generated: generated,
		Reference: reference,
		Status:    models.ComparisonStatusRunning,
		CreatedAt: time.Now(),
	}
	s.comparisons[comparisonID] = comparison

	log.Info().
		Str("comparison_id", comparisonID).
		Str("generated_job", generated.JobID).
		Str("reference_job", reference.JobID).
		Msg("Comparison started")

	go s.computeComparison(comparisonID)

	snapshot := *comparison
	return &snapshot, nil
}

// Get retrieves a comparison by ID
func (s *ComparisonService) Get(comparisonID string) (*models.Comparison, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	comparison, exists := s.comparisons[comparisonID]
	if !exists {
		return nil, fmt.Errorf("comparison not found: %s", comparisonID)
	}

	snapshot := *comparison
	return &snapshot, nil
}

// List returns all comparisons
func (s *ComparisonService) List() []*models.Comparison {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	comparisons := make([]*models.Comparison, 0, len(s.comparisons))
	for _, comparison := range s.comparisons {
		snapshot := *comparison
		comparisons = append(comparisons, &snapshot)
	}

	return comparisons
}

// Delete removes a comparison
func (s *ComparisonService) Delete(comparisonID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.comparisons[comparisonID]; !exists {
		return fmt.Errorf("comparison not found: %s", comparisonID)
	}

	delete(s.comparisons, comparisonID)

	log.Info().
		Str("comparison_id", comparisonID).
		Msg("Comparison deleted")

	return nil
}

// validateRef checks that a job reference points at a completed job of the
// named dataset.
func (s *ComparisonService) validateRef(side string, ref models.AnalysisRef) error {
	job, err := s.analysisService.Get(ref.JobID)
	if err != nil {
		return fmt.Errorf("%s job: %w", side, err)
	}
	if job.DatasetID != ref.DatasetID {
		return fmt.Errorf("%s job %s does not belong to dataset %s", side, ref.JobID, ref.DatasetID)
	}
	if job.Status != models.JobStatusCompleted {
		return fmt.Errorf("%s job not completed, status: %s", side, job.Status)
	}
	return nil
}

// computeComparison runs the distance computation in the background
func (s *ComparisonService) computeComparison(comparisonID string) {
	s.mutex.RLock()
	comparison, exists := s.comparisons[comparisonID]
	s.mutex.RUnlock()
	if !exists {
		return
	}

	generated, err := s.analysisService.GetResult(comparison.Generated.JobID)
	if err != nil {
		s.failComparison(comparisonID, fmt.Errorf("generated result: %w", err))
		return
	}
	reference, err := s.analysisService.GetResult(comparison.Reference.JobID)
	if err != nil {
		s.failComparison(comparisonID, fmt.Errorf("reference result: %w", err))
		return
	}

	distances := evaluation.Compare(generated, reference)
	result := &models.ComparisonResult{
		Distances: distances,
		Summary:   buildSummary(distances),
	}

	if s.outputDir != "" {
		results := &evaluation.Results{Generated: generated, Reference: reference}
		dir := filepath.Join(s.outputDir, comparisonID)
		if err := evaluation.WriteEvaluation(dir, results, distances); err != nil {
			log.Warn().
				Str("comparison_id", comparisonID).
				Err(err).
				Msg("Failed to persist evaluation files")
		}
	}

	s.completeComparison(comparisonID, result)
}

// completeComparison stores the result and marks the comparison as completed
func (s *ComparisonService) completeComparison(comparisonID string, result *models.ComparisonResult) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	comparison, exists := s.comparisons[comparisonID]
	if !exists {
		return
	}

	now := time.Now()
	comparison.Status = models.ComparisonStatusCompleted
	comparison.Result = result
	comparison.CompletedAt = &now

	log.Info().
		Str("comparison_id", comparisonID).
		Str("similarity", result.Summary.OverallSimilarity).
		Float64("mean_distance", result.Summary.MeanDistance).
		Msg("Comparison completed")
}

// failComparison marks a comparison as failed
func (s *ComparisonService) failComparison(comparisonID string, err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	comparison, exists := s.comparisons[comparisonID]
	if !exists {
		return
	}

	now := time.Now()
	comparison.Status = models.ComparisonStatusFailed
	comparison.Error = err.Error()
	comparison.CompletedAt = &now

	log.Error().
		Str("comparison_id", comparisonID).
		Err(err).
		Msg("Comparison failed")
}

// buildSummary turns the raw distances into a human-readable verdict. Lower
// distances mean the hypergraphs are more alike.
func buildSummary(d *evaluation.Distances) models.ComparisonSummary {
	summary := models.ComparisonSummary{
		MeanDistance:   d.Overall.Mean,
		KeyDifferences: []string{},
	}

	switch {
	case d.Overall.Mean <= highSimilarityMax:
		summary.OverallSimilarity = "High"
	case d.Overall.Mean <= mediumSimilarityMax:
		summary.OverallSimilarity = "Medium"
	default:
		summary.OverallSimilarity = "Low"
	}

	if d.Clustering.NodeClusteringDiff > keyDifferenceMin {
		summary.KeyDifferences = append(summary.KeyDifferences,
			fmt.Sprintf("Node clustering coefficients differ by %.3f", d.Clustering.NodeClusteringDiff))
	}
	if d.Structural.WedgeRatioDiff > keyDifferenceMin {
		summary.KeyDifferences = append(summary.KeyDifferences,
			fmt.Sprintf("Wedge density differs by %.3f per hyperedge", d.Structural.WedgeRatioDiff))
	}
	if d.Structural.EntropyDiff > keyDifferenceMin {
		summary.KeyDifferences = append(summary.KeyDifferences,
			fmt.Sprintf("Hyperedge size entropy differs by %.3f", d.Structural.EntropyDiff))
	}
	if d.Motif.SpectrumEntropyDiff > keyDifferenceMin {
		summary.KeyDifferences = append(summary.KeyDifferences,
			fmt.Sprintf("Motif spectrum entropy differs by %.3f", d.Motif.SpectrumEntropyDiff))
	}
	if gapDiff, ok := d.Spectral.LaplacianDistances["spectral_gap_diff"]; ok && gapDiff > keyDifferenceMin {
		summary.KeyDifferences = append(summary.KeyDifferences,
			fmt.Sprintf("Laplacian spectral gaps differ by %.3f", gapDiff))
	}

	return summary
}

package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gilchrisn/hypergraph-analysis-service/internal/models"
	"github.com/gilchrisn/hypergraph-analysis-service/pkg/hypergraph"
)

// DatasetService handles hypergraph dataset uploads
type DatasetService struct {
	datasets  map[string]*models.Dataset
	uploadDir string
	maxBytes  int64
	mutex     sync.RWMutex
}

// NewDatasetService creates a new dataset service storing uploads under
// uploadDir. maxBytes of 0 disables the size limit.
func NewDatasetService(uploadDir string, maxBytes int64) *DatasetService {
	return &DatasetService{
		datasets:  make(map[string]*models.Dataset),
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
	}
}

// Upload creates a new dataset from an uploaded hypergraph file. A file that
// cannot be loaded as a hypergraph is kept but marked corrupted so it can be
// inspected and deleted.
func (s *DatasetService) Upload(name string, fileHeader *multipart.FileHeader) (*models.Dataset, error) {
	if fileHeader == nil {
		return nil, fmt.Errorf("missing required file: hypergraphFile")
	}
	if s.maxBytes > 0 && fileHeader.Size > s.maxBytes {
		return nil, fmt.Errorf("file too large: %d bytes (limit %d)", fileHeader.Size, s.maxBytes)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	datasetID := uuid.New().String()

	log.Info().
		Str("dataset_id", datasetID).
		Str("name", name).
		Msg("Starting dataset upload")

	uploadDir := filepath.Join(s.uploadDir, datasetID)
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	destPath, err := s.saveUploadedFile(fileHeader, uploadDir)
	if err != nil {
		os.RemoveAll(uploadDir)
		return nil, fmt.Errorf("failed to save hypergraph file: %w", err)
	}

	now := time.Now()
	dataset := &models.Dataset{
		ID:        datasetID,
		Name:      name,
		Status:    models.DatasetStatusReady,
		File:      destPath,
		CreatedAt: now,
		UpdatedAt: now,
	}

	metadata, err := s.analyzeFile(destPath)
	if err != nil {
		log.Warn().
			Str("dataset_id", datasetID).
			Err(err).
			Msg("Uploaded file is not a loadable hypergraph")
		dataset.Status = models.DatasetStatusCorrupted
		metadata = models.DatasetMetadata{NodeCount: -1, HyperedgeCount: -1}
		if stat, statErr := os.Stat(destPath); statErr == nil {
			metadata.FileSize = stat.Size()
		}
	}
	dataset.Metadata = metadata

	s.datasets[datasetID] = dataset

	log.Info().
		Str("dataset_id", datasetID).
		Str("status", string(dataset.Status)).
		Int("nodes", metadata.NodeCount).
		Int("hyperedges", metadata.HyperedgeCount).
		Int64("size_bytes", metadata.FileSize).
		Msg("Dataset upload complete")

	snapshot := *dataset
	return &snapshot, nil
}

// Get retrieves a dataset by ID
func (s *DatasetService) Get(datasetID string) (*models.Dataset, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	dataset, exists := s.datasets[datasetID]
	if !exists {
		return nil, fmt.Errorf("dataset not found: %s", datasetID)
	}

	snapshot := *dataset
	return &snapshot, nil
}

// List returns all datasets
func (s *DatasetService) List() []*models.Dataset {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	datasets := make([]*models.Dataset, 0, len(s.datasets))
	for _, dataset := range s.datasets {
		snapshot := *dataset
		datasets = append(datasets, &snapshot)
	}

	return datasets
}

// Count returns the number of stored datasets.
func (s *DatasetService) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.datasets)
}

// Delete removes a dataset and its files
func (s *DatasetService) Delete(datasetID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	dataset, exists := s.datasets[datasetID]
	if !exists {
		return fmt.Errorf("dataset not found: %s", datasetID)
	}

	uploadDir := filepath.Dir(dataset.File)
	if err := os.RemoveAll(uploadDir); err != nil {
		log.Warn().
			Str("dataset_id", datasetID).
			Err(err).
			Msg("Failed to remove dataset files")
	}

	delete(s.datasets, datasetID)

	log.Info().
		Str("dataset_id", datasetID).
		Msg("Dataset deleted")

	return nil
}

// saveUploadedFile saves an uploaded file to the destination
func (s *DatasetService) saveUploadedFile(fileHeader *multipart.FileHeader, uploadDir string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	destPath := filepath.Join(uploadDir, "hypergraph.txt")
	destFile, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, file); err != nil {
		return "", fmt.Errorf("failed to copy file contents: %w", err)
	}

	return destPath, nil
}

// analyzeFile loads the hypergraph once to extract metadata
func (s *DatasetService) analyzeFile(path string) (models.DatasetMetadata, error) {
	hg, err := hypergraph.LoadFromFile(path)
	if err != nil {
		return models.DatasetMetadata{}, err
	}

	metadata := models.DatasetMetadata{
		NodeCount:        hg.NumNodes(),
		HyperedgeCount:   hg.NumEdges(),
		AvgHyperedgeSize: hg.AvgEdgeSize(),
	}
	if stat, err := os.Stat(path); err == nil {
		metadata.FileSize = stat.Size()
	}

	return metadata, nil
}

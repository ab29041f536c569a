package models

import (
	"time"

	"github.com/gilchrisn/hypergraph-analysis-service/pkg/evaluation"
)

// Dataset represents an uploaded hypergraph edge-list file.
type Dataset struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Status    DatasetStatus   `json:"status"`
	File      string          `json:"file"`
	Metadata  DatasetMetadata `json:"metadata"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type DatasetStatus string

const (
	DatasetStatusReady     DatasetStatus = "ready"
	DatasetStatusCorrupted DatasetStatus = "corrupted"
)

type DatasetMetadata struct {
	NodeCount        int     `json:"nodeCount"`
	HyperedgeCount   int     `json:"hyperedgeCount"`
	AvgHyperedgeSize float64 `json:"avgHyperedgeSize"`
	FileSize         int64   `json:"fileSize"`
}

// AnalysisJob represents one full analyzer run over a dataset.
type AnalysisJob struct {
	ID          string           `json:"id"`
	DatasetID   string           `json:"datasetId"`
	Parameters  JobParameters    `json:"parameters"`
	Status      JobStatus        `json:"status"`
	Progress    JobProgress      `json:"progress"`
	Result      *AnalysisSummary `json:"result,omitempty"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	StartedAt   *time.Time       `json:"startedAt,omitempty"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
}

// JobParameters overrides individual analysis settings for a single job.
// Nil fields keep the server defaults.
type JobParameters struct {
	RandomSeed         *int64 `json:"randomSeed,omitempty"`
	NumEigenvalues     *int   `json:"numEigenvalues,omitempty"`
	TriadSampleSize    *int   `json:"triadSampleSize,omitempty"`
	MaxTriangleSamples *int   `json:"maxTriangleSamples,omitempty"`
	IncludeRaw         *bool  `json:"includeRaw,omitempty"`
}

type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

type JobProgress struct {
	Percentage int    `json:"percentage"`
	Message    string `json:"message"`
}

// AnalysisSummary is the headline block kept on the job; the full analyzer
// bundle is served separately.
type AnalysisSummary struct {
	NumNodes         int     `json:"numNodes"`
	NumHyperedges    int     `json:"numHyperedges"`
	AvgHyperedgeSize float64 `json:"avgHyperedgeSize"`
	NodeClustering   float64 `json:"nodeClustering"`
	TotalWedges      int     `json:"totalWedges"`
	SpectralRadius   float64 `json:"spectralRadius"`
	SpectralGap      float64 `json:"spectralGap"`
	ProcessingTimeMS int64   `json:"processingTimeMS"`
}

// Comparison joins two completed analysis jobs and holds the distance
// families between their bundles.
type Comparison struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Generated   AnalysisRef       `json:"generated"`
	Reference   AnalysisRef       `json:"reference"`
	Status      ComparisonStatus  `json:"status"`
	Result      *ComparisonResult `json:"result,omitempty"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
}

// AnalysisRef references a completed analysis job.
type AnalysisRef struct {
	DatasetID string `json:"datasetId"`
	JobID     string `json:"jobId"`
}

type ComparisonStatus string

const (
	ComparisonStatusRunning   ComparisonStatus = "running"
	ComparisonStatusCompleted ComparisonStatus = "completed"
	ComparisonStatusFailed    ComparisonStatus = "failed"
)

type ComparisonResult struct {
	Distances *evaluation.Distances `json:"distances"`
	Summary   ComparisonSummary     `json:"summary"`
}

// ComparisonSummary provides a human-readable verdict.
type ComparisonSummary struct {
	OverallSimilarity string   `json:"overallSimilarity"` // "High", "Medium", "Low"
	MeanDistance      float64  `json:"meanDistance"`
	KeyDifferences    []string `json:"keyDifferences"`
}

// API Response types
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type UploadResponse struct {
	DatasetID string  `json:"datasetId"`
	Dataset   Dataset `json:"dataset"`
}

type AnalysisResponse struct {
	JobID string      `json:"jobId"`
	Job   AnalysisJob `json:"job"`
}

type ComparisonResponse struct {
	ComparisonID string     `json:"comparisonId"`
	Comparison   Comparison `json:"comparison"`
}

// CreateComparisonRequest is the POST body for a new comparison.
type CreateComparisonRequest struct {
	Name      string      `json:"name"`
	Generated AnalysisRef `json:"generated"`
	Reference AnalysisRef `json:"reference"`
}

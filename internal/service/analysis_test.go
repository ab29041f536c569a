package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilchrisn/hypergraph-analysis-service/internal/config"
	"github.com/gilchrisn/hypergraph-analysis-service/internal/models"
)

func testJobConfig() config.JobConfig {
	return config.JobConfig{
		MaxWorkers:      2,
		JobTimeout:      time.Minute,
		CleanupInterval: time.Minute,
		ResultTTL:       time.Hour,
	}
}

func newTestServices(t *testing.T) (*DatasetService, *AnalysisService) {
	t.Helper()
	datasets := NewDatasetService(t.TempDir(), 0)
	analysis := NewAnalysisService(datasets, testJobConfig())
	return datasets, analysis
}

func waitForJob(t *testing.T, svc *AnalysisService, jobID string, want models.JobStatus) *models.AnalysisJob {
	t.Helper()

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.Get(jobID)
		require.NoError(t, err)
		if job.Status == want {
			return job
		}
		if job.Status == models.JobStatusFailed && want != models.JobStatusFailed {
			t.Fatalf("job failed: %s", job.Error)
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach %s in time", jobID, want)
	return nil
}

func TestAnalysisJobLifecycle(t *testing.T) {
	datasets, analysis := newTestServices(t)

	dataset, err := datasets.Upload("contacts", uploadHeader(t, sampleHypergraph))
	require.NoError(t, err)

	job, err := analysis.Submit(dataset.ID, models.JobParameters{})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusQueued, job.Status)
	assert.Equal(t, dataset.ID, job.DatasetID)

	done := waitForJob(t, analysis, job.ID, models.JobStatusCompleted)
	require.NotNil(t, done.Result)
	assert.Equal(t, 100, done.Progress.Percentage)
	assert.Equal(t, 8, done.Result.NumNodes)
	assert.Equal(t, 8, done.Result.NumHyperedges)
	assert.InDelta(t, 3.0, done.Result.AvgHyperedgeSize, 1e-9)
	assert.Greater(t, done.Result.SpectralRadius, 0.0)
	assert.NotNil(t, done.StartedAt)
	assert.NotNil(t, done.CompletedAt)

	bundle, err := analysis.GetResult(job.ID)
	require.NoError(t, err)
	require.NotNil(t, bundle.Clustering)
	require.NotNil(t, bundle.Structural)
	require.NotNil(t, bundle.Motif)
	require.NotNil(t, bundle.Spectral)
	assert.Equal(t, done.Result.NodeClustering, bundle.Clustering.GlobalClustering.AverageNodeClustering)
	assert.Equal(t, done.Result.TotalWedges, bundle.Structural.WedgeCounts.TotalWedges)
}

func TestSubmitValidation(t *testing.T) {
	datasets, analysis := newTestServices(t)

	_, err := analysis.Submit("missing", models.JobParameters{})
	assert.Error(t, err)

	corrupted, err := datasets.Upload("blank", uploadHeader(t, "\n"))
	require.NoError(t, err)
	_, err = analysis.Submit(corrupted.ID, models.JobParameters{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not ready")

	dataset, err := datasets.Upload("contacts", uploadHeader(t, sampleHypergraph))
	require.NoError(t, err)
	bad := -1
	_, err = analysis.Submit(dataset.ID, models.JobParameters{NumEigenvalues: &bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid parameters")
}

func TestJobParameterOverrides(t *testing.T) {
	datasets, analysis := newTestServices(t)

	dataset, err := datasets.Upload("contacts", uploadHeader(t, sampleHypergraph))
	require.NoError(t, err)

	includeRaw := true
	numEig := 4
	job, err := analysis.Submit(dataset.ID, models.JobParameters{
		IncludeRaw:     &includeRaw,
		NumEigenvalues: &numEig,
	})
	require.NoError(t, err)
	waitForJob(t, analysis, job.ID, models.JobStatusCompleted)

	bundle, err := analysis.GetResult(job.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, bundle.Clustering.RawNodeClustering)
	assert.LessOrEqual(t, len(bundle.Spectral.AdjacencySpectrum.Eigenvalues), 4)
}

func TestCancelQueuedJob(t *testing.T) {
	datasets := NewDatasetService(t.TempDir(), 0)
	cfg := testJobConfig()
	cfg.MaxWorkers = 1
	analysis := NewAnalysisService(datasets, cfg)

	dataset, err := datasets.Upload("contacts", uploadHeader(t, sampleHypergraph))
	require.NoError(t, err)

	// Hold the only worker slot so the job stays queued.
	analysis.workers <- struct{}{}

	job, err := analysis.Submit(dataset.ID, models.JobParameters{})
	require.NoError(t, err)
	require.NoError(t, analysis.Cancel(job.ID))

	cancelled, err := analysis.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CompletedAt)

	// Releasing the slot must not resurrect the job.
	<-analysis.workers
	time.Sleep(50 * time.Millisecond)

	still, err := analysis.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCancelled, still.Status)
	_, err = analysis.GetResult(job.ID)
	assert.Error(t, err)

	// Cancelling a finished job is an error.
	assert.Error(t, analysis.Cancel(job.ID))
}

func TestListFiltersByDataset(t *testing.T) {
	datasets, analysis := newTestServices(t)

	first, err := datasets.Upload("first", uploadHeader(t, sampleHypergraph))
	require.NoError(t, err)
	second, err := datasets.Upload("second", uploadHeader(t, sampleHypergraph))
	require.NoError(t, err)

	jobA, err := analysis.Submit(first.ID, models.JobParameters{})
	require.NoError(t, err)
	_, err = analysis.Submit(second.ID, models.JobParameters{})
	require.NoError(t, err)

	assert.Len(t, analysis.List(""), 2)
	got := analysis.List(first.ID)
	require.Len(t, got, 1)
	assert.Equal(t, jobA.ID, got[0].ID)
}

func TestCleanupRemovesExpiredJobs(t *testing.T) {
	datasets, analysis := newTestServices(t)
	analysis.resultTTL = 0

	dataset, err := datasets.Upload("contacts", uploadHeader(t, sampleHypergraph))
	require.NoError(t, err)

	job, err := analysis.Submit(dataset.ID, models.JobParameters{})
	require.NoError(t, err)
	waitForJob(t, analysis, job.ID, models.JobStatusCompleted)

	analysis.cleanup()

	_, err = analysis.Get(job.ID)
	assert.Error(t, err)
	_, err = analysis.GetResult(job.ID)
	assert.Error(t, err)
	assert.Equal(t, 0, analysis.ActiveCount())
}

package jobs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjones1stptllc/titlegrab-desktop/constants"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/llm"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(NewMemoryStore(0), nil)

	job, err := r.Create("job-1", "deed.pdf")
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusProcessing, job.Status)
	assert.False(t, job.CreatedAt.IsZero())

	doc := &llm.ExtractedDocument{Confidence: llm.ConfidenceHigh}
	require.NoError(t, r.SetResult("job-1", doc))

	got, ok, err := r.Get("job-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, constants.JobStatusComplete, got.Status)
	assert.Equal(t, doc, got.Result)
}

func TestRegistrySetError(t *testing.T) {
	r := NewRegistry(NewMemoryStore(0), nil)
	_, err := r.Create("job-1", "deed.pdf")
	require.NoError(t, err)

	require.NoError(t, r.SetError("job-1", "ocr failed"))
	got, ok, _ := r.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, constants.JobStatusFailed, got.Status)
	assert.Equal(t, "ocr failed", got.Error)
}

func TestRegistryUnknownJob(t *testing.T) {
	r := NewRegistry(NewMemoryStore(0), nil)
	_, ok, err := r.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Error(t, r.SetStatus("missing", constants.JobStatusComplete))
}

func TestMemoryStoreEvictsOldestTerminal(t *testing.T) {
	r := NewRegistry(NewMemoryStore(3), nil)

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("done-%d", i)
		_, err := r.Create(id, id+".pdf")
		require.NoError(t, err)
		require.NoError(t, r.SetStatus(id, constants.JobStatusComplete))
	}
	_, err := r.Create("active", "active.pdf")
	require.NoError(t, err)

	assert.Equal(t, 3, r.Count())
	_, ok, _ := r.Get("done-0")
	assert.False(t, ok, "oldest terminal entry evicted")
	_, ok, _ = r.Get("active")
	assert.True(t, ok)
}

func TestMemoryStoreNeverEvictsActiveJobs(t *testing.T) {
	r := NewRegistry(NewMemoryStore(2), nil)

	for i := 0; i < 5; i++ {
		_, err := r.Create(fmt.Sprintf("active-%d", i), "f.pdf")
		require.NoError(t, err)
	}
	assert.Equal(t, 5, r.Count(), "processing jobs stay even over the cap")
}

func TestSqliteStoreRoundTrip(t *testing.T) {
	store, err := NewSqliteStore(t.TempDir() + "/jobs.db")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	r := NewRegistry(store, nil)
	_, err = r.Create("job-1", "deed.pdf")
	require.NoError(t, err)

	doc := &llm.ExtractedDocument{
		Deeds:      []llm.Deed{{Grantor: "John Smith", Grantee: "ABC Holdings LLC"}},
		Confidence: llm.ConfidenceHigh,
	}
	require.NoError(t, r.SetResult("job-1", doc))

	got, ok, err := r.Get("job-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, constants.JobStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "John Smith", got.Result.Deeds[0].Grantor)

	list, err := r.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

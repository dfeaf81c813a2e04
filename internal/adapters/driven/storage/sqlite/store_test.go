package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "finsight-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func testDocument(id string) *domain.Document {
	return &domain.Document{
		ID:        id,
		Title:     "Annual Report 2024",
		PageCount: 3,
		LoadedAt:  time.Now().UTC(),
	}
}

func testChunk(docID string, position int, embedding []float32) domain.Chunk {
	return domain.Chunk{
		ID:          uuid.New().String(),
		DocumentID:  docID,
		Text:        "chunk text",
		StartOffset: position * 800,
		EndOffset:   position*800 + 1000,
		Position:    position,
		Page:        1,
		Embedding:   embedding,
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.FileExists(t, store.Path())

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_ReplaceAndSearch(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := testDocument("doc-1")
	chunks := []domain.Chunk{
		testChunk(doc.ID, 0, []float32{1, 0, 0}),
		testChunk(doc.ID, 1, []float32{0, 1, 0}),
		testChunk(doc.ID, 2, []float32{0, 0, 1}),
	}
	require.NoError(t, store.Replace(ctx, doc, chunks))

	results, err := store.Search(ctx, []float32{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// An exact match scores similarity 1.0.
	assert.Equal(t, chunks[1].ID, results[0].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.Equal(t, chunks[1].Text, results[0].Chunk.Text)
	assert.Equal(t, 1, results[0].Chunk.Position)
}

func TestStore_SearchRanksByDescendingSimilarity(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := testDocument("doc-1")
	chunks := []domain.Chunk{
		testChunk(doc.ID, 0, []float32{1, 0}),
		testChunk(doc.ID, 1, []float32{0.9, 0.1}),
		testChunk(doc.ID, 2, []float32{0, 1}),
		testChunk(doc.ID, 3, []float32{0.5, 0.5}),
		testChunk(doc.ID, 4, []float32{-1, 0}),
	}
	require.NoError(t, store.Replace(ctx, doc, chunks))

	results, err := store.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 0, results[0].Chunk.Position)
	assert.Equal(t, 1, results[1].Chunk.Position)
	assert.Equal(t, 3, results[2].Chunk.Position)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Similarity, results[i-1].Similarity)
	}
}

func TestStore_SearchTiesBreakByPosition(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	// Three chunks with identical embeddings score identically.
	doc := testDocument("doc-1")
	chunks := []domain.Chunk{
		testChunk(doc.ID, 0, []float32{1, 1}),
		testChunk(doc.ID, 1, []float32{1, 1}),
		testChunk(doc.ID, 2, []float32{1, 1}),
	}
	require.NoError(t, store.Replace(ctx, doc, chunks))

	results, err := store.Search(ctx, []float32{1, 1}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Chunk.Position)
	assert.Equal(t, 1, results[1].Chunk.Position)
}

func TestStore_SearchKLargerThanEntriesReturnsAll(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := testDocument("doc-1")
	chunks := []domain.Chunk{
		testChunk(doc.ID, 0, []float32{1, 0}),
		testChunk(doc.ID, 1, []float32{0, 1}),
	}
	require.NoError(t, store.Replace(ctx, doc, chunks))

	results, err := store.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestStore_SearchNonPositiveKReturnsAll(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := testDocument("doc-1")
	chunks := []domain.Chunk{
		testChunk(doc.ID, 0, []float32{1, 0}),
		testChunk(doc.ID, 1, []float32{0, 1}),
		testChunk(doc.ID, 2, []float32{1, 1}),
	}
	require.NoError(t, store.Replace(ctx, doc, chunks))

	results, err := store.Search(ctx, []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestStore_SearchEmptyStore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	results, err := store.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_SearchZeroMagnitudeQuery(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := testDocument("doc-1")
	require.NoError(t, store.Replace(ctx, doc, []domain.Chunk{
		testChunk(doc.ID, 0, []float32{1, 0}),
	}))

	results, err := store.Search(ctx, []float32{0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].Similarity)
}

func TestStore_ReplaceSwapsWholeDocument(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := testDocument("doc-1")
	first := []domain.Chunk{
		testChunk(doc.ID, 0, []float32{1, 0}),
		testChunk(doc.ID, 1, []float32{0, 1}),
		testChunk(doc.ID, 2, []float32{1, 1}),
	}
	require.NoError(t, store.Replace(ctx, doc, first))

	second := []domain.Chunk{
		testChunk(doc.ID, 0, []float32{0.5, 0.5}),
	}
	require.NoError(t, store.Replace(ctx, doc, second))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := store.Search(ctx, []float32{0.5, 0.5}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, second[0].ID, results[0].Chunk.ID)
}

func TestStore_HasDocument(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	has, err := store.HasDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.False(t, has)

	doc := testDocument("doc-1")
	require.NoError(t, store.Replace(ctx, doc, []domain.Chunk{
		testChunk(doc.ID, 0, []float32{1, 0}),
	}))

	has, err = store.HasDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = store.HasDocument(ctx, "doc-2")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "finsight-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)
	ctx := context.Background()

	store, err := NewStore(tempDir)
	require.NoError(t, err)

	doc := testDocument("doc-1")
	chunks := []domain.Chunk{
		testChunk(doc.ID, 0, []float32{1, 0, 0}),
		testChunk(doc.ID, 1, []float32{0, 1, 0}),
	}
	require.NoError(t, store.Replace(ctx, doc, chunks))
	require.NoError(t, store.Close())

	// A reloaded index returns identical results for the same query.
	reopened, err := NewStore(tempDir)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	results, err := reopened.Search(ctx, []float32{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, chunks[1].ID, results[0].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.Equal(t, []float32{0, 1, 0}, results[0].Chunk.Embedding)
}

func TestStore_CorruptEmbeddingBlob(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	doc := testDocument("doc-1")
	require.NoError(t, store.Replace(ctx, doc, []domain.Chunk{
		testChunk(doc.ID, 0, []float32{1, 0}),
	}))

	// Truncate the blob to a length that is not a multiple of 4.
	_, err := store.db.ExecContext(ctx, "UPDATE chunks SET embedding = X'0000FF'")
	require.NoError(t, err)

	_, err = store.Search(ctx, []float32{1, 0}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndexCorrupt)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
		{"mismatched lengths", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"empty", nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineSimilarity(tt.a, tt.b), 1e-6)
		})
	}
}

func TestFloat32BlobRoundTrip(t *testing.T) {
	original := []float32{1.5, -2.25, 0, 3.14159}

	decoded, err := bytesToFloat32Slice(float32SliceToBytes(original))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)

	empty, err := bytesToFloat32Slice(nil)
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = bytesToFloat32Slice([]byte{1, 2, 3})
	assert.ErrorIs(t, err, domain.ErrIndexCorrupt)
}

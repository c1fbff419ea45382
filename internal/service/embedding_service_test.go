package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEmbedder struct {
	vectors    map[string][]float32
	failModels map[string]bool
	calls      int
	batches    [][]string
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, model string, texts []string) ([][]float32, error) {
	f.calls++
	f.batches = append(f.batches, texts)
	if f.failModels[model] {
		return nil, errors.New("model down")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := f.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0, 0}
		}
	}
	return out, nil
}

func newTestEmbeddingService(embedder Embedder) *EmbeddingService {
	return NewEmbeddingService(embedder, "primary-model", "fallback-model", 16, zap.NewNop())
}

func TestEncode_EmptyInput(t *testing.T) {
	svc := newTestEmbeddingService(&fakeEmbedder{})
	vectors, err := svc.Encode(context.Background(), []string{})
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestEncode_CacheHitAvoidsSecondCall(t *testing.T) {
	embedder := &fakeEmbedder{}
	svc := newTestEmbeddingService(embedder)

	_, err := svc.Encode(context.Background(), []string{"python"})
	require.NoError(t, err)
	_, err = svc.Encode(context.Background(), []string{"python"})
	require.NoError(t, err)

	assert.Equal(t, 1, embedder.calls)
}

func TestEncode_BatchesOnlyMisses(t *testing.T) {
	embedder := &fakeEmbedder{}
	svc := newTestEmbeddingService(embedder)

	_, err := svc.Encode(context.Background(), []string{"python"})
	require.NoError(t, err)
	_, err = svc.Encode(context.Background(), []string{"python", "sql", "aws"})
	require.NoError(t, err)

	require.Len(t, embedder.batches, 2)
	assert.Equal(t, []string{"sql", "aws"}, embedder.batches[1])
}

func TestEncode_PreservesInputOrder(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"a": {1, 0, 0},
		"b": {0, 1, 0},
		"c": {0, 0, 1},
	}}
	svc := newTestEmbeddingService(embedder)

	vectors, err := svc.Encode(context.Background(), []string{"b", "c", "a", "b"})
	require.NoError(t, err)
	require.Len(t, vectors, 4)
	assert.Equal(t, []float32{0, 1, 0}, vectors[0])
	assert.Equal(t, []float32{0, 0, 1}, vectors[1])
	assert.Equal(t, []float32{1, 0, 0}, vectors[2])
	assert.Equal(t, []float32{0, 1, 0}, vectors[3])
}

func TestEncode_FallbackModelAfterPrimaryFails(t *testing.T) {
	embedder := &fakeEmbedder{failModels: map[string]bool{"primary-model": true}}
	svc := newTestEmbeddingService(embedder)

	_, err := svc.Encode(context.Background(), []string{"python"})
	require.NoError(t, err)

	// primary attempt plus fallback attempt
	assert.Equal(t, 2, embedder.calls)

	_, err = svc.Encode(context.Background(), []string{"sql"})
	require.NoError(t, err)
	assert.Equal(t, 3, embedder.calls)
}

func TestEncode_UnavailableLatchesPermanently(t *testing.T) {
	embedder := &fakeEmbedder{failModels: map[string]bool{
		"primary-model":  true,
		"fallback-model": true,
	}}
	svc := newTestEmbeddingService(embedder)

	_, err := svc.Encode(context.Background(), []string{"python"})
	assert.ErrorIs(t, err, ErrEmbeddingsUnavailable)
	callsAfterProbe := embedder.calls

	_, err = svc.Encode(context.Background(), []string{"sql"})
	assert.ErrorIs(t, err, ErrEmbeddingsUnavailable)
	assert.Equal(t, callsAfterProbe, embedder.calls)
}

func TestEncode_NilEmbedderUnavailable(t *testing.T) {
	svc := newTestEmbeddingService(nil)
	_, err := svc.Encode(context.Background(), []string{"python"})
	assert.ErrorIs(t, err, ErrEmbeddingsUnavailable)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
}

func TestCosine_ZeroNormIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Cosine([]float32{0, 0, 0}, []float32{1, 2, 3}))
	assert.Equal(t, 0.0, Cosine([]float32{1, 2}, []float32{1, 2, 3}))
}

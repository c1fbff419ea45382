package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newLexicalScorer() *Scorer {
	return NewScorer(newTestEmbeddingService(nil), zap.NewNop())
}

func TestCoverage_EmptyRequirementsTriviallySatisfied(t *testing.T) {
	s := newLexicalScorer()
	coverage, missing, matched := s.Coverage(context.Background(), []string{"Python"}, []string{}, 0.6)
	assert.Equal(t, 1.0, coverage)
	assert.Empty(t, missing)
	assert.Empty(t, matched)
}

func TestCoverage_LexicalFallback(t *testing.T) {
	s := newLexicalScorer()
	coverage, missing, matched := s.Coverage(context.Background(),
		[]string{"Python", "SQL"},
		[]string{"Python", "SQL", "AWS"},
		0.6,
	)
	assert.InDelta(t, 0.6667, coverage, 1e-4)
	assert.Equal(t, []string{"Python", "SQL"}, matched)
	assert.Equal(t, []string{"AWS"}, missing)
}

func TestCoverage_LexicalNoCandidateSkills(t *testing.T) {
	s := newLexicalScorer()
	coverage, missing, matched := s.Coverage(context.Background(), []string{}, []string{"Python", "AWS"}, 0.6)
	assert.Equal(t, 0.0, coverage)
	assert.Equal(t, []string{"Python", "AWS"}, missing)
	assert.Empty(t, matched)
}

func TestCoverage_EmbeddingPath(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"Python": {1, 0, 0},
		"AWS":    {0, 1, 0},
	}}
	s := NewScorer(newTestEmbeddingService(embedder), zap.NewNop())

	coverage, missing, matched := s.Coverage(context.Background(),
		[]string{"Python"},
		[]string{"Python", "AWS"},
		0.6,
	)
	assert.InDelta(t, 0.5, coverage, 1e-9)
	assert.Equal(t, []string{"Python"}, matched)
	assert.Equal(t, []string{"AWS"}, missing)
}

func TestSimilarity_EmptyInputScoresZero(t *testing.T) {
	s := newLexicalScorer()
	assert.Equal(t, 0.0, s.Similarity(context.Background(), "", "python developer"))
	assert.Equal(t, 0.0, s.Similarity(context.Background(), "python developer", "   "))
}

func TestSimilarity_JaccardFallback(t *testing.T) {
	s := newLexicalScorer()
	// {python, sql} vs {python, aws}: 1 shared token, 3 in the union
	got := s.Similarity(context.Background(), "python sql", "python aws")
	assert.InDelta(t, 1.0/3.0, got, 1e-9)
}

func TestSimilarity_JaccardSymmetric(t *testing.T) {
	s := newLexicalScorer()
	a := "experienced python developer with sql"
	b := "looking for a python engineer"
	assert.InDelta(t,
		s.Similarity(context.Background(), a, b),
		s.Similarity(context.Background(), b, a),
		1e-9,
	)
}

func TestSimilarity_EmbeddingPath(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"python developer": {1, 1, 0},
		"python engineer":  {1, 1, 0},
	}}
	s := NewScorer(newTestEmbeddingService(embedder), zap.NewNop())
	got := s.Similarity(context.Background(), "python developer", "python engineer")
	assert.InDelta(t, 1.0, got, 1e-9)
}

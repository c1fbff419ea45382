package service

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var wordRe = regexp.MustCompile(`\w+`)

// Scorer computes requirement coverage and whole-document similarity. Both
// use embeddings when the model is up and degrade to lexical matching when
// it is not; scoring never fails.
type Scorer struct {
	embeddings *EmbeddingService
	logger     *zap.Logger
}

func NewScorer(embeddings *EmbeddingService, logger *zap.Logger) *Scorer {
	return &Scorer{embeddings: embeddings, logger: logger}
}

// Coverage returns the fraction of required skills covered by the candidate
// skills, plus the missing and matched requirement lists in requirement
// order. An empty requirement set is trivially satisfied.
func (s *Scorer) Coverage(ctx context.Context, cvSkills, reqSkills []string, threshold float64) (float64, []string, []string) {
	if len(reqSkills) == 0 {
		return 1.0, []string{}, []string{}
	}

	if len(cvSkills) > 0 {
		all := make([]string, 0, len(cvSkills)+len(reqSkills))
		all = append(all, cvSkills...)
		all = append(all, reqSkills...)
		vectors, err := s.embeddings.Encode(ctx, all)
		if err == nil {
			return coverageByCosine(vectors[:len(cvSkills)], vectors[len(cvSkills):], reqSkills, threshold)
		}
		s.logger.Debug("embedding coverage unavailable, using lexical fallback", zap.Error(err))
	}

	return coverageLexical(cvSkills, reqSkills)
}

func coverageByCosine(cvVecs, reqVecs [][]float32, reqSkills []string, threshold float64) (float64, []string, []string) {
	matched := []string{}
	missing := []string{}
	for i, reqVec := range reqVecs {
		best := 0.0
		for _, cvVec := range cvVecs {
			if sim := Cosine(reqVec, cvVec); sim > best {
				best = sim
			}
		}
		if best >= threshold {
			matched = append(matched, reqSkills[i])
		} else {
			missing = append(missing, reqSkills[i])
		}
	}
	return float64(len(matched)) / float64(len(reqSkills)), missing, matched
}

func coverageLexical(cvSkills, reqSkills []string) (float64, []string, []string) {
	cvSet := make(map[string]bool, len(cvSkills))
	for _, skill := range cvSkills {
		cvSet[skill] = true
	}
	matched := []string{}
	missing := []string{}
	for _, req := range reqSkills {
		if cvSet[req] {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}
	return float64(len(matched)) / float64(len(reqSkills)), missing, matched
}

// Similarity returns the semantic similarity of two documents, or the Jaccard
// similarity of their lowercased word-token sets when embeddings are down.
// Empty input on either side scores 0.
func (s *Scorer) Similarity(ctx context.Context, textA, textB string) float64 {
	if strings.TrimSpace(textA) == "" || strings.TrimSpace(textB) == "" {
		return 0.0
	}

	vectors, err := s.embeddings.Encode(ctx, []string{textA, textB})
	if err == nil && len(vectors) == 2 {
		return Cosine(vectors[0], vectors[1])
	}
	if err != nil {
		s.logger.Debug("embedding similarity unavailable, using jaccard fallback", zap.Error(err))
	}

	return jaccard(textA, textB)
}

func jaccard(textA, textB string) float64 {
	setA := tokenSet(textA)
	setB := tokenSet(textB)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}
	intersection := 0
	for token := range setA {
		if setB[token] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range wordRe.FindAllString(strings.ToLower(text), -1) {
		set[token] = true
	}
	return set
}

package similarity

import (
	"math"

	"github.com/frbox-labs/frbox/internal/domain"
)

// Normalize scales the embedding to unit length. A zero vector is returned
// unchanged so the caller never divides by zero.
func Normalize(embedding domain.Embedding) domain.Embedding {
	if len(embedding) == 0 {
		return embedding
	}

	var norm float64
	for _, v := range embedding {
		norm += v * v
	}

	if norm == 0 {
		return embedding
	}

	norm = math.Sqrt(norm)
	normalized := make(domain.Embedding, len(embedding))
	for i, v := range embedding {
		normalized[i] = v / norm
	}

	return normalized
}

// CosineSimilarity normalizes both embeddings and returns their dot product.
// Callers are responsible for ensuring equal lengths.
func CosineSimilarity(a, b domain.Embedding) float64 {
	an := Normalize(a)
	bn := Normalize(b)

	var dot float64
	for i := range an {
		dot += an[i] * bn[i]
	}
	return dot
}

// Verify compares two embeddings against a match threshold.
// Pure and deterministic for identical inputs.
func Verify(a, b domain.Embedding, threshold float64) domain.VerificationResult {
	confidence := CosineSimilarity(a, b)
	return domain.VerificationResult{
		Match:      confidence >= threshold,
		Confidence: confidence,
	}
}

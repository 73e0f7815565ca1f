package normalize

import (
	"math"

	"github.com/kailas-cloud/caselookup/internal/domain/caserecord"
	"github.com/kailas-cloud/caselookup/internal/domain/rawdoc"
)

// resolveRelevance returns a score in [0,1].
// Order: relevance_score, _score/100 rounded to 3 decimals, relevance, default.
func resolveRelevance(d rawdoc.Document) float64 {
	if v, ok := d.Number("relevance_score"); ok {
		return clamp01(v)
	}
	if v, ok := d.Number("_score"); ok {
		return clamp01(math.Round(v/100*1000) / 1000)
	}
	if v, ok := d.Number("relevance"); ok {
		return clamp01(v)
	}
	return caserecord.DefaultRelevance
}

// rawScore is the upstream engine score as reported, for explainers.
func rawScore(d rawdoc.Document) string {
	if s, ok := d.Text("_score"); ok {
		return s
	}
	return "N/A"
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

package terms

import (
	"log/slog"
	"math"
	"sort"
)

// BM25Params are the two tunable knobs of Okapi BM25: k1 controls term
// frequency saturation, b controls length normalization.
type BM25Params struct {
	K1 float64
	B  float64
}

// DefaultBM25Params matches the usual textbook defaults.
var DefaultBM25Params = BM25Params{K1: 1.2, B: 0.75}

// DocStats is the per-document frequency information BM25 needs: total
// token count and, for the terms under consideration, how many times each
// occurs in this doc.
type DocStats struct {
	Length    int
	TermFreqs map[int32]int // global term id -> frequency in this doc
}

// Corpus is the caller-supplied frequency table BM25 scores against: how
// many docs there are, the total token count across the corpus (for the
// average doc length), how many docs contain each term (for IDF), and each
// candidate doc's stats. The global terms
// service does not collect this itself — it only numbers terms — so
// scoring is a thin ranker layered on top, fed by whatever collected the
// frequencies (typically a completed span query's hit counts per doc).
type Corpus struct {
	TotalDocs  int
	TotalTerms int
	DocFreq    map[int32]int // global term id -> number of docs containing it
	Docs       map[int]DocStats
}

// Match is one scored document.
type Match struct {
	Doc   int
	Score float64
}

// idf is the BM25 inverse document frequency for term, smoothed to avoid
// negative scores for terms occurring in more than half the corpus.
func (c Corpus) idf(term int32) float64 {
	df := float64(c.DocFreq[term])
	if df == 0 {
		return 0
	}
	n := float64(c.TotalDocs)
	return math.Log((n-df+0.5)/(df+0.5) + 1.0)
}

// ScoreBM25 computes one document's BM25 score for queryTerms (global term
// ids), mirroring the teacher's calculateBM25Score: an IDF-weighted,
// length-normalized sum of per-term frequencies.
func (c Corpus) ScoreBM25(doc int, queryTerms []int32, params BM25Params) float64 {
	stats, ok := c.Docs[doc]
	if !ok || c.TotalDocs == 0 {
		return 0
	}
	avgDocLen := float64(c.TotalTerms) / float64(c.TotalDocs)
	docLen := float64(stats.Length)

	score := 0.0
	for _, term := range queryTerms {
		tf := float64(stats.TermFreqs[term])
		if tf == 0 {
			continue
		}
		idf := c.idf(term)
		numerator := tf * (params.K1 + 1)
		denominator := tf + params.K1*(1-params.B+params.B*(docLen/avgDocLen))
		score += idf * (numerator / denominator)
	}
	return score
}

// RankBM25 scores every doc with at least one occurrence of any query term
// and returns the top maxResults, highest score first.
func RankBM25(c Corpus, queryTerms []int32, params BM25Params, maxResults int) []Match {
	slog.Info("BM25 ranking", slog.Int("numQueryTerms", len(queryTerms)))

	var matches []Match
	for doc := range c.Docs {
		score := c.ScoreBM25(doc, queryTerms, params)
		if score > 0 {
			matches = append(matches, Match{Doc: doc, Score: score})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if maxResults >= 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

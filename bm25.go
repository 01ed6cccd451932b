package distill

import "math"

// BM25 tuning constants.
const (
	BM25K1 = 1.5
	BM25B  = 0.75
)

// Tokenizer turns text into comparable terms. Queries and documents must be
// tokenized by the same Tokenizer for BM25 scores to be meaningful.
type Tokenizer interface {
	Tokenize(text string) []string
}

// BM25Scores scores every document in corpus against query using Okapi BM25
// with k1 = 1.5, b = 0.75 and idf = ln((N - df + 0.5) / (df + 0.5) + 1).
// Repeated query terms contribute once per occurrence.
func BM25Scores(corpus [][]string, query []string) []float64 {
	scores := make([]float64, len(corpus))
	if len(corpus) == 0 {
		return scores
	}

	n := float64(len(corpus))
	termFreqs := make([]map[string]int, len(corpus))
	var total int
	for i, doc := range corpus {
		tf := make(map[string]int, len(doc))
		for _, term := range doc {
			tf[term]++
		}
		termFreqs[i] = tf
		total += len(doc)
	}
	avgdl := float64(total) / n
	if avgdl == 0 {
		return scores
	}

	for _, term := range query {
		var df float64
		for _, tf := range termFreqs {
			if tf[term] > 0 {
				df++
			}
		}
		idf := math.Log((n-df+0.5)/(df+0.5) + 1)

		for i, tf := range termFreqs {
			freq := float64(tf[term])
			if freq == 0 {
				continue
			}
			docLen := float64(len(corpus[i]))
			scores[i] += idf * (freq * (BM25K1 + 1)) / (freq + BM25K1*(1-BM25B+BM25B*docLen/avgdl))
		}
	}
	return scores
}

var tagPriorities = map[string]float64{
	"h1":         5.0,
	"h2":         4.0,
	"h3":         3.0,
	"title":      4.0,
	"strong":     2.0,
	"b":          1.5,
	"em":         1.5,
	"blockquote": 2.0,
	"code":       2.0,
	"pre":        1.5,
	"th":         1.5,
}

// TagPriority returns the multiplier applied to the BM25 score of a chunk
// whose source element has the given tag name.
func TagPriority(tag string) float64 {
	if p, ok := tagPriorities[tag]; ok {
		return p
	}
	return 1.0
}

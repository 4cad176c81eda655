// Package similarity implements pairwise TF-IDF vectorization and cosine
// similarity over exactly two text strings.
//
// The vocabulary is rebuilt for every pair rather than shared across a
// corpus: IDF values are computed over the two-document mini-corpus, so
// terms unique to one side are the discriminating signal. This keeps every
// call a pure function with no shared state, at the cost of re-tokenizing
// per comparison.
package similarity

import (
	"regexp"
	"sort"
	"strings"
)

// MaxVocabulary caps the shared vocabulary of a pair at the most frequent
// terms; ties are broken alphabetically.
const MaxVocabulary = 5000

// tokenPattern matches runs of two or more word characters; single-character
// tokens carry no lexical signal and are discarded.
var tokenPattern = regexp.MustCompile(`\w\w+`)

// Tokenize lowercases text and splits it into non-stopword tokens.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, t := range raw {
		if !IsStopword(t) {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// termCounts returns raw term frequencies for a token list.
func termCounts(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// VectorizePair builds L2-normalized TF-IDF vectors for two documents over a
// vocabulary derived from those two documents alone.
//
// IDF uses the smoothed formula ln((1+n)/(1+df))+1 with n=2, so terms shared
// by both sides are downweighted relative to terms unique to one. When the
// vocabulary exceeds MaxVocabulary, only the most frequent terms across the
// pair are kept.
//
// ok is false when either document yields no tokens after stopword removal,
// meaning no comparable signal exists; callers must treat that as undefined
// rather than as zero similarity.
func VectorizePair(a, b string) (va, vb Vector, ok bool) {
	tokensA := Tokenize(a)
	tokensB := Tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return nil, nil, false
	}

	tfA := termCounts(tokensA)
	tfB := termCounts(tokensB)

	vocab := buildVocabulary(tfA, tfB)

	va = weigh(tfA, tfB, vocab)
	vb = weigh(tfB, tfA, vocab)
	if len(va) == 0 || len(vb) == 0 {
		return nil, nil, false
	}
	return va, vb, true
}

// buildVocabulary returns the shared term set of the pair, capped at
// MaxVocabulary by descending total frequency, alphabetical on ties.
func buildVocabulary(tfA, tfB map[string]float64) map[string]bool {
	total := make(map[string]float64, len(tfA)+len(tfB))
	for term, n := range tfA {
		total[term] += n
	}
	for term, n := range tfB {
		total[term] += n
	}

	vocab := make(map[string]bool, len(total))
	if len(total) <= MaxVocabulary {
		for term := range total {
			vocab[term] = true
		}
		return vocab
	}

	terms := make([]string, 0, len(total))
	for term := range total {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if total[terms[i]] != total[terms[j]] {
			return total[terms[i]] > total[terms[j]]
		}
		return terms[i] < terms[j]
	})
	for _, term := range terms[:MaxVocabulary] {
		vocab[term] = true
	}
	return vocab
}

// idfOnePresent and idfBothPresent are the smoothed two-document IDF values
// ln((1+2)/(1+df))+1 for df of 1 and 2.
const (
	idfOnePresent  = 1.4054651081081644 // ln(3/2)+1
	idfBothPresent = 1.0                // ln(3/3)+1
)

// weigh builds the L2-normalized TF-IDF vector for the document with term
// counts tf, given the other document's counts and the shared vocabulary.
func weigh(tf, other map[string]float64, vocab map[string]bool) Vector {
	weights := make(map[string]float64, len(tf))
	for term, freq := range tf {
		if !vocab[term] {
			continue
		}
		idf := idfOnePresent
		if other[term] > 0 {
			idf = idfBothPresent
		}
		weights[term] = freq * idf
	}
	v := newVector(weights)
	if norm := v.Norm(); norm > 0 {
		for i := range v {
			v[i].Weight /= norm
		}
	}
	return v
}

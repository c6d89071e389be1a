// Package neural implements the gradient-trained detection family: an
// attention-pooling network and an Elman recurrent network, both over
// learned token embeddings backed by gonum matrices. Training is bounded:
// exceeding the configured wall-clock budget aborts with a typed
// RESOURCE_EXHAUSTED error the caller can recover from.
package neural

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
	"hatebench/internal/errors"
	"hatebench/internal/vectorize"
)

// Config carries the options shared by both neural detectors.
type Config struct {
	Seed         int64
	Epochs       int
	EmbedDim     int
	LearningRate float64
	MaxVocab     int
	MaxSeqLen    int
	TrainBudget  time.Duration // 0 disables the ceiling
}

// ConfigFromParams extracts the options with family defaults. The default
// budget comes from configuration, passed by the registry at registration.
func ConfigFromParams(p detect.Params, defaultBudget time.Duration) Config {
	budget := defaultBudget
	if ms := p.Int64("train_budget_ms", -1); ms >= 0 {
		budget = time.Duration(ms) * time.Millisecond
	}
	return Config{
		Seed:         p.Int64("seed", 42),
		Epochs:       p.Int("epochs", 5),
		EmbedDim:     p.Int("embed_dim", 16),
		LearningRate: p.Float("learning_rate", 0.05),
		MaxVocab:     p.Int("max_vocab", 2000),
		MaxSeqLen:    p.Int("max_seq_len", 64),
		TrainBudget:  budget,
	}
}

// vocabulary maps tokens to embedding rows, sized from train frequency
// with deterministic tie-breaks. Index 0 is the unknown token.
type vocabulary struct {
	index map[string]int
	size  int
}

func buildVocabulary(train []corpus.Sample, maxVocab int) *vocabulary {
	freq := make(map[string]int)
	for _, s := range train {
		for _, tok := range vectorize.Tokenize(s.Text) {
			freq[tok]++
		}
	}
	type tf struct {
		term string
		n    int
	}
	terms := make([]tf, 0, len(freq))
	for term, n := range freq {
		terms = append(terms, tf{term, n})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].n != terms[j].n {
			return terms[i].n > terms[j].n
		}
		return terms[i].term < terms[j].term
	})
	if maxVocab > 0 && len(terms) > maxVocab {
		terms = terms[:maxVocab]
	}
	v := &vocabulary{index: make(map[string]int, len(terms)), size: len(terms) + 1}
	for i, t := range terms {
		v.index[t.term] = i + 1
	}
	return v
}

// encode maps a text to embedding-row indices, capped at maxLen. Unknown
// tokens map to row 0.
func (v *vocabulary) encode(text string, maxLen int) []int {
	toks := vectorize.Tokenize(text)
	if maxLen > 0 && len(toks) > maxLen {
		toks = toks[:maxLen]
	}
	out := make([]int, len(toks))
	for i, tok := range toks {
		out[i] = v.index[tok]
	}
	return out
}

// randomDense initializes a matrix with small seeded Gaussian weights.
func randomDense(rows, cols int, scale float64, rng *rand.Rand) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.NormFloat64() * scale
	}
	return mat.NewDense(rows, cols, data)
}

// trainBudget tracks the wall-clock ceiling for one Fit call.
type trainBudget struct {
	deadline time.Time
	bounded  bool
}

func startBudget(d time.Duration) trainBudget {
	if d <= 0 {
		return trainBudget{}
	}
	return trainBudget{deadline: time.Now().Add(d), bounded: true}
}

// check returns a typed RESOURCE_EXHAUSTED error once the ceiling passed.
func (b trainBudget) check(epoch, epochs int) error {
	if b.bounded && time.Now().After(b.deadline) {
		return errors.ResourceExhausted(
			fmt.Sprintf("training budget exhausted after %d/%d epochs", epoch, epochs))
	}
	return nil
}

func softmax(s []float64) []float64 {
	max := s[0]
	for _, v := range s[1:] {
		if v > max {
			max = v
		}
	}
	sum := 0.0
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = math.Exp(v - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// trainCategories returns the sorted categories observed in the train split.
func trainCategories(train []corpus.Sample) []string {
	seen := make(map[string]bool)
	for _, s := range train {
		for tag := range s.Labels {
			seen[tag] = true
		}
	}
	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

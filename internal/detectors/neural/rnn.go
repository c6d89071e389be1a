package neural

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
	"hatebench/internal/errors"
)

// RNN is an Elman recurrent classifier: learned token embeddings fed
// through a tanh recurrent cell, with a per-category sigmoid readout of
// the final hidden state. Trained by truncated backpropagation through
// time over the capped sequence.
type RNN struct {
	cfg        Config
	vocab      *vocabulary
	categories []string

	embed *mat.Dense // vocab x d
	wIn   *mat.Dense // hidden x d
	wRec  *mat.Dense // hidden x hidden
	bHid  []float64  // hidden
	out   *mat.Dense // categories x hidden
	bias  []float64  // categories
}

// NewRNN builds an unfitted recurrent detector. The embedding dimension
// doubles as the hidden size.
func NewRNN(cfg Config) *RNN {
	return &RNN{cfg: cfg}
}

// Fit trains the network on the train split, bounded by the configured
// wall-clock budget.
func (d *RNN) Fit(ctx context.Context, train []corpus.Sample) error {
	d.vocab = buildVocabulary(train, d.cfg.MaxVocab)
	d.categories = trainCategories(train)
	rng := rand.New(rand.NewSource(d.cfg.Seed))

	dim := d.cfg.EmbedDim
	d.embed = randomDense(d.vocab.size, dim, 0.1, rng)
	d.wIn = randomDense(dim, dim, 0.1, rng)
	d.wRec = randomDense(dim, dim, 0.1, rng)
	d.out = randomDense(len(d.categories), dim, 0.1, rng)
	d.bHid = make([]float64, dim)
	d.bias = make([]float64, len(d.categories))

	docs := make([][]int, len(train))
	targets := make([][]float64, len(train))
	for i, s := range train {
		docs[i] = d.vocab.encode(s.Text, d.cfg.MaxSeqLen)
		targets[i] = make([]float64, len(d.categories))
		for c, category := range d.categories {
			if s.Labels.Has(category) {
				targets[i][c] = 1
			}
		}
	}

	budget := startBudget(d.cfg.TrainBudget)
	order := rng.Perm(len(docs))
	for epoch := 0; epoch < d.cfg.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for step, idx := range order {
			if step%64 == 0 {
				if err := ctx.Err(); err != nil {
					return errors.Wrap(err, "rnn training aborted")
				}
				if err := budget.check(epoch, d.cfg.Epochs); err != nil {
					return err
				}
			}
			d.step(docs[idx], targets[idx])
		}
		if err := budget.check(epoch+1, d.cfg.Epochs); err != nil {
			return err
		}
	}
	return nil
}

// forward unrolls the cell, returning all hidden states (states[0] is the
// zero initial state).
func (d *RNN) forward(doc []int) [][]float64 {
	dim := d.cfg.EmbedDim
	states := make([][]float64, len(doc)+1)
	states[0] = make([]float64, dim)
	for t, tok := range doc {
		x := d.embed.RawRowView(tok)
		h := make([]float64, dim)
		for i := 0; i < dim; i++ {
			pre := d.bHid[i] + floats.Dot(d.wIn.RawRowView(i), x) + floats.Dot(d.wRec.RawRowView(i), states[t])
			h[i] = math.Tanh(pre)
		}
		states[t+1] = h
	}
	return states
}

// step runs one forward/backward pass and applies the SGD update.
func (d *RNN) step(doc []int, target []float64) {
	if len(doc) == 0 {
		return
	}
	dim := d.cfg.EmbedDim
	lr := d.cfg.LearningRate

	states := d.forward(doc)
	last := states[len(states)-1]

	// Readout gradient.
	dh := make([]float64, dim)
	for c := range d.categories {
		row := d.out.RawRowView(c)
		dlogit := sigmoid(floats.Dot(row, last)+d.bias[c]) - target[c]
		floats.AddScaled(dh, dlogit, row)
		floats.AddScaled(row, -lr*dlogit, last)
		d.bias[c] -= lr * dlogit
	}

	// Backpropagation through time.
	for t := len(doc) - 1; t >= 0; t-- {
		h := states[t+1]
		prev := states[t]
		x := d.embed.RawRowView(doc[t])

		dpre := make([]float64, dim)
		for i := 0; i < dim; i++ {
			dpre[i] = dh[i] * (1 - h[i]*h[i])
		}

		dhPrev := make([]float64, dim)
		dx := make([]float64, dim)
		for i := 0; i < dim; i++ {
			floats.AddScaled(dhPrev, dpre[i], d.wRec.RawRowView(i))
			floats.AddScaled(dx, dpre[i], d.wIn.RawRowView(i))
		}
		for i := 0; i < dim; i++ {
			floats.AddScaled(d.wIn.RawRowView(i), -lr*dpre[i], x)
			floats.AddScaled(d.wRec.RawRowView(i), -lr*dpre[i], prev)
			d.bHid[i] -= lr * dpre[i]
		}
		floats.AddScaled(x, -lr, dx)
		dh = dhPrev
	}
}

// Predict assigns every category with posterior above one half.
func (d *RNN) Predict(ctx context.Context, texts []string) ([]detect.LabelSet, error) {
	scores, err := d.PredictProba(ctx, texts)
	if err != nil {
		return nil, err
	}
	out := make([]detect.LabelSet, len(texts))
	for i, sc := range scores {
		labels := detect.NewLabelSet()
		for category, p := range sc {
			if p > 0.5 {
				labels = labels.Add(category)
			}
		}
		out[i] = labels
	}
	return out, nil
}

// PredictProba returns per-category sigmoid readouts of the final state.
func (d *RNN) PredictProba(ctx context.Context, texts []string) ([]detect.Scores, error) {
	if d.embed == nil {
		return nil, errors.InternalError("rnn predict called before fit")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]detect.Scores, len(texts))
	for i, text := range texts {
		sc := make(detect.Scores, len(d.categories))
		doc := d.vocab.encode(corpus.NormalizeText(text), d.cfg.MaxSeqLen)
		if len(doc) == 0 {
			for _, category := range d.categories {
				sc[category] = 0
			}
			out[i] = sc
			continue
		}
		states := d.forward(doc)
		last := states[len(states)-1]
		for c, category := range d.categories {
			sc[category] = sigmoid(floats.Dot(d.out.RawRowView(c), last) + d.bias[c])
		}
		out[i] = sc
	}
	return out, nil
}

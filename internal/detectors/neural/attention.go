package neural

import (
	"context"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
	"hatebench/internal/errors"
)

// AttentionNet is a fine-tuned attention-pooling classifier: learned token
// embeddings, a scored softmax pooling over them, and a per-category
// sigmoid output layer. All parameters train jointly by SGD on binary
// cross-entropy.
type AttentionNet struct {
	cfg        Config
	vocab      *vocabulary
	categories []string

	embed *mat.Dense    // vocab x d
	query []float64     // d, attention scoring vector
	out   *mat.Dense    // categories x d
	bias  []float64     // categories
}

// NewAttention builds an unfitted attention-pooling detector.
func NewAttention(cfg Config) *AttentionNet {
	return &AttentionNet{cfg: cfg}
}

// Fit trains embeddings, attention and output layer on the train split,
// bounded by the configured wall-clock budget.
func (d *AttentionNet) Fit(ctx context.Context, train []corpus.Sample) error {
	d.vocab = buildVocabulary(train, d.cfg.MaxVocab)
	d.categories = trainCategories(train)
	rng := rand.New(rand.NewSource(d.cfg.Seed))

	dim := d.cfg.EmbedDim
	d.embed = randomDense(d.vocab.size, dim, 0.1, rng)
	d.out = randomDense(len(d.categories), dim, 0.1, rng)
	d.query = make([]float64, dim)
	for i := range d.query {
		d.query[i] = rng.NormFloat64() * 0.1
	}
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
					return errors.Wrap(err, "attention training aborted")
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

// step runs one forward/backward pass and applies the SGD update.
func (d *AttentionNet) step(doc []int, target []float64) {
	if len(doc) == 0 {
		return
	}
	dim := d.cfg.EmbedDim
	lr := d.cfg.LearningRate

	h, alpha := d.pool(doc)

	// Output layer: p_c = sigmoid(out_c . h + bias_c).
	dh := make([]float64, dim)
	for c := range d.categories {
		row := d.out.RawRowView(c)
		dlogit := sigmoid(floats.Dot(row, h)+d.bias[c]) - target[c]
		floats.AddScaled(dh, dlogit, row)
		floats.AddScaled(row, -lr*dlogit, h)
		d.bias[c] -= lr * dlogit
	}

	// Attention pooling backward: h = sum_t alpha_t e_t,
	// alpha = softmax(query . e_t).
	dAlpha := make([]float64, len(doc))
	weighted := 0.0
	for t, tok := range doc {
		dAlpha[t] = floats.Dot(dh, d.embed.RawRowView(tok))
		weighted += alpha[t] * dAlpha[t]
	}
	dQuery := make([]float64, dim)
	for t, tok := range doc {
		e := d.embed.RawRowView(tok)
		ds := alpha[t] * (dAlpha[t] - weighted)
		floats.AddScaled(dQuery, ds, e)

		// de_t = alpha_t * dh + ds_t * query
		grad := make([]float64, dim)
		floats.AddScaled(grad, alpha[t], dh)
		floats.AddScaled(grad, ds, d.query)
		floats.AddScaled(e, -lr, grad)
	}
	floats.AddScaled(d.query, -lr, dQuery)
}

// pool computes the attention-weighted document vector and the weights.
func (d *AttentionNet) pool(doc []int) (h, alpha []float64) {
	scores := make([]float64, len(doc))
	for t, tok := range doc {
		scores[t] = floats.Dot(d.query, d.embed.RawRowView(tok))
	}
	alpha = softmax(scores)
	h = make([]float64, d.cfg.EmbedDim)
	for t, tok := range doc {
		floats.AddScaled(h, alpha[t], d.embed.RawRowView(tok))
	}
	return h, alpha
}

// Predict assigns every category with posterior above one half.
func (d *AttentionNet) Predict(ctx context.Context, texts []string) ([]detect.LabelSet, error) {
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

// PredictProba returns per-category sigmoid outputs.
func (d *AttentionNet) PredictProba(ctx context.Context, texts []string) ([]detect.Scores, error) {
	if d.embed == nil {
		return nil, errors.InternalError("attention predict called before fit")
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
		h, _ := d.pool(doc)
		for c, category := range d.categories {
			sc[category] = sigmoid(floats.Dot(d.out.RawRowView(c), h) + d.bias[c])
		}
		out[i] = sc
	}
	return out, nil
}

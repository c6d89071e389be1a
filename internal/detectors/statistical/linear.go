package statistical

import (
	"context"
	"math/rand"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
	"hatebench/internal/errors"
	"hatebench/internal/vectorize"
)

type lossKind int

const (
	lossHinge lossKind = iota
	lossLogistic
)

// linearOptions are the SGD solver knobs.
type linearOptions struct {
	Epochs       int
	LearningRate float64
	L2           float64
}

func linearOptionsFromParams(p detect.Params) linearOptions {
	return linearOptions{
		Epochs:       p.Int("epochs", 20),
		LearningRate: p.Float("learning_rate", 0.1),
		L2:           p.Float("l2", 1e-4),
	}
}

// binaryLinear is one SGD-trained linear model: hinge loss gives a linear
// SVM, logistic loss gives logistic regression.
type binaryLinear struct {
	weights vectorize.Vector
	bias    float64
}

func (m *binaryLinear) margin(x vectorize.Vector) float64 {
	return m.weights.Dot(x) + m.bias
}

// Linear is the shared detector behind stat_svm and stat_logreg: one
// binary linear model per category over shared TF-IDF vectors, trained by
// seeded SGD so identical params reproduce identical weights.
type Linear struct {
	cfg        Config
	opts       linearOptions
	loss       lossKind
	vec        *vectorize.TFIDF
	categories []string
	models     map[string]*binaryLinear
}

// NewSVMFromParams builds an unfitted hinge-loss linear detector.
func NewSVMFromParams(p detect.Params) *Linear {
	return &Linear{cfg: ConfigFromParams(p), opts: linearOptionsFromParams(p), loss: lossHinge}
}

// NewLogRegFromParams builds an unfitted logistic-loss linear detector.
func NewLogRegFromParams(p detect.Params) *Linear {
	return &Linear{cfg: ConfigFromParams(p), opts: linearOptionsFromParams(p), loss: lossLogistic}
}

// Fit vectorizes the train split and trains one model per category.
func (d *Linear) Fit(ctx context.Context, train []corpus.Sample) error {
	d.vec = vectorize.NewTFIDF(d.cfg.MaxFeatures, d.cfg.MinDF)
	if err := d.vec.Fit(trainTexts(train)); err != nil {
		return err
	}
	vectors := d.vec.VectorizeAll(trainTexts(train))
	d.categories = trainCategories(train)
	d.models = make(map[string]*binaryLinear, len(d.categories))
	for ci, category := range d.categories {
		if err := ctx.Err(); err != nil {
			return err
		}
		// One RNG stream per category keeps epoch shuffles independent
		// yet fully determined by the seed.
		rng := rand.New(rand.NewSource(d.cfg.Seed + int64(ci)))
		d.models[category] = d.train(vectors, binaryTargets(train, category), rng)
	}
	return nil
}

func (d *Linear) train(vectors []vectorize.Vector, targets []bool, rng *rand.Rand) *binaryLinear {
	m := &binaryLinear{weights: make(vectorize.Vector)}
	order := make([]int, len(vectors))
	for i := range order {
		order[i] = i
	}
	lr := d.opts.LearningRate
	for epoch := 0; epoch < d.opts.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, idx := range order {
			x := vectors[idx]
			y := -1.0
			if targets[idx] {
				y = 1.0
			}
			margin := m.margin(x)

			var grad float64 // multiplier on y*x
			switch d.loss {
			case lossHinge:
				if y*margin < 1 {
					grad = 1
				}
			case lossLogistic:
				grad = sigmoid(-y * margin)
			}

			// L2 shrink applied to touched features only keeps the
			// update sparse.
			for f, v := range x {
				m.weights[f] -= lr * d.opts.L2 * m.weights[f]
				if grad != 0 {
					m.weights[f] += lr * grad * y * v
				}
			}
			if grad != 0 {
				m.bias += lr * grad * y
			}
		}
	}
	return m
}

// Predict assigns every category with a positive margin.
func (d *Linear) Predict(ctx context.Context, texts []string) ([]detect.LabelSet, error) {
	if d.models == nil {
		return nil, errors.InternalError("linear predict called before fit")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]detect.LabelSet, len(texts))
	for i, text := range texts {
		x := d.vec.Vectorize(text)
		labels := detect.NewLabelSet()
		for _, category := range d.categories {
			if d.models[category].margin(x) > 0 {
				labels = labels.Add(category)
			}
		}
		out[i] = labels
	}
	return out, nil
}

// PredictProba squashes margins through a sigmoid. For the logistic loss
// this is the modeled probability; for the hinge loss it is a monotone
// score usable for ranking metrics.
func (d *Linear) PredictProba(ctx context.Context, texts []string) ([]detect.Scores, error) {
	if d.models == nil {
		return nil, errors.InternalError("linear predict called before fit")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]detect.Scores, len(texts))
	for i, text := range texts {
		x := d.vec.Vectorize(text)
		sc := make(detect.Scores, len(d.categories))
		for _, category := range d.categories {
			sc[category] = sigmoid(d.models[category].margin(x))
		}
		out[i] = sc
	}
	return out, nil
}

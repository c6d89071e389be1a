package statistical

import (
	"context"
	"math"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
	"hatebench/internal/errors"
	"hatebench/internal/vectorize"
)

// nbModel is a binary multinomial Naive Bayes model for one category.
type nbModel struct {
	logPriorPos float64
	logPriorNeg float64
	logLikePos  []float64 // per feature, Laplace-smoothed
	logLikeNeg  []float64
}

// NaiveBayes classifies with one multinomial NB model per category over
// shared TF-IDF term counts.
type NaiveBayes struct {
	cfg        Config
	alpha      float64
	vec        *vectorize.TFIDF
	categories []string
	models     map[string]*nbModel
}

// NewNaiveBayes builds an unfitted detector. alpha is the Laplace
// smoothing constant.
func NewNaiveBayes(cfg Config, alpha float64) *NaiveBayes {
	if alpha <= 0 {
		alpha = 1.0
	}
	return &NaiveBayes{cfg: cfg, alpha: alpha}
}

// Fit learns vocabulary and class-conditional token frequencies from the
// train split.
func (d *NaiveBayes) Fit(ctx context.Context, train []corpus.Sample) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.vec = vectorize.NewTFIDF(d.cfg.MaxFeatures, d.cfg.MinDF)
	if err := d.vec.Fit(trainTexts(train)); err != nil {
		return err
	}
	counts := d.tokenCounts(trainTexts(train))
	d.categories = trainCategories(train)
	d.models = make(map[string]*nbModel, len(d.categories))
	for _, category := range d.categories {
		d.models[category] = d.fitBinary(counts, binaryTargets(train, category))
	}
	return nil
}

// tokenCounts maps each document to raw in-vocabulary token counts.
func (d *NaiveBayes) tokenCounts(docs []string) []map[int]float64 {
	out := make([]map[int]float64, len(docs))
	for i, doc := range docs {
		c := make(map[int]float64)
		for _, tok := range vectorize.Tokenize(doc) {
			if idx, ok := d.vec.Index(tok); ok {
				c[idx]++
			}
		}
		out[i] = c
	}
	return out
}

func (d *NaiveBayes) fitBinary(counts []map[int]float64, targets []bool) *nbModel {
	nFeatures := d.vec.NumFeatures()
	posTotal, negTotal := d.alpha*float64(nFeatures), d.alpha*float64(nFeatures)
	posCount, negCount := 0, 0
	posFeat := make([]float64, nFeatures)
	negFeat := make([]float64, nFeatures)
	for i := range posFeat {
		posFeat[i] = d.alpha
		negFeat[i] = d.alpha
	}

	for i, c := range counts {
		for idx, n := range c {
			if targets[i] {
				posFeat[idx] += n
				posTotal += n
			} else {
				negFeat[idx] += n
				negTotal += n
			}
		}
		if targets[i] {
			posCount++
		} else {
			negCount++
		}
	}

	n := float64(len(counts))
	m := &nbModel{
		logPriorPos: math.Log((float64(posCount) + 1) / (n + 2)),
		logPriorNeg: math.Log((float64(negCount) + 1) / (n + 2)),
		logLikePos:  make([]float64, nFeatures),
		logLikeNeg:  make([]float64, nFeatures),
	}
	for i := 0; i < nFeatures; i++ {
		m.logLikePos[i] = math.Log(posFeat[i] / posTotal)
		m.logLikeNeg[i] = math.Log(negFeat[i] / negTotal)
	}
	return m
}

// logOdds is the posterior log-odds of the positive class for one document.
func (m *nbModel) logOdds(counts map[int]float64) float64 {
	lo := m.logPriorPos - m.logPriorNeg
	for idx, n := range counts {
		lo += n * (m.logLikePos[idx] - m.logLikeNeg[idx])
	}
	return lo
}

// Predict assigns every category whose posterior favors the positive class.
func (d *NaiveBayes) Predict(ctx context.Context, texts []string) ([]detect.LabelSet, error) {
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

// PredictProba returns calibrated posteriors per category.
func (d *NaiveBayes) PredictProba(ctx context.Context, texts []string) ([]detect.Scores, error) {
	if d.models == nil {
		return nil, errors.InternalError("naive bayes predict called before fit")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	counts := d.tokenCounts(texts)
	out := make([]detect.Scores, len(texts))
	for i, c := range counts {
		sc := make(detect.Scores, len(d.categories))
		for _, category := range d.categories {
			sc[category] = sigmoid(d.models[category].logOdds(c))
		}
		out[i] = sc
	}
	return out, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

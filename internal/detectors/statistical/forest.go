package statistical

import (
	"context"
	"math"
	"math/rand"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
	"hatebench/internal/errors"
	"hatebench/internal/vectorize"
)

// forestOptions are the random-forest knobs.
type forestOptions struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
}

func forestOptionsFromParams(p detect.Params) forestOptions {
	return forestOptions{
		Trees:    p.Int("trees", 50),
		MaxDepth: p.Int("max_depth", 8),
		MinLeaf:  p.Int("min_leaf", 2),
	}
}

// treeNode splits on term presence (tf-idf weight > 0). Leaves carry the
// positive fraction of their training samples.
type treeNode struct {
	feature  int
	present  *treeNode
	absent   *treeNode
	leaf     bool
	posRatio float64
}

// Forest is a random forest of presence-split decision trees over shared
// TF-IDF vectors, one forest per category. Bootstrap sampling and feature
// subsampling both draw from seeded sources.
type Forest struct {
	cfg        Config
	opts       forestOptions
	vec        *vectorize.TFIDF
	categories []string
	forests    map[string][]*treeNode
}

// NewForestFromParams builds an unfitted random-forest detector.
func NewForestFromParams(p detect.Params) *Forest {
	return &Forest{cfg: ConfigFromParams(p), opts: forestOptionsFromParams(p)}
}

// Fit vectorizes the train split and grows one forest per category.
func (d *Forest) Fit(ctx context.Context, train []corpus.Sample) error {
	d.vec = vectorize.NewTFIDF(d.cfg.MaxFeatures, d.cfg.MinDF)
	if err := d.vec.Fit(trainTexts(train)); err != nil {
		return err
	}
	vectors := d.vec.VectorizeAll(trainTexts(train))
	d.categories = trainCategories(train)
	d.forests = make(map[string][]*treeNode, len(d.categories))
	for ci, category := range d.categories {
		targets := binaryTargets(train, category)
		trees := make([]*treeNode, d.opts.Trees)
		for ti := range trees {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(d.cfg.Seed + int64(ci)*10_007 + int64(ti)))
			trees[ti] = d.growTree(bootstrap(len(vectors), rng), vectors, targets, 0, rng)
		}
		d.forests[category] = trees
	}
	return nil
}

func bootstrap(n int, rng *rand.Rand) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = rng.Intn(n)
	}
	return out
}

func (d *Forest) growTree(idx []int, vectors []vectorize.Vector, targets []bool, depth int, rng *rand.Rand) *treeNode {
	pos := 0
	for _, i := range idx {
		if targets[i] {
			pos++
		}
	}
	ratio := 0.0
	if len(idx) > 0 {
		ratio = float64(pos) / float64(len(idx))
	}
	if depth >= d.opts.MaxDepth || len(idx) < 2*d.opts.MinLeaf || pos == 0 || pos == len(idx) {
		return &treeNode{leaf: true, posRatio: ratio}
	}

	feature, ok := d.bestSplit(idx, vectors, targets, rng)
	if !ok {
		return &treeNode{leaf: true, posRatio: ratio}
	}

	var withF, withoutF []int
	for _, i := range idx {
		if vectors[i][feature] > 0 {
			withF = append(withF, i)
		} else {
			withoutF = append(withoutF, i)
		}
	}
	if len(withF) < d.opts.MinLeaf || len(withoutF) < d.opts.MinLeaf {
		return &treeNode{leaf: true, posRatio: ratio}
	}
	return &treeNode{
		feature: feature,
		present: d.growTree(withF, vectors, targets, depth+1, rng),
		absent:  d.growTree(withoutF, vectors, targets, depth+1, rng),
	}
}

// bestSplit picks the presence split with the lowest weighted Gini
// impurity over a random sqrt-sized feature subset.
func (d *Forest) bestSplit(idx []int, vectors []vectorize.Vector, targets []bool, rng *rand.Rand) (int, bool) {
	nFeatures := d.vec.NumFeatures()
	if nFeatures == 0 {
		return 0, false
	}
	k := int(math.Sqrt(float64(nFeatures)))
	if k < 1 {
		k = 1
	}

	bestFeature, bestGini, found := 0, math.Inf(1), false
	for t := 0; t < k; t++ {
		f := rng.Intn(nFeatures)
		var posWith, nWith, posWithout, nWithout int
		for _, i := range idx {
			if vectors[i][f] > 0 {
				nWith++
				if targets[i] {
					posWith++
				}
			} else {
				nWithout++
				if targets[i] {
					posWithout++
				}
			}
		}
		if nWith == 0 || nWithout == 0 {
			continue
		}
		g := weightedGini(posWith, nWith, posWithout, nWithout)
		if g < bestGini {
			bestGini, bestFeature, found = g, f, true
		}
	}
	return bestFeature, found
}

func weightedGini(posA, nA, posB, nB int) float64 {
	total := float64(nA + nB)
	return float64(nA)/total*gini(posA, nA) + float64(nB)/total*gini(posB, nB)
}

func gini(pos, n int) float64 {
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}

func (t *treeNode) predict(x vectorize.Vector) float64 {
	for !t.leaf {
		if x[t.feature] > 0 {
			t = t.present
		} else {
			t = t.absent
		}
	}
	return t.posRatio
}

// Predict assigns every category where the forest's mean positive ratio
// exceeds one half.
func (d *Forest) Predict(ctx context.Context, texts []string) ([]detect.LabelSet, error) {
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

// PredictProba returns the mean leaf positive ratio across trees.
func (d *Forest) PredictProba(ctx context.Context, texts []string) ([]detect.Scores, error) {
	if d.forests == nil {
		return nil, errors.InternalError("forest predict called before fit")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]detect.Scores, len(texts))
	for i, text := range texts {
		x := d.vec.Vectorize(text)
		sc := make(detect.Scores, len(d.categories))
		for _, category := range d.categories {
			sum := 0.0
			trees := d.forests[category]
			for _, tree := range trees {
				sum += tree.predict(x)
			}
			if len(trees) > 0 {
				sc[category] = sum / float64(len(trees))
			}
		}
		out[i] = sc
	}
	return out, nil
}

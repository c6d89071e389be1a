// Package detectors wires the nine benchmark methods into a method
// registry at startup.
package detectors

import (
	"strings"
	"time"

	"hatebench/domain/detect"
	"hatebench/internal/detectors/formal"
	"hatebench/internal/detectors/hybrid"
	"hatebench/internal/detectors/neural"
	"hatebench/internal/detectors/statistical"
	"hatebench/internal/registry"
	"hatebench/ports"
)

// Method identifiers.
const (
	FormalRegex    = "formal_regex"
	FormalNegation = "formal_negation"
	StatNB         = "stat_nb"
	StatSVM        = "stat_svm"
	StatLogReg     = "stat_logreg"
	StatForest     = "stat_randomforest"
	NeuralAttn     = "neural_attention"
	NeuralRNN      = "neural_rnn"
	HybridVoting   = "hybrid_voting"
)

// RegisterAll registers every benchmark method. Called once from main
// before the harness accepts traffic; the registry is read-only after.
func RegisterAll(r *registry.Registry, defaultTrainBudget time.Duration) {
	registerFormal(r)
	registerStatistical(r)
	registerNeural(r, defaultTrainBudget)
	registerHybrid(r)
}

func registerFormal(r *registry.Registry) {
	r.MustRegister(detect.Descriptor{
		Identifier: FormalRegex,
		Family:     detect.FamilyFormal,
		Doc:        "Regex rule table, one case-insensitive pattern per category.",
		Params: map[string]detect.ParamSpec{
			"rules": {Type: detect.ParamStringMap, Doc: "category -> pattern; defaults to the Polish hate table"},
		},
	}, func(p detect.Params) (ports.Detector, error) {
		return formal.NewRegex(p.StringMap("rules"))
	})

	r.MustRegister(detect.Descriptor{
		Identifier: FormalNegation,
		Family:     detect.FamilyFormal,
		Doc:        "Negation-aware token heuristic over a category lexicon.",
		Params: map[string]detect.ParamSpec{
			"terms":     {Type: detect.ParamStringMap, Doc: "category -> comma-separated stems"},
			"negations": {Type: detect.ParamString, Doc: "comma-separated negation tokens"},
			"window":    {Type: detect.ParamInt, Default: 3, Min: detect.MinOf(1), Max: detect.MaxOf(10)},
		},
	}, func(p detect.Params) (ports.Detector, error) {
		return formal.NewNegation(
			splitTermMap(p.StringMap("terms")),
			splitList(p.String("negations", "")),
			p.Int("window", 3),
		), nil
	})
}

// statParams is the option schema shared by the statistical family.
func statParams(extra map[string]detect.ParamSpec) map[string]detect.ParamSpec {
	out := map[string]detect.ParamSpec{
		"seed":         {Type: detect.ParamInt, Default: 42},
		"max_features": {Type: detect.ParamInt, Default: 2000, Min: detect.MinOf(1)},
		"min_df":       {Type: detect.ParamInt, Default: 1, Min: detect.MinOf(1)},
	}
	for name, spec := range extra {
		out[name] = spec
	}
	return out
}

func sgdParams() map[string]detect.ParamSpec {
	return map[string]detect.ParamSpec{
		"epochs":        {Type: detect.ParamInt, Default: 20, Min: detect.MinOf(1), Max: detect.MaxOf(1000)},
		"learning_rate": {Type: detect.ParamFloat, Default: 0.1, Min: detect.MinOf(1e-6), Max: detect.MaxOf(10)},
		"l2":            {Type: detect.ParamFloat, Default: 1e-4, Min: detect.MinOf(0)},
	}
}

func registerStatistical(r *registry.Registry) {
	r.MustRegister(detect.Descriptor{
		Identifier: StatNB,
		Family:     detect.FamilyStatistical,
		Doc:        "Multinomial Naive Bayes over shared TF-IDF term counts.",
		Params: statParams(map[string]detect.ParamSpec{
			"alpha": {Type: detect.ParamFloat, Default: 1.0, Min: detect.MinOf(0.001)},
		}),
	}, func(p detect.Params) (ports.Detector, error) {
		return statistical.NewNaiveBayes(statistical.ConfigFromParams(p), p.Float("alpha", 1.0)), nil
	})

	r.MustRegister(detect.Descriptor{
		Identifier: StatSVM,
		Family:     detect.FamilyStatistical,
		Doc:        "Linear SVM (hinge loss, seeded SGD) over TF-IDF vectors.",
		Params:     statParams(sgdParams()),
	}, func(p detect.Params) (ports.Detector, error) {
		return statistical.NewSVMFromParams(p), nil
	})

	r.MustRegister(detect.Descriptor{
		Identifier: StatLogReg,
		Family:     detect.FamilyStatistical,
		Doc:        "Logistic regression (seeded SGD) over TF-IDF vectors.",
		Params:     statParams(sgdParams()),
	}, func(p detect.Params) (ports.Detector, error) {
		return statistical.NewLogRegFromParams(p), nil
	})

	r.MustRegister(detect.Descriptor{
		Identifier: StatForest,
		Family:     detect.FamilyStatistical,
		Doc:        "Random forest of presence-split trees over TF-IDF vectors.",
		Params: statParams(map[string]detect.ParamSpec{
			"trees":     {Type: detect.ParamInt, Default: 50, Min: detect.MinOf(1), Max: detect.MaxOf(500)},
			"max_depth": {Type: detect.ParamInt, Default: 8, Min: detect.MinOf(1), Max: detect.MaxOf(32)},
			"min_leaf":  {Type: detect.ParamInt, Default: 2, Min: detect.MinOf(1)},
		}),
	}, func(p detect.Params) (ports.Detector, error) {
		return statistical.NewForestFromParams(p), nil
	})
}

func neuralParams() map[string]detect.ParamSpec {
	return map[string]detect.ParamSpec{
		"seed":            {Type: detect.ParamInt, Default: 42},
		"epochs":          {Type: detect.ParamInt, Default: 5, Min: detect.MinOf(1), Max: detect.MaxOf(200)},
		"embed_dim":       {Type: detect.ParamInt, Default: 16, Min: detect.MinOf(2), Max: detect.MaxOf(256)},
		"learning_rate":   {Type: detect.ParamFloat, Default: 0.05, Min: detect.MinOf(1e-6), Max: detect.MaxOf(1)},
		"max_vocab":       {Type: detect.ParamInt, Default: 2000, Min: detect.MinOf(10)},
		"max_seq_len":     {Type: detect.ParamInt, Default: 64, Min: detect.MinOf(4), Max: detect.MaxOf(512)},
		"train_budget_ms": {Type: detect.ParamInt, Min: detect.MinOf(0), Doc: "wall-clock training ceiling; 0 disables"},
	}
}

func registerNeural(r *registry.Registry, defaultBudget time.Duration) {
	r.MustRegister(detect.Descriptor{
		Identifier: NeuralAttn,
		Family:     detect.FamilyNeural,
		Doc:        "Attention-pooling embedding classifier, SGD fine-tuned.",
		Params:     neuralParams(),
	}, func(p detect.Params) (ports.Detector, error) {
		return neural.NewAttention(neural.ConfigFromParams(p, defaultBudget)), nil
	})

	r.MustRegister(detect.Descriptor{
		Identifier: NeuralRNN,
		Family:     detect.FamilyNeural,
		Doc:        "Elman recurrent classifier over learned embeddings.",
		Params:     neuralParams(),
	}, func(p detect.Params) (ports.Detector, error) {
		return neural.NewRNN(neural.ConfigFromParams(p, defaultBudget)), nil
	})
}

func registerHybrid(r *registry.Registry) {
	r.MustRegister(detect.Descriptor{
		Identifier: HybridVoting,
		Family:     detect.FamilyHybrid,
		Doc:        "Majority vote of one formal and one statistical member; ties go to the statistical member.",
		Params: map[string]detect.ParamSpec{
			"formal_member": {
				Type:    detect.ParamString,
				Default: FormalRegex,
				Enum:    []string{FormalRegex, FormalNegation},
			},
			"stat_member": {
				Type:    detect.ParamString,
				Default: StatNB,
				Enum:    []string{StatNB, StatSVM, StatLogReg, StatForest},
			},
			"seed": {Type: detect.ParamInt, Default: 42},
		},
	}, func(p detect.Params) (ports.Detector, error) {
		formalMember, err := newFormalMember(p.String("formal_member", FormalRegex))
		if err != nil {
			return nil, err
		}
		statMember := newStatMember(p.String("stat_member", StatNB), p)
		return hybrid.NewVoting([]ports.Detector{formalMember}, []ports.Detector{statMember})
	})
}

func newFormalMember(identifier string) (ports.Detector, error) {
	switch identifier {
	case FormalNegation:
		return formal.NewNegation(nil, nil, 3), nil
	default:
		return formal.NewRegex(nil)
	}
}

func newStatMember(identifier string, p detect.Params) ports.Detector {
	switch identifier {
	case StatSVM:
		return statistical.NewSVMFromParams(p)
	case StatLogReg:
		return statistical.NewLogRegFromParams(p)
	case StatForest:
		return statistical.NewForestFromParams(p)
	default:
		return statistical.NewNaiveBayes(statistical.ConfigFromParams(p), 1.0)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func splitTermMap(m map[string]string) map[string][]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string][]string, len(m))
	for category, list := range m {
		out[category] = splitList(list)
	}
	return out
}

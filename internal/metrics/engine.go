// Package metrics computes the uniform quality report every benchmark run
// returns, whatever the detection method behind it.
package metrics

import (
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"hatebench/domain/detect"
	"hatebench/domain/metrics"
	"hatebench/internal/errors"
)

// Engine scores predictions against gold labels. Stateless and safe for
// concurrent use.
type Engine struct{}

// NewEngine creates a metrics engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score builds the report for one run. gold and predicted must be
// index-aligned; scores may be nil when the method yields none, in which
// case AUC is reported unavailable rather than fabricated. categories is
// the dataset vocabulary: every category is scored, including those the
// detector never predicts.
//
// An empty test split yields a report with explicitly undefined metrics,
// not a failure.
func (e *Engine) Score(gold, predicted []detect.LabelSet, scores []detect.Scores, categories []string) (*metrics.Report, error) {
	if len(gold) != len(predicted) {
		return nil, errors.InvalidInput("gold and predicted lengths differ")
	}
	if scores != nil && len(scores) != len(gold) {
		return nil, errors.InvalidInput("gold and scores lengths differ")
	}

	report := &metrics.Report{
		SampleCount: len(gold),
		PerCategory: make(map[string]metrics.CategoryScore, len(categories)),
	}

	sorted := append([]string(nil), categories...)
	sort.Strings(sorted)
	for _, category := range sorted {
		report.PerCategory[category] = e.scoreCategory(category, gold, predicted, scores)
	}

	report.Precision = macro(report.PerCategory, sorted, func(c metrics.CategoryScore) metrics.Value { return c.Precision })
	report.Recall = macro(report.PerCategory, sorted, func(c metrics.CategoryScore) metrics.Value { return c.Recall })
	report.F1 = macro(report.PerCategory, sorted, func(c metrics.CategoryScore) metrics.Value { return c.F1 })
	report.AUC = macro(report.PerCategory, sorted, func(c metrics.CategoryScore) metrics.Value { return c.AUC })
	report.Kappa = e.overallKappa(gold, predicted, report.PerCategory, sorted)

	report.MarkComputed("precision", report.Precision.Defined)
	report.MarkComputed("recall", report.Recall.Defined)
	report.MarkComputed("f1", report.F1.Defined)
	report.MarkComputed("kappa", report.Kappa.Defined)
	report.MarkComputed("auc", report.AUC.Defined)
	return report, nil
}

// scoreCategory computes one-vs-rest confusion counts and derived metrics.
func (e *Engine) scoreCategory(category string, gold, predicted []detect.LabelSet, scores []detect.Scores) metrics.CategoryScore {
	cs := metrics.CategoryScore{}
	for i := range gold {
		g, p := gold[i].Has(category), predicted[i].Has(category)
		switch {
		case g && p:
			cs.TP++
		case !g && p:
			cs.FP++
		case g && !p:
			cs.FN++
		default:
			cs.TN++
		}
	}
	cs.Support = cs.TP + cs.FN

	cs.Precision = ratio(cs.TP, cs.TP+cs.FP)
	cs.Recall = ratio(cs.TP, cs.TP+cs.FN)
	cs.F1 = f1Of(cs.Precision, cs.Recall)
	cs.Kappa = binaryKappa(cs.TP, cs.FP, cs.FN, cs.TN)
	cs.AUC = e.categoryAUC(category, gold, scores)
	return cs
}

// ratio is undefined on a zero denominator: a category with no positive
// predictions has no precision, not a precision of zero.
func ratio(num, den int) metrics.Value {
	if den == 0 {
		return metrics.Undef()
	}
	return metrics.Def(float64(num) / float64(den))
}

func f1Of(p, r metrics.Value) metrics.Value {
	if !p.Defined || !r.Defined || p.V+r.V == 0 {
		return metrics.Undef()
	}
	return metrics.Def(2 * p.V * r.V / (p.V + r.V))
}

// binaryKappa is the chance-corrected agreement for one category treated
// one-vs-rest.
func binaryKappa(tp, fp, fn, tn int) metrics.Value {
	n := float64(tp + fp + fn + tn)
	if n == 0 {
		return metrics.Undef()
	}
	po := float64(tp+tn) / n
	pe := (float64(tp+fp)*float64(tp+fn) + float64(fn+tn)*float64(fp+tn)) / (n * n)
	if pe == 1 {
		if po == 1 {
			return metrics.Def(1)
		}
		return metrics.Undef()
	}
	return metrics.Def((po - pe) / (1 - pe))
}

// categoryAUC computes one-vs-rest ROC AUC from the category's scores.
// Undefined without scores, or when gold lacks both a positive and a
// negative instance.
func (e *Engine) categoryAUC(category string, gold []detect.LabelSet, scores []detect.Scores) metrics.Value {
	if scores == nil || len(gold) == 0 {
		return metrics.Undef()
	}
	type scored struct {
		score    float64
		positive bool
	}
	items := make([]scored, len(gold))
	pos := 0
	for i := range gold {
		items[i] = scored{score: scores[i][category], positive: gold[i].Has(category)}
		if items[i].positive {
			pos++
		}
	}
	if pos == 0 || pos == len(items) {
		return metrics.Undef()
	}

	// stat.ROC wants scores ascending with aligned class flags.
	sort.Slice(items, func(i, j int) bool { return items[i].score < items[j].score })
	ys := make([]float64, len(items))
	classes := make([]bool, len(items))
	for i, it := range items {
		ys[i] = it.score
		classes[i] = it.positive
	}
	tpr, fpr, _ := stat.ROC(nil, ys, classes, nil)
	auc := integrate.Trapezoidal(fpr, tpr)
	if auc < 0 {
		auc = -auc
	}
	return metrics.Def(auc)
}

// macro averages a per-category metric over the categories where it is
// defined; undefined when no category defines it.
func macro(per map[string]metrics.CategoryScore, categories []string, pick func(metrics.CategoryScore) metrics.Value) metrics.Value {
	sum, n := 0.0, 0
	for _, category := range categories {
		if v := pick(per[category]); v.Defined {
			sum += v.V
			n++
		}
	}
	if n == 0 {
		return metrics.Undef()
	}
	return metrics.Def(sum / float64(n))
}

// overallKappa applies the single-label simplification when every gold and
// predicted assignment carries exactly one label: full multiclass
// agreement over the confusion matrix. Otherwise it macro-averages the
// per-category binary kappas.
func (e *Engine) overallKappa(gold, predicted []detect.LabelSet, per map[string]metrics.CategoryScore, categories []string) metrics.Value {
	if len(gold) == 0 {
		return metrics.Undef()
	}
	if singleLabel(gold) && singleLabel(predicted) {
		return multiclassKappa(gold, predicted)
	}
	return macro(per, categories, func(c metrics.CategoryScore) metrics.Value { return c.Kappa })
}

func singleLabel(sets []detect.LabelSet) bool {
	for _, s := range sets {
		if s.Len() != 1 {
			return false
		}
	}
	return true
}

func multiclassKappa(gold, predicted []detect.LabelSet) metrics.Value {
	n := float64(len(gold))
	agree := 0
	goldCount := make(map[string]int)
	predCount := make(map[string]int)
	for i := range gold {
		g := gold[i].Sorted()[0]
		p := predicted[i].Sorted()[0]
		if g == p {
			agree++
		}
		goldCount[g]++
		predCount[p]++
	}
	po := float64(agree) / n
	pe := 0.0
	for label, gc := range goldCount {
		pe += float64(gc) * float64(predCount[label]) / (n * n)
	}
	if pe == 1 {
		if po == 1 {
			return metrics.Def(1)
		}
		return metrics.Undef()
	}
	return metrics.Def((po - pe) / (1 - pe))
}

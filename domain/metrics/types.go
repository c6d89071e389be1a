package metrics

import (
	"encoding/json"
	"sort"
)

// Value is a metric that may be undefined. An undefined value marshals as
// null and is listed in the report's Unavailable set; it is never zero
// pretending to be a result.
type Value struct {
	V       float64
	Defined bool
}

// Def wraps a computed metric value.
func Def(v float64) Value { return Value{V: v, Defined: true} }

// Undef is the undefined metric value.
func Undef() Value { return Value{} }

// MarshalJSON renders the value as a number, or null when undefined.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(v.V)
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Undef()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Def(f)
	return nil
}

// CategoryScore holds the confusion counts and derived metrics for one
// category, treated one-vs-rest.
type CategoryScore struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TN int `json:"tn"`

	Support   int   `json:"support"` // gold positives
	Precision Value `json:"precision"`
	Recall    Value `json:"recall"`
	F1        Value `json:"f1"`
	Kappa     Value `json:"kappa"`
	AUC       Value `json:"auc"`
}

// Report is the uniform quality report of one experiment run. Top-level
// precision/recall/F1 are macro-averaged over categories; Kappa is the
// multiclass agreement statistic when the single-label simplification
// applies, otherwise the macro average of per-category kappas. Computed and
// Unavailable make explicit which metrics were actually produced.
type Report struct {
	SampleCount int `json:"sample_count"`

	Precision Value `json:"precision"`
	Recall    Value `json:"recall"`
	F1        Value `json:"f1"`
	Kappa     Value `json:"kappa"`
	AUC       Value `json:"auc"`

	PerCategory map[string]CategoryScore `json:"per_category"`

	Computed    []string `json:"computed"`
	Unavailable []string `json:"unavailable"`
}

// MarkComputed records metric availability in a stable order.
func (r *Report) MarkComputed(name string, defined bool) {
	if defined {
		r.Computed = append(r.Computed, name)
	} else {
		r.Unavailable = append(r.Unavailable, name)
	}
	sort.Strings(r.Computed)
	sort.Strings(r.Unavailable)
}

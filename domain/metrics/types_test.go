package metrics

import (
	"encoding/json"
	"testing"
)

func TestValue_MarshalsUndefinedAsNull(t *testing.T) {
	payload := struct {
		Precision Value `json:"precision"`
		AUC       Value `json:"auc"`
	}{
		Precision: Def(0.75),
		AUC:       Undef(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"precision":0.75,"auc":null}`
	if string(raw) != want {
		t.Errorf("marshaled %s, want %s", raw, want)
	}
}

func TestValue_UnmarshalRoundTrip(t *testing.T) {
	var got struct {
		Precision Value `json:"precision"`
		AUC       Value `json:"auc"`
	}
	if err := json.Unmarshal([]byte(`{"precision":0.75,"auc":null}`), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !got.Precision.Defined || got.Precision.V != 0.75 {
		t.Errorf("precision = %+v", got.Precision)
	}
	if got.AUC.Defined {
		t.Errorf("auc = %+v, want undefined", got.AUC)
	}
}

func TestReport_MarkComputed(t *testing.T) {
	r := &Report{}
	r.MarkComputed("recall", true)
	r.MarkComputed("auc", false)
	r.MarkComputed("precision", true)

	if len(r.Computed) != 2 || r.Computed[0] != "precision" || r.Computed[1] != "recall" {
		t.Errorf("Computed = %v", r.Computed)
	}
	if len(r.Unavailable) != 1 || r.Unavailable[0] != "auc" {
		t.Errorf("Unavailable = %v", r.Unavailable)
	}
}

// Package hybrid implements the ensemble detection family: a voting
// detector composing formal and statistical members.
package hybrid

import (
	"context"

	"hatebench/domain/corpus"
	"hatebench/domain/detect"
	"hatebench/internal/errors"
	"hatebench/ports"
)

// Voting combines at least one formal and one statistical member. Each
// category is decided by majority vote across all members; on an exact
// tie, the first statistical member's vote wins. The policy is fixed so
// ensemble behavior is never left nondeterministic.
type Voting struct {
	formal      []ports.Detector
	statistical []ports.Detector
}

// NewVoting builds the ensemble. Both member slices must be non-empty.
func NewVoting(formal, statistical []ports.Detector) (*Voting, error) {
	if len(formal) == 0 || len(statistical) == 0 {
		return nil, errors.InvalidParams("voting ensemble needs at least one formal and one statistical member")
	}
	return &Voting{formal: formal, statistical: statistical}, nil
}

// Fit trains every member on the same train split. Formal members load
// their rule tables; statistical members actually train.
func (d *Voting) Fit(ctx context.Context, train []corpus.Sample) error {
	for _, m := range d.members() {
		if err := m.Fit(ctx, train); err != nil {
			return err
		}
	}
	return nil
}

// Predict votes per category across member predictions.
func (d *Voting) Predict(ctx context.Context, texts []string) ([]detect.LabelSet, error) {
	members := d.members()
	votes := make([][]detect.LabelSet, len(members))
	for i, m := range members {
		preds, err := m.Predict(ctx, texts)
		if err != nil {
			return nil, err
		}
		votes[i] = preds
	}

	tieBreaker := len(d.formal) // index of the first statistical member
	out := make([]detect.LabelSet, len(texts))
	for t := range texts {
		categories := make(map[string]bool)
		for _, preds := range votes {
			for tag := range preds[t] {
				categories[tag] = true
			}
		}
		labels := detect.NewLabelSet()
		for tag := range categories {
			yes, no := 0, 0
			for _, preds := range votes {
				if preds[t].Has(tag) {
					yes++
				} else {
					no++
				}
			}
			switch {
			case yes > no:
				labels = labels.Add(tag)
			case yes == no && votes[tieBreaker][t].Has(tag):
				labels = labels.Add(tag)
			}
		}
		out[t] = labels
	}
	return out, nil
}

func (d *Voting) members() []ports.Detector {
	out := make([]ports.Detector, 0, len(d.formal)+len(d.statistical))
	out = append(out, d.formal...)
	out = append(out, d.statistical...)
	return out
}

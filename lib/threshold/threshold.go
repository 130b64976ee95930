package threshold

import (
	"boscoin.io/govern/lib/errors"
	"boscoin.io/govern/lib/voting"
)

// Threshold is the passing rule of the proposals. Exactly one of the
// variants is set.
type Threshold struct {
	AbsoluteCount      *AbsoluteCount      `json:"absolute_count,omitempty" yaml:"absolute_count,omitempty" msgpack:"absolute_count"`
	AbsolutePercentage *AbsolutePercentage `json:"absolute_percentage,omitempty" yaml:"absolute_percentage,omitempty" msgpack:"absolute_percentage"`
	ThresholdQuorum    *ThresholdQuorum    `json:"threshold_quorum,omitempty" yaml:"threshold_quorum,omitempty" msgpack:"threshold_quorum"`
}

// AbsoluteCount passes once the yes weight reaches `Weight`.
type AbsoluteCount struct {
	Weight uint64 `json:"weight" yaml:"weight" msgpack:"weight"`
}

// AbsolutePercentage passes once the yes weight reaches `Percentage` of the
// total weight.
type AbsolutePercentage struct {
	Percentage Decimal `json:"percentage" yaml:"percentage" msgpack:"percentage"`
}

// ThresholdQuorum passes once `Quorum` of the total weight has voted and the
// yes weight reaches `Threshold` of the non-abstaining weight.
type ThresholdQuorum struct {
	Threshold Decimal `json:"threshold" yaml:"threshold" msgpack:"threshold"`
	Quorum    Decimal `json:"quorum" yaml:"quorum" msgpack:"quorum"`
}

type Variant string

const (
	VariantAbsoluteCount      Variant = "absolute_count"
	VariantAbsolutePercentage Variant = "absolute_percentage"
	VariantThresholdQuorum    Variant = "threshold_quorum"
	VariantUnknown            Variant = ""
)

func NewAbsoluteCount(weight uint64) Threshold {
	return Threshold{AbsoluteCount: &AbsoluteCount{Weight: weight}}
}

func NewAbsolutePercentage(percentage Decimal) Threshold {
	return Threshold{AbsolutePercentage: &AbsolutePercentage{Percentage: percentage}}
}

func NewThresholdQuorum(threshold, quorum Decimal) Threshold {
	return Threshold{ThresholdQuorum: &ThresholdQuorum{Threshold: threshold, Quorum: quorum}}
}

// Variant returns VariantUnknown when none or more than one variant is set.
func (t Threshold) Variant() Variant {
	var n int
	var v Variant
	if t.AbsoluteCount != nil {
		n++
		v = VariantAbsoluteCount
	}
	if t.AbsolutePercentage != nil {
		n++
		v = VariantAbsolutePercentage
	}
	if t.ThresholdQuorum != nil {
		n++
		v = VariantThresholdQuorum
	}

	if n != 1 {
		return VariantUnknown
	}
	return v
}

// Validate checks that the threshold can be reached with `totalWeight`.
func (t Threshold) Validate(totalWeight uint64) error {
	switch t.Variant() {
	case VariantAbsoluteCount:
		w := t.AbsoluteCount.Weight
		if w == 0 {
			return errors.InvalidThreshold.Clone().SetData("weight", w)
		}
		if w > totalWeight {
			return errors.UnreachableWeight.Clone().
				SetData("weight", w).
				SetData("total_weight", totalWeight)
		}
	case VariantAbsolutePercentage:
		p := t.AbsolutePercentage.Percentage
		if !p.IsFraction() {
			return errors.InvalidThreshold.Clone().SetData("percentage", p.String())
		}
		if totalWeight == 0 {
			return errors.UnreachableWeight.Clone().SetData("total_weight", totalWeight)
		}
	case VariantThresholdQuorum:
		q := t.ThresholdQuorum
		if !q.Threshold.IsFraction() {
			return errors.InvalidThreshold.Clone().SetData("threshold", q.Threshold.String())
		}
		if !q.Quorum.IsFraction() {
			return errors.InvalidThreshold.Clone().SetData("quorum", q.Quorum.String())
		}
		if totalWeight == 0 {
			return errors.UnreachableWeight.Clone().SetData("total_weight", totalWeight)
		}
	default:
		return errors.InvalidThreshold.Clone().SetData("variant", "none or multiple")
	}

	return nil
}

type Outcome uint8

const (
	Undecided Outcome = iota
	Passed
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Rejected:
		return "rejected"
	default:
		return "undecided"
	}
}

// VotesNeeded returns ceil(fraction * weight).
func VotesNeeded(weight uint64, fraction Decimal) uint64 {
	return fraction.MulCeil(weight)
}

// maxYes is the weight which still can join the yes side.
func maxYes(votes voting.Votes, totalWeight uint64) uint64 {
	against := votes.No + votes.Veto + votes.Abstain
	if against >= totalWeight {
		return 0
	}
	return totalWeight - against
}

// Evaluate decides the outcome of the votes. Before expiration a proposal is
// rejected early once the yes side can no longer pass.
func (t Threshold) Evaluate(votes voting.Votes, totalWeight uint64, expired bool) Outcome {
	switch t.Variant() {
	case VariantAbsoluteCount:
		return evaluateRequired(votes, totalWeight, t.AbsoluteCount.Weight, expired)
	case VariantAbsolutePercentage:
		required := VotesNeeded(totalWeight, t.AbsolutePercentage.Percentage)
		return evaluateRequired(votes, totalWeight, required, expired)
	case VariantThresholdQuorum:
		return t.ThresholdQuorum.evaluate(votes, totalWeight, expired)
	default:
		return Undecided
	}
}

func evaluateRequired(votes voting.Votes, totalWeight, required uint64, expired bool) Outcome {
	switch {
	case votes.Yes >= required:
		return Passed
	case expired:
		return Rejected
	case maxYes(votes, totalWeight) < required:
		return Rejected
	default:
		return Undecided
	}
}

func (q ThresholdQuorum) evaluate(votes voting.Votes, totalWeight uint64, expired bool) Outcome {
	quorumNeeded := VotesNeeded(totalWeight, q.Quorum)
	cast := votes.Total()

	// once the quorum is reached, only the non-abstaining votes count
	opinions := votes.Yes + votes.No + votes.Veto
	if cast >= quorumNeeded && opinions > 0 && votes.Yes >= VotesNeeded(opinions, q.Threshold) {
		return Passed
	}

	if expired {
		return Rejected
	}

	// the yes side is best off when every remaining voter says yes, so it can
	// not pass once the max yes misses the threshold of the non-abstaining
	// weight.
	var eligible uint64
	if votes.Abstain < totalWeight {
		eligible = totalWeight - votes.Abstain
	}
	required := VotesNeeded(eligible, q.Threshold)
	if required < 1 {
		required = 1
	}
	if maxYes(votes, totalWeight) < required {
		return Rejected
	}

	return Undecided
}

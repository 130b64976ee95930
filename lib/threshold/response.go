package threshold

import "boscoin.io/govern/lib/common"

// Response shows the threshold with the weights derived from the total
// weight.
type Response struct {
	Variant        Variant  `json:"variant" yaml:"variant"`
	Weight         uint64   `json:"weight,omitempty" yaml:"weight,omitempty"`
	Percentage     *Decimal `json:"percentage,omitempty" yaml:"percentage,omitempty"`
	Threshold      *Decimal `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Quorum         *Decimal `json:"quorum,omitempty" yaml:"quorum,omitempty"`
	TotalWeight    uint64   `json:"total_weight" yaml:"total_weight"`
	RequiredWeight uint64   `json:"required_weight" yaml:"required_weight"`
	QuorumWeight   uint64   `json:"quorum_weight,omitempty" yaml:"quorum_weight,omitempty"`
}

func (t Threshold) ToResponse(totalWeight uint64) Response {
	r := Response{Variant: t.Variant(), TotalWeight: totalWeight}

	switch r.Variant {
	case VariantAbsoluteCount:
		r.Weight = t.AbsoluteCount.Weight
		r.RequiredWeight = t.AbsoluteCount.Weight
	case VariantAbsolutePercentage:
		p := t.AbsolutePercentage.Percentage
		r.Percentage = &p
		r.RequiredWeight = VotesNeeded(totalWeight, p)
	case VariantThresholdQuorum:
		th, q := t.ThresholdQuorum.Threshold, t.ThresholdQuorum.Quorum
		r.Threshold = &th
		r.Quorum = &q
		r.RequiredWeight = VotesNeeded(totalWeight, th)
		r.QuorumWeight = VotesNeeded(totalWeight, q)
	}

	return r
}

func (r Response) String() string {
	return string(common.MustMarshalJSON(r))
}

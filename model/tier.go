package model

// Tier identifies one of the three fixed license tiers every beat is sold
// under. The set is closed: a beat always carries all three together.
type Tier string

const (
	TierBasic     Tier = "basic"
	TierPremium   Tier = "premium"
	TierUnlimited Tier = "unlimited"
)

// Tiers lists all tiers in display order.
func Tiers() []Tier {
	return []Tier{TierBasic, TierPremium, TierUnlimited}
}

// TierSet holds one value per tier. Using a fixed struct instead of a map
// makes a partial tier set unrepresentable once decoded.
type TierSet[T any] struct {
	Basic     T `json:"basic" bson:"basic"`
	Premium   T `json:"premium" bson:"premium"`
	Unlimited T `json:"unlimited" bson:"unlimited"`
}

// Get returns the value for the given tier. Unknown tiers return the zero
// value.
func (s TierSet[T]) Get(tier Tier) T {
	switch tier {
	case TierBasic:
		return s.Basic
	case TierPremium:
		return s.Premium
	case TierUnlimited:
		return s.Unlimited
	}
	var zero T
	return zero
}

// Set assigns the value for the given tier.
func (s *TierSet[T]) Set(tier Tier, v T) {
	switch tier {
	case TierBasic:
		s.Basic = v
	case TierPremium:
		s.Premium = v
	case TierUnlimited:
		s.Unlimited = v
	}
}

// Map builds a TierSet by applying fn to every tier.
func Map[T any](fn func(Tier) T) TierSet[T] {
	return TierSet[T]{
		Basic:     fn(TierBasic),
		Premium:   fn(TierPremium),
		Unlimited: fn(TierUnlimited),
	}
}

package tier

// Tier is a customer classification level
type Tier string

const (
	TierRegular Tier = "regular"
	TierPro     Tier = "pro"
	TierVip     Tier = "vip"
)

// IsValid checks if the tier is known
func (t Tier) IsValid() bool {
	switch t {
	case TierRegular, TierPro, TierVip:
		return true
	}
	return false
}

// String returns the string representation of Tier
func (t Tier) String() string {
	return string(t)
}

// Thresholds holds the minimum interaction count per tier. Regular is the
// floor and needs no threshold of its own.
type Thresholds struct {
	Pro int64
	Vip int64
}

// DefaultThresholds returns the platform defaults
func DefaultThresholds() Thresholds {
	return Thresholds{Pro: 5, Vip: 10}
}

// Classify maps an interaction count to a tier, evaluating the highest
// tier first so overlapping thresholds resolve upward.
func (th Thresholds) Classify(interactions int64) Tier {
	switch {
	case interactions >= th.Vip:
		return TierVip
	case interactions >= th.Pro:
		return TierPro
	default:
		return TierRegular
	}
}

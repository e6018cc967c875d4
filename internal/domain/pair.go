package domain

import "math"

// PairKey builds an order-independent key for a cross-venue market pair.
// The same two ids always produce the same key regardless of argument
// order, which is what the matcher's dedup pass relies on.
func PairKey(idA, idB string) string {
	if idB < idA {
		idA, idB = idB, idA
	}
	return idA + "-" + idB
}

// MatchedPair asserts that one Polymarket market and one Kalshi market refer
// to the same real-world event. The legs are shared snapshot references; the
// pair never mutates them.
type MatchedPair struct {
	Key        string   `json:"key"`
	Polymarket Market   `json:"polymarket"`
	Kalshi     Market   `json:"kalshi"`
	Score      float64  `json:"score"`
	Reason     string   `json:"reason"`
	Strategy   string   `json:"strategy"`
	Subjects   []string `json:"subjects,omitempty"`
	Action     string   `json:"action,omitempty"`
	Timeframe  string   `json:"timeframe,omitempty"`
}

// YesDelta returns the absolute difference between the two venues' Yes
// prices, the quick disagreement signal traders sort the matched view by.
func (p MatchedPair) YesDelta() float64 {
	return math.Abs(p.Polymarket.YesPrice - p.Kalshi.YesPrice)
}

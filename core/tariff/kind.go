// Package tariff classifies free-form duty-rate expressions.
// Classification is pure: no I/O, no shared mutable state.
package tariff

// Kind is the shape of a tariff expression
type Kind string

const (
	// KindUnknown means nothing rate-like was recognized
	KindUnknown Kind = "unknown"

	// KindAdvalorem is a percentage of customs value
	KindAdvalorem Kind = "advalorem"

	// KindSpecific is a fixed fee per unit
	KindSpecific Kind = "specific"

	// KindCombined is a percentage plus a fixed fee
	KindCombined Kind = "combined"

	// KindCombinedWithFloor is a combined rate with a minimum fee
	KindCombinedWithFloor Kind = "combined_with_floor"

	// KindUnknownNumeric is a bare number with no recognizable unit
	KindUnknownNumeric Kind = "unknown_numeric"
)

// Kinds lists every kind in declaration order
func Kinds() []Kind {
	return []Kind{
		KindUnknown,
		KindAdvalorem,
		KindSpecific,
		KindCombined,
		KindCombinedWithFloor,
		KindUnknownNumeric,
	}
}

// presence is the tuple of rate detectors that fired
type presence struct {
	percent bool
	fee     bool
	floor   bool
}

// precedence maps every reachable detector tuple to a kind. The all-false
// tuple is absent: it is resolved by the bare-number fallback.
var precedence = map[presence]Kind{
	{percent: true}:                         KindAdvalorem,
	{fee: true}:                             KindSpecific,
	{percent: true, fee: true}:              KindCombined,
	{percent: true, fee: true, floor: true}: KindCombinedWithFloor,
	{fee: true, floor: true}:                KindSpecific,
	{percent: true, floor: true}:            KindAdvalorem,
	{floor: true}:                           KindSpecific,
}

// resolveKind returns the kind for a detector tuple, or false when no
// rate detector fired.
func resolveKind(p presence) (Kind, bool) {
	k, ok := precedence[p]
	return k, ok
}

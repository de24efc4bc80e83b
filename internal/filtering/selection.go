package filtering

// AllSentinel is the wire value meaning "no constraint" for a selection or price range
const AllSentinel = "all"

// Selection is an optional exact-match constraint on a categorical field
type Selection struct {
	value string
	set   bool
}

// Any returns a selection that matches every value
func Any() Selection {
	return Selection{}
}

// Exactly returns a selection that matches only value
func Exactly(value string) Selection {
	return Selection{value: value, set: true}
}

// ParseSelection converts a raw UI value into a Selection.
// The empty string and the "all" sentinel mean no constraint.
func ParseSelection(raw string) Selection {
	if raw == "" || raw == AllSentinel {
		return Any()
	}
	return Exactly(raw)
}

// IsAny reports whether the selection places no constraint
func (s Selection) IsAny() bool {
	return !s.set
}

// Value returns the selected value and whether one is set
func (s Selection) Value() (string, bool) {
	return s.value, s.set
}

// Matches reports whether v satisfies the selection
func (s Selection) Matches(v string) bool {
	return !s.set || v == s.value
}

// String returns the wire form of the selection
func (s Selection) String() string {
	if !s.set {
		return AllSentinel
	}
	return s.value
}

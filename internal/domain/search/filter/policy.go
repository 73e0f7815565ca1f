package filter

import "time"

// DefaultDebounce is the quiet period before a free-text edit is committed.
const DefaultDebounce = 500 * time.Millisecond

// Policy decides when an edited field is copied into the committed filters.
type Policy struct {
	delay time.Duration
}

// Immediate commits on the same update.
func Immediate() Policy { return Policy{} }

// Debounced commits after d of inactivity (trailing edge).
func Debounced(d time.Duration) Policy { return Policy{delay: d} }

// IsImmediate reports whether the policy commits without delay.
func (p Policy) IsImmediate() bool { return p.delay <= 0 }

// Delay returns the quiet period.
func (p Policy) Delay() time.Duration { return p.delay }

// Registry maps each filter field to its commit policy.
type Registry map[Field]Policy

// DefaultRegistry debounces the free-text term and commits selectors immediately.
func DefaultRegistry(debounce time.Duration) Registry {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return Registry{
		FieldScope:        Immediate(),
		FieldTerm:         Debounced(debounce),
		FieldYear:         Immediate(),
		FieldCourt:        Immediate(),
		FieldMinRelevance: Immediate(),
	}
}

// PolicyFor resolves the policy of an update batch: the slowest policy of any
// touched field wins, so a selector edited together with the term waits for it.
// Unregistered fields commit immediately.
func (r Registry) PolicyFor(fields []Field) Policy {
	out := Immediate()
	for _, f := range fields {
		if p, ok := r[f]; ok && p.delay > out.delay {
			out = p
		}
	}
	return out
}

package vogprep

import "bytes"

// AddOutcome is the result of offering one profile to a Consolidator.
type AddOutcome int

const (
	// AddedNew means the profile's group had not been seen before.
	AddedNew AddOutcome = iota

	// SkippedDuplicate means the group already holds a byte-identical
	// profile; the new copy was discarded.
	SkippedDuplicate

	// AddedConflict means the group already holds a profile with
	// different content. Both variants are retained; concatenating or
	// reconciling divergent profiles is an operator decision, not ours.
	AddedConflict
)

// A MergeConflict records a group identifier that accumulated divergent
// profile content during consolidation. It is a data-quality warning, not
// a fatal error.
type MergeConflict struct {
	Group    string
	Variants int // total variants retained for the group
}

// A Consolidator merges profile records drawn from multiple source files
// into one logical set keyed by group identifier. Equality between two
// profiles of the same group is byte-exact over the profile body. Output
// order is first-seen order of groups across the merged inputs, with
// variants of a group in their first-seen order, so consolidation is
// deterministic and commutative over input-file order for disjoint
// groups.
type Consolidator struct {
	order    []string
	byGroup  map[string][]ProfileRecord
	conflict map[string]bool
}

func NewConsolidator() *Consolidator {
	return &Consolidator{
		byGroup:  make(map[string][]ProfileRecord, 10000),
		conflict: make(map[string]bool),
	}
}

// Add offers one profile to the consolidated set and reports what became
// of it.
func (c *Consolidator) Add(p ProfileRecord) AddOutcome {
	variants, seen := c.byGroup[p.Group]
	if !seen {
		c.order = append(c.order, p.Group)
		c.byGroup[p.Group] = append(variants, p)
		return AddedNew
	}
	for _, v := range variants {
		if bytes.Equal(v.Body, p.Body) {
			return SkippedDuplicate
		}
	}
	c.byGroup[p.Group] = append(variants, p)
	c.conflict[p.Group] = true
	return AddedConflict
}

// Profiles returns the consolidated set in first-seen group order.
func (c *Consolidator) Profiles() []ProfileRecord {
	out := make([]ProfileRecord, 0, len(c.order))
	for _, group := range c.order {
		out = append(out, c.byGroup[group]...)
	}
	return out
}

// Conflicts returns one entry per group that retained divergent variants,
// in first-seen group order.
func (c *Consolidator) Conflicts() []MergeConflict {
	var out []MergeConflict
	for _, group := range c.order {
		if c.conflict[group] {
			out = append(out, MergeConflict{
				Group:    group,
				Variants: len(c.byGroup[group]),
			})
		}
	}
	return out
}

// Len returns the number of distinct groups in the consolidated set.
func (c *Consolidator) Len() int {
	return len(c.order)
}

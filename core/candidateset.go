package core

// CandidateSet is an ordered, deduplicated collection of candidates keyed by
// title. The first occurrence of a title wins and insertion order is
// preserved, which keeps pipeline output deterministic: vector results first
// in rank order, then graph expansions in seed order.
//
// Title is the dedup key because the vector store and graph store share no
// primary key; two distinct movies with the same title are merged. This is a
// documented limitation of the cross-store join, not an oversight.
//
// CandidateSet is not safe for concurrent use. Each pipeline invocation
// builds its own request-local set.
type CandidateSet struct {
	seen  map[string]struct{}
	items []Candidate
}

// NewCandidateSet creates an empty candidate set.
func NewCandidateSet() *CandidateSet {
	return &CandidateSet{seen: make(map[string]struct{})}
}

// Add inserts a candidate unless its title is empty or already present.
// Returns true if the candidate was inserted.
func (s *CandidateSet) Add(candidate Candidate) bool {
	if candidate.Title == "" {
		return false
	}
	if _, dup := s.seen[candidate.Title]; dup {
		return false
	}
	s.seen[candidate.Title] = struct{}{}
	s.items = append(s.items, candidate)
	return true
}

// AddAll inserts candidates in order, skipping duplicates.
// Returns the number of candidates inserted.
func (s *CandidateSet) AddAll(candidates ...Candidate) int {
	added := 0
	for _, c := range candidates {
		if s.Add(c) {
			added++
		}
	}
	return added
}

// Contains reports whether a candidate with the given title is present.
func (s *CandidateSet) Contains(title string) bool {
	_, ok := s.seen[title]
	return ok
}

// Len returns the number of candidates in the set.
func (s *CandidateSet) Len() int {
	return len(s.items)
}

// Items returns the candidates in insertion order.
// The returned slice is the set's backing storage; callers must not mutate
// the set while holding it.
func (s *CandidateSet) Items() []Candidate {
	return s.items
}

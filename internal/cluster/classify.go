package cluster

// Buckets holds stars partitioned by category. Each slice keeps input order.
type Buckets struct {
	MainSequence []Star
	WhiteDwarf   []Star
	NeutronStar  []Star
	BlackHole    []Star

	// Unrecognized holds the input indices of stars whose type code maps to
	// no category.
	Unrecognized []int
}

// Classify partitions stars by type code. Stars with an unrecognized code
// are left out of every bucket and their indices reported in Unrecognized.
func Classify(stars []Star) Buckets {
	var b Buckets
	for i, s := range stars {
		c, ok := s.Type.Category()
		if !ok {
			b.Unrecognized = append(b.Unrecognized, i)
			continue
		}
		switch c {
		case CategoryMainSequence:
			b.MainSequence = append(b.MainSequence, s)
		case CategoryWhiteDwarf:
			b.WhiteDwarf = append(b.WhiteDwarf, s)
		case CategoryNeutronStar:
			b.NeutronStar = append(b.NeutronStar, s)
		case CategoryBlackHole:
			b.BlackHole = append(b.BlackHole, s)
		}
	}
	return b
}

// Get returns the bucket for a category.
func (b Buckets) Get(c Category) []Star {
	switch c {
	case CategoryMainSequence:
		return b.MainSequence
	case CategoryWhiteDwarf:
		return b.WhiteDwarf
	case CategoryNeutronStar:
		return b.NeutronStar
	case CategoryBlackHole:
		return b.BlackHole
	}
	return nil
}

// Classified returns the number of stars placed in a bucket.
func (b Buckets) Classified() int {
	return len(b.MainSequence) + len(b.WhiteDwarf) + len(b.NeutronStar) + len(b.BlackHole)
}

// UnrecognizedCount returns the number of stars left out of every bucket.
func (b Buckets) UnrecognizedCount() int {
	return len(b.Unrecognized)
}

// Total returns the number of classified input stars, equal to the input
// length.
func (b Buckets) Total() int {
	return b.Classified() + b.UnrecognizedCount()
}

package product

// Equivalent reports whether two products are the same logical product across
// accounts: exact, case-sensitive display name equality.
func Equivalent(a, b *Product) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Name == b.Name
}

// FindMatching returns the first candidate equivalent to source, or nil.
func FindMatching(candidates []*Product, source *Product) *Product {
	for _, candidate := range candidates {
		if Equivalent(candidate, source) {
			return candidate
		}
	}
	return nil
}

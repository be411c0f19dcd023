package syntax

// Equal reports whether a and b have the same shape: kind, span, error
// status and children, recursively. Object identity is ignored.
func Equal(a, b Node) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() == b.IsNull()
	}
	if a.sub == b.sub && a.start == b.start {
		return true
	}
	if a.Kind() != b.Kind() ||
		a.StartByte() != b.StartByte() ||
		a.EndByte() != b.EndByte() ||
		a.IsError() != b.IsError() ||
		a.IsExtra() != b.IsExtra() ||
		a.ChildCount() != b.ChildCount() {
		return false
	}

	achildren, bchildren := a.Children(), b.Children()
	for i := range achildren {
		if !Equal(achildren[i], bchildren[i]) {
			return false
		}
	}
	return true
}

// FirstDifference returns the first pair of nodes, in pre-order, at which a
// and b differ. Both results are null when the trees are equal.
func FirstDifference(a, b Node) (Node, Node) {
	if a.IsNull() || b.IsNull() {
		if a.IsNull() == b.IsNull() {
			return Node{}, Node{}
		}
		return a, b
	}
	if a.Kind() != b.Kind() ||
		a.StartByte() != b.StartByte() ||
		a.EndByte() != b.EndByte() ||
		a.IsError() != b.IsError() ||
		a.IsExtra() != b.IsExtra() ||
		a.ChildCount() != b.ChildCount() {
		return a, b
	}
	achildren, bchildren := a.Children(), b.Children()
	for i := range achildren {
		if da, db := FirstDifference(achildren[i], bchildren[i]); !da.IsNull() || !db.IsNull() {
			return da, db
		}
	}
	return Node{}, Node{}
}

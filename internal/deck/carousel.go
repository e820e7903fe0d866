package deck

// SubIndex returns the carousel position for the item with the given id.
func (s *Stack) SubIndex(id string) int {
	return s.sub[id]
}

// TapLeft moves the item's carousel back one image. It reports whether the
// index changed; taps at the first image or on unknown items do nothing.
func (s *Stack) TapLeft(id string) bool {
	return s.shift(id, -1)
}

// TapRight moves the item's carousel forward one image, stopping at the
// last image.
func (s *Stack) TapRight(id string) bool {
	return s.shift(id, 1)
}

func (s *Stack) shift(id string, delta int) bool {
	it, ok := s.Item(id)
	if !ok {
		return false
	}
	cur := s.sub[id]
	next := min(max(cur+delta, 0), it.lastImage())
	if next == cur {
		return false
	}
	if next == 0 {
		delete(s.sub, id)
	} else {
		s.sub[id] = next
	}
	return true
}

package screen

// Selection tracks a highlighted row and the first visible row of a list
// whose length can change underneath it.
type Selection struct {
	Cursor int
	Offset int
	Len    int
}

// SetLen records the list length and clamps the cursor into range.
func (s *Selection) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	s.Len = n
	s.clamp()
}

// Index returns the highlighted row, or -1 for an empty list.
func (s Selection) Index() int {
	if s.Len == 0 {
		return -1
	}
	c := s.Cursor
	if c >= s.Len {
		c = s.Len - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

// Move shifts the cursor by delta and reports whether it moved.
func (s *Selection) Move(delta int) bool {
	if s.Len == 0 {
		s.Cursor = 0
		return false
	}
	old := s.Cursor
	s.Cursor += delta
	s.clamp()
	return s.Cursor != old
}

// Home moves the cursor to the first row.
func (s *Selection) Home() bool {
	old := s.Cursor
	s.Cursor = 0
	return old != s.Cursor
}

// End moves the cursor to the last row.
func (s *Selection) End() bool {
	old := s.Cursor
	s.Cursor = s.Len - 1
	s.clamp()
	return old != s.Cursor
}

// PageUp moves the cursor up by one page of visible rows.
func (s *Selection) PageUp(visible int) bool {
	return s.Move(-s.pageSize(visible))
}

// PageDown moves the cursor down by one page of visible rows.
func (s *Selection) PageDown(visible int) bool {
	return s.Move(s.pageSize(visible))
}

func (s *Selection) pageSize(visible int) int {
	if s.Len == 0 {
		return 0
	}
	size := visible
	if size <= 0 || size > s.Len {
		size = s.Len
	}
	return size
}

func (s *Selection) clamp() {
	if s.Cursor >= s.Len {
		s.Cursor = s.Len - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
}

// Window returns the visible row range [start, end) for a list that shows
// visible rows, keeping the cursor on screen. It does not modify s.
func (s Selection) Window(visible int) (start, end int) {
	if s.Len == 0 {
		return 0, 0
	}
	if visible <= 0 || visible >= s.Len {
		return 0, s.Len
	}
	cursor := s.Index()
	start = s.Offset
	if maxOffset := s.Len - visible; start > maxOffset {
		start = maxOffset
	}
	if start < 0 {
		start = 0
	}
	if cursor < start {
		start = cursor
	}
	if cursor >= start+visible {
		start = cursor - visible + 1
	}
	return start, start + visible
}

// Follow stores the offset Window would use so the viewport scrolls
// smoothly instead of jumping back to the top.
func (s *Selection) Follow(visible int) {
	s.Offset, _ = s.Window(visible)
}

package texture

// lruList is an intrusive doubly-linked list over live Decoded buffers.
// The head is the most recently used, the tail the eviction candidate.
// Not safe for concurrent use.
type lruList struct {
	head *Decoded
	tail *Decoded
	len  int
}

// Len returns the number of buffers in the list.
func (l *lruList) Len() int {
	return l.len
}

// PushFront inserts d as the most recently used buffer.
func (l *lruList) PushFront(d *Decoded) {
	d.prev = nil
	d.next = l.head
	if l.head != nil {
		l.head.prev = d
	}
	l.head = d
	if l.tail == nil {
		l.tail = d
	}
	l.len++
}

// MoveToFront marks d as the most recently used buffer.
func (l *lruList) MoveToFront(d *Decoded) {
	if d == nil || d == l.head {
		return
	}
	l.unlink(d)
	l.PushFront(d)
}

// Remove takes d out of the list.
func (l *lruList) Remove(d *Decoded) {
	if d == nil {
		return
	}
	l.unlink(d)
}

// Oldest returns the least recently used buffer, or nil.
func (l *lruList) Oldest() *Decoded {
	return l.tail
}

// Clear empties the list without touching the buffers' own links.
func (l *lruList) Clear() {
	l.head = nil
	l.tail = nil
	l.len = 0
}

func (l *lruList) unlink(d *Decoded) {
	if d.prev != nil {
		d.prev.next = d.next
	} else {
		l.head = d.next
	}
	if d.next != nil {
		d.next.prev = d.prev
	} else {
		l.tail = d.prev
	}
	d.prev = nil
	d.next = nil
	l.len--
}

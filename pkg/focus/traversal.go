package focus

// MoveFocus moves focus by delta positions through the traversal ring
// and reports whether a new node was granted focus. The ring contains
// every enabled node in registration order, excluding nodes that opted
// out with SkipTraversal and nodes that are forward targets of another
// node: chains are entered at their head, never in the middle.
//
// delta is typically +1 (Tab) or -1 (Shift+Tab). The ring wraps.
func (r *Registry) MoveFocus(delta int) bool {
	ring := r.traversalRing()
	if len(ring) == 0 || delta == 0 {
		return false
	}

	currentIndex := -1
	for i, id := range ring {
		if id == r.active {
			currentIndex = i
			break
		}
	}
	if currentIndex == -1 && delta < 0 {
		// Nothing focused: backward movement starts at the ring's end.
		currentIndex = 0
	}

	count := len(ring)
	for step := 1; step <= count; step++ {
		next := ring[wrapIndex(currentIndex+delta*step, count)]
		if next == r.active {
			continue
		}
		if r.GrantFocus(next) {
			return true
		}
	}
	return false
}

// traversalRing returns the tab-order candidates in registration order.
func (r *Registry) traversalRing() []NodeID {
	targeted := make(map[NodeID]bool)
	for _, n := range r.nodes {
		if n != nil && n.forward != NoNode {
			targeted[n.forward] = true
		}
	}

	var ring []NodeID
	for i, n := range r.nodes {
		id := NodeID(i)
		if n == nil || !n.enabled || n.skipTraversal || targeted[id] {
			continue
		}
		ring = append(ring, id)
	}
	return ring
}

// wrapIndex wraps an index to stay within [0, count).
func wrapIndex(index, count int) int {
	index = index % count
	if index < 0 {
		index += count
	}
	return index
}

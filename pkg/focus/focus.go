// Package focus tracks which component holds keyboard focus and routes
// input events through forward-focus chains.
//
// Components register focus nodes with a Registry and receive integer
// handles. A node may declare a forward target: when the node is granted
// focus, the grant follows forward targets until it reaches a node with
// no further target, which becomes the primary holder. Events delivered
// to the chain are offered to the primary holder first and bubble back
// toward the chain head, each ancestor seeing the event at most once.
//
// At most one chain is active at a time. Granting focus to a new node
// revokes it from every node on the previous chain before any node on
// the new chain is notified.
package focus

// NodeID identifies a registered focus node. IDs are indices into the
// owning Registry and are never reused within a Registry's lifetime.
type NodeID int

// NoNode is the zero target: a node without a forward target, or the
// result of a lookup that found nothing.
const NoNode NodeID = -1

// NodeConfig describes a focus node at registration time.
type NodeConfig struct {
	// Label names the node in diagnostics and error reports.
	Label string

	// Forward is the node focus is forwarded to when this node is
	// granted focus. NoNode means this node holds focus itself.
	Forward NodeID

	// SkipTraversal excludes the node from linear focus traversal.
	// Forwarded-to nodes are excluded implicitly.
	SkipTraversal bool

	// OnKey handles key events offered to this node. A nil handler
	// ignores every event.
	OnKey func(event KeyEvent) KeyEventResult

	// OnPointer handles pointer events offered to this node. A nil
	// handler ignores every event.
	OnPointer func(event PointerEvent) KeyEventResult

	// OnFocusChange is invoked when the node joins or leaves the
	// active focus chain.
	OnFocusChange func(focused bool)
}

// node is the registry's record of one registered focus endpoint.
type node struct {
	label         string
	forward       NodeID
	skipTraversal bool
	enabled       bool
	onKey         func(KeyEvent) KeyEventResult
	onPointer     func(PointerEvent) KeyEventResult
	onFocusChange func(bool)
}

// Registry owns the focus state for one runtime. It is not safe for
// concurrent use; callers serialize access the same way they serialize
// property writes.
type Registry struct {
	nodes  []*node
	active NodeID
}

// NewRegistry returns an empty registry with no active focus.
func NewRegistry() *Registry {
	return &Registry{active: NoNode}
}

// Register adds a node and returns its handle. Nodes start enabled.
func (r *Registry) Register(cfg NodeConfig) NodeID {
	id := NodeID(len(r.nodes))
	r.nodes = append(r.nodes, &node{
		label:         cfg.Label,
		forward:       cfg.Forward,
		skipTraversal: cfg.SkipTraversal,
		enabled:       true,
		onKey:         cfg.OnKey,
		onPointer:     cfg.OnPointer,
		onFocusChange: cfg.OnFocusChange,
	})
	return id
}

// Unregister removes a node. If the node lies on the active chain the
// whole chain is revoked first. Forward targets pointing at the node
// are cleared.
func (r *Registry) Unregister(id NodeID) {
	if !r.valid(id) {
		return
	}
	if r.onActiveChain(id) {
		r.ReleaseFocus()
	}
	for _, n := range r.nodes {
		if n != nil && n.forward == id {
			n.forward = NoNode
		}
	}
	r.nodes[id] = nil
}

// SetEnabled enables or disables a node. Disabling a node on the
// active chain releases focus: disabled nodes neither hold focus nor
// handle events. The release runs before the flag flips so the whole
// chain, the disabled node included, is notified of the loss.
func (r *Registry) SetEnabled(id NodeID, enabled bool) {
	if !r.valid(id) {
		return
	}
	if !enabled && r.onActiveChain(id) {
		r.ReleaseFocus()
	}
	r.nodes[id].enabled = enabled
}

// Enabled reports whether the node exists and is enabled.
func (r *Registry) Enabled(id NodeID) bool {
	return r.valid(id) && r.nodes[id].enabled
}

// SetForward retargets the node's forward link. Retargeting a node on
// the active chain releases focus; the caller re-grants if desired.
func (r *Registry) SetForward(id, target NodeID) {
	if !r.valid(id) {
		return
	}
	if r.onActiveChain(id) {
		r.ReleaseFocus()
	}
	r.nodes[id].forward = target
}

// Label returns the node's diagnostic label.
func (r *Registry) Label(id NodeID) string {
	if !r.valid(id) {
		return ""
	}
	return r.nodes[id].label
}

// GrantFocus makes id the head of the active chain, following forward
// targets to the primary holder. The previous chain is revoked first.
// It reports whether focus was granted; disabled and unregistered
// nodes refuse focus.
func (r *Registry) GrantFocus(id NodeID) bool {
	if !r.valid(id) || !r.nodes[id].enabled {
		return false
	}
	if r.active == id {
		return true
	}
	r.revokeChain()
	r.active = id
	for _, n := range r.chain(id) {
		if cb := r.nodes[n].onFocusChange; cb != nil {
			cb(true)
		}
	}
	return true
}

// ReleaseFocus revokes the active chain, leaving no focus holder.
func (r *Registry) ReleaseFocus() {
	r.revokeChain()
	r.active = NoNode
}

// ActiveRoot returns the head of the active chain, or NoNode.
func (r *Registry) ActiveRoot() NodeID {
	return r.active
}

// Focused returns the primary focus holder: the innermost node of the
// active chain. NoNode when nothing is focused.
func (r *Registry) Focused() NodeID {
	chain := r.chain(r.active)
	if len(chain) == 0 {
		return NoNode
	}
	return chain[len(chain)-1]
}

// HasFocus reports whether the node lies on the active chain.
func (r *Registry) HasFocus(id NodeID) bool {
	return r.onActiveChain(id)
}

// revokeChain notifies the current chain of focus loss, innermost
// node first.
func (r *Registry) revokeChain() {
	chain := r.chain(r.active)
	for i := len(chain) - 1; i >= 0; i-- {
		if cb := r.nodes[chain[i]].onFocusChange; cb != nil {
			cb(false)
		}
	}
}

// chain returns the forward-focus chain starting at id: the head
// followed by each forward target in turn, stopping before any node
// that is unregistered or disabled. The walk is capped at the node
// count so a mis-wired forward loop cannot hang the router.
func (r *Registry) chain(id NodeID) []NodeID {
	var out []NodeID
	for range len(r.nodes) {
		if !r.valid(id) || !r.nodes[id].enabled {
			break
		}
		out = append(out, id)
		id = r.nodes[id].forward
	}
	return out
}

// onActiveChain reports whether id lies on the active chain.
func (r *Registry) onActiveChain(id NodeID) bool {
	for _, n := range r.chain(r.active) {
		if n == id {
			return true
		}
	}
	return false
}

// valid reports whether id names a live node.
func (r *Registry) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(r.nodes) && r.nodes[id] != nil
}

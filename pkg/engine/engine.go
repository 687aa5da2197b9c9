// Package engine drives a weft runtime: it owns the binding graph, the
// focus registry and the animator, mounts component templates into
// them, and serializes every external input through one event queue.
//
// The runtime is single-threaded. Hosts deliver keys, pointers, ticks
// and imperative mutations from one goroutine (or serialize access
// themselves); each queue entry runs as a full cascade (handlers,
// writes, settling, overlay resolution, animation scheduling) before
// the next entry starts. Posts issued from inside a cascade append to
// the queue and never interleave.
package engine

import (
	"fmt"
	"time"

	"github.com/go-weft/weft/pkg/animation"
	"github.com/go-weft/weft/pkg/binding"
	"github.com/go-weft/weft/pkg/component"
	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/focus"
	"github.com/go-weft/weft/pkg/property"
)

// entry is one queued cascade: an input event or imperative mutation.
type entry struct {
	kind   string
	detail string
	fn     func()
}

// Runtime hosts mounted component trees over one shared binding graph.
//
// Lifecycle: Mount templates, then Start exactly once. Start seals the
// graph (freezing the dependency structure and running cycle checks),
// activates every root, and opens the queue for input.
type Runtime struct {
	graph    *binding.Graph
	registry *focus.Registry
	animator *animation.Animator

	roots     map[string]*component.Component
	rootOrder []string

	queue    []entry
	draining bool
	seq      uint64

	recorder Recorder
	timings  *timingBuffer
	debug    *DebugServer

	started bool
}

// New returns an empty runtime.
func New() *Runtime {
	g := binding.New()
	return &Runtime{
		graph:    g,
		registry: focus.NewRegistry(),
		animator: animation.NewAnimator(g),
		roots:    make(map[string]*component.Component),
		timings:  newTimingBuffer(timingSamples),
	}
}

// Mount instantiates a template as a root instance. All mounts happen
// before Start; any construction defect aborts the mount with no
// partially wired instance left behind.
func (rt *Runtime) Mount(name string, tmpl *component.Template) (*component.Component, error) {
	if rt.started {
		return nil, rt.defErr("engine.Runtime.Mount", name, "runtime already started")
	}
	if _, dup := rt.roots[name]; dup {
		return nil, rt.defErr("engine.Runtime.Mount", name, "duplicate root name")
	}
	c, err := component.Instantiate(rt.env(), name, tmpl)
	if err != nil {
		return nil, err
	}
	rt.roots[name] = c
	rt.rootOrder = append(rt.rootOrder, name)
	return c, nil
}

// Start seals the graph and brings every mounted root live. After
// Start the structure is frozen: no further mounts, bindings or links.
func (rt *Runtime) Start() error {
	if rt.started {
		return rt.defErr("engine.Runtime.Start", "", "runtime already started")
	}
	if err := rt.graph.Seal(); err != nil {
		return err
	}
	for _, name := range rt.rootOrder {
		if err := rt.roots[name].Activate(); err != nil {
			return err
		}
	}
	if rt.recorder != nil {
		if err := rt.watchTransitions(); err != nil {
			return err
		}
	}
	rt.graph.Settle()
	rt.started = true
	rt.publishDebug()
	return nil
}

// Started reports whether Start has completed.
func (rt *Runtime) Started() bool { return rt.started }

// Root returns a mounted root instance by name, or nil.
func (rt *Runtime) Root(name string) *component.Component {
	return rt.roots[name]
}

// Roots returns the mounted root names in mount order.
func (rt *Runtime) Roots() []string {
	return append([]string(nil), rt.rootOrder...)
}

// Graph exposes the runtime's binding graph for tooling and tests.
func (rt *Runtime) Graph() *binding.Graph { return rt.graph }

// Registry exposes the runtime's focus registry.
func (rt *Runtime) Registry() *focus.Registry { return rt.registry }

// Do runs an imperative mutation as one cascade. Called from inside a
// cascade it queues the mutation to run after the current one.
func (rt *Runtime) Do(fn func()) {
	rt.post("do", "", fn)
}

// PostKey delivers a key event to the focused chain. "Tab" and
// "Shift+Tab" are navigation keys: the runtime moves focus through the
// traversal ring instead of routing them.
func (rt *Runtime) PostKey(ev focus.KeyEvent) {
	rt.post("key", ev.Key, func() {
		switch ev.Key {
		case "Tab":
			rt.registry.MoveFocus(1)
		case "Shift+Tab":
			rt.registry.MoveFocus(-1)
		default:
			rt.registry.RouteKey(ev)
		}
	})
}

// PostPointer delivers a pointer event entering at the given node.
// Hit-testing is the host's concern; the runtime routes from the node
// the host resolved, bubbling along its focus chain.
func (rt *Runtime) PostPointer(at focus.NodeID, ev focus.PointerEvent) {
	rt.post("pointer", ev.Phase.String(), func() {
		rt.registry.RoutePointer(at, ev)
	})
}

// Tick advances animation time. Hosts call it once per frame while
// NeedsTick reports true.
func (rt *Runtime) Tick(now time.Time) {
	rt.post("tick", "", func() {
		rt.animator.Step(now)
	})
}

// NeedsTick reports whether animation segments are in flight and ticks
// should keep coming.
func (rt *Runtime) NeedsTick() bool {
	return rt.animator.Active()
}

// SetRecorder attaches a cascade recorder. Must be called before
// Start; the recorder observes every cascade and every committed value
// transition from then on.
func (rt *Runtime) SetRecorder(r Recorder) error {
	if rt.started {
		return rt.defErr("engine.Runtime.SetRecorder", "", "runtime already started")
	}
	rt.recorder = r
	return nil
}

// Close releases host-facing resources (the debug server). The graph
// and instances need no teardown.
func (rt *Runtime) Close() {
	if rt.debug != nil {
		rt.debug.stop()
		rt.debug = nil
	}
}

// env assembles the construction environment handed to instances.
// Schedule funnels component-initiated mutations through the queue.
func (rt *Runtime) env() component.Env {
	return component.Env{
		Graph:    rt.graph,
		Focus:    rt.registry,
		Animator: rt.animator,
		Schedule: func(fn func()) { rt.post("do", "", fn) },
	}
}

// post enqueues a cascade and drains the queue unless a drain is
// already in progress further up the stack.
func (rt *Runtime) post(kind, detail string, fn func()) {
	rt.queue = append(rt.queue, entry{kind: kind, detail: detail, fn: fn})
	if rt.draining {
		return
	}
	rt.drain()
}

// drain runs queued cascades to completion, one at a time, in arrival
// order. Each cascade settles the graph before the next one starts.
func (rt *Runtime) drain() {
	rt.draining = true
	defer func() { rt.draining = false }()

	for len(rt.queue) > 0 {
		e := rt.queue[0]
		rt.queue = rt.queue[1:]
		rt.seq++
		if rt.recorder != nil {
			rt.recorder.Cascade(rt.seq, e.kind, e.detail)
		}
		started := time.Now()
		rt.runEntry(e)
		rt.timings.add(time.Since(started))
	}
	rt.publishDebug()
}

// runEntry executes one cascade. A panic inside a handler is recovered
// and reported; the cascade is abandoned and the queue moves on.
func (rt *Runtime) runEntry(e entry) {
	defer func() {
		if r := recover(); r != nil {
			errors.ReportPanic(&errors.PanicError{
				Op:         "engine.Runtime.Drain",
				Value:      r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			})
		}
	}()
	e.fn()
	rt.graph.Settle()
}

// watchTransitions registers the recorder's transition feed on every
// distinct cell slot.
func (rt *Runtime) watchTransitions() error {
	seen := make(map[binding.CellID]bool)
	for i := 0; i < rt.graph.Len(); i++ {
		id := rt.graph.Canonical(binding.CellID(i))
		if seen[id] {
			continue
		}
		seen[id] = true
		name := rt.graph.Name(id)
		if _, err := rt.graph.Watch(id, func(old, new property.Value) {
			rt.recorder.Transition(rt.seq, name, old, new)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (rt *Runtime) defErr(op, detail, msg string) error {
	return &errors.WeftError{
		Op:        op,
		Kind:      errors.KindDefinition,
		Component: detail,
		Err:       fmt.Errorf("%s", msg),
	}
}

package scenario

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-weft/weft/pkg/animation"
	"github.com/go-weft/weft/pkg/component"
	"github.com/go-weft/weft/pkg/decl"
	"github.com/go-weft/weft/pkg/engine"
	"github.com/go-weft/weft/pkg/focus"
)

const (
	// DefaultFrameStep is how far one settle frame advances the clock.
	DefaultFrameStep = 16 * time.Millisecond

	// maxSettleFrames bounds "tick: settle" so a runaway animation
	// fails the step instead of looping forever. 625 frames is ten
	// seconds of fake time at the default step.
	maxSettleFrames = 625
)

// Player drives one mounted root through scripted steps.
//
// Create the player before starting the runtime: it pins the animation
// clock, so segments armed during activation already read fake time.
// Close restores the previous clock.
type Player struct {
	rt   *engine.Runtime
	root *component.Component

	// FrameStep is how far "tick: settle" advances per frame. Change
	// it before Run.
	FrameStep time.Duration

	clock *Clock
	prev  animation.Clock
}

// NewPlayer prepares to drive rt's root instance under a fake clock.
func NewPlayer(rt *engine.Runtime, root *component.Component) *Player {
	p := &Player{rt: rt, root: root, clock: NewClock(), FrameStep: DefaultFrameStep}
	p.prev = animation.SetClock(p.clock)
	return p
}

// Close restores the animation clock.
func (p *Player) Close() {
	animation.SetClock(p.prev)
}

// Clock returns the fake clock, for callers that interleave their own
// time control with playback.
func (p *Player) Clock() *Clock {
	return p.clock
}

// Run plays the scenario to completion. Expectation mismatches do not
// stop playback; they land on the transcript. An error means the
// scenario itself could not be played (unknown path, bad value).
func (p *Player) Run(sc *Scenario) (*Transcript, error) {
	tr := &Transcript{Scenario: sc.Name}
	for i, step := range sc.Steps {
		label := step.label()
		if err := p.apply(step); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, label, err)
		}
		res := StepResult{
			Index:      i + 1,
			Label:      label,
			Snapshot:   p.rt.Snapshot(p.root),
			Mismatches: p.check(step.Expect),
		}
		tr.Steps = append(tr.Steps, res)
	}
	return tr, nil
}

func (p *Player) apply(step Step) error {
	switch {
	case step.Set != nil:
		owner, prop, err := p.owner(step.Set.Prop)
		if err != nil {
			return err
		}
		id, err := p.root.Cell(step.Set.Prop)
		if err != nil {
			return err
		}
		v, err := decl.ParseValue(p.rt.Graph().KindOf(id), step.Set.Value)
		if err != nil {
			return fmt.Errorf("set %s: %w", step.Set.Prop, err)
		}
		return owner.Set(prop, v)

	case step.Key != "":
		p.rt.PostKey(focus.KeyEvent{Key: step.Key})
		return nil

	case step.Pointer != nil:
		target, err := p.component(step.Pointer.Target)
		if err != nil {
			return err
		}
		phase, err := parsePhase(step.Pointer.Phase)
		if err != nil {
			return err
		}
		p.rt.PostPointer(target.FocusNode(), focus.PointerEvent{
			Phase: phase,
			X:     step.Pointer.X,
			Y:     step.Pointer.Y,
		})
		return nil

	case step.Tick == "settle":
		for frames := 0; p.rt.NeedsTick(); frames++ {
			if frames >= maxSettleFrames {
				return fmt.Errorf("animations did not settle within %v", time.Duration(maxSettleFrames)*p.FrameStep)
			}
			p.clock.Advance(p.FrameStep)
			p.rt.Tick(p.clock.Now())
		}
		return nil

	case step.Tick != "":
		d, err := time.ParseDuration(step.Tick)
		if err != nil {
			return err
		}
		p.clock.Advance(d)
		p.rt.Tick(p.clock.Now())
		return nil

	case step.Invoke != "":
		path, name := split(step.Invoke)
		target, err := p.component(path)
		if err != nil {
			return err
		}
		return target.Invoke(name)

	case step.Focus != nil:
		target, err := p.component(*step.Focus)
		if err != nil {
			return err
		}
		target.Focus()
		return nil

	default:
		return nil
	}
}

// check evaluates expectations against the current presented state.
func (p *Player) check(expect map[string]any) []string {
	if len(expect) == 0 {
		return nil
	}
	paths := make([]string, 0, len(expect))
	for path := range expect {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var mismatches []string
	for _, path := range paths {
		id, err := p.root.Cell(path)
		if err != nil {
			mismatches = append(mismatches, fmt.Sprintf("%s: unknown property", path))
			continue
		}
		want, err := decl.ParseValue(p.rt.Graph().KindOf(id), expect[path])
		if err != nil {
			mismatches = append(mismatches, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		got, err := p.root.Get(path)
		if err != nil {
			mismatches = append(mismatches, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if !got.Equal(want) {
			mismatches = append(mismatches, fmt.Sprintf("%s: got %s, want %s", path, got, want))
		}
	}
	return mismatches
}

// owner walks a dotted path to the component owning its last segment.
func (p *Player) owner(path string) (*component.Component, string, error) {
	head, prop := split(path)
	c, err := p.component(head)
	if err != nil {
		return nil, "", err
	}
	return c, prop, nil
}

// component resolves a dotted child path; "" is the root.
func (p *Player) component(path string) (*component.Component, error) {
	c := p.root
	if path == "" {
		return c, nil
	}
	for _, seg := range strings.Split(path, ".") {
		c = c.Child(seg)
		if c == nil {
			return nil, fmt.Errorf("unknown component path %q", path)
		}
	}
	return c, nil
}

// split cuts "a.b.c" into "a.b" and "c"; a bare name has an empty head.
func split(path string) (head, last string) {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i], path[i+1:]
	}
	return "", path
}

func parsePhase(s string) (focus.PointerPhase, error) {
	switch s {
	case "", "down":
		return focus.PointerDown, nil
	case "up":
		return focus.PointerUp, nil
	case "move":
		return focus.PointerMove, nil
	default:
		return focus.PointerDown, fmt.Errorf("unknown pointer phase %q", s)
	}
}

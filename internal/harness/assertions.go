package harness

import (
	"fmt"

	"github.com/roach88/pdscatter/internal/projection"
)

// evaluate returns one message per failed assertion.
func (r *runner) evaluate(assertions []Assertion) []string {
	snap, ok := r.session.Snapshot()
	if !ok {
		return []string{"no frame was rendered"}
	}
	frame := snap.Frame
	sel := frame.Selection

	var errs []string
	for i, a := range assertions {
		var msg string
		switch a.Type {
		case AssertYear:
			msg = compare(a.Type, a.Year, sel.Year)
		case AssertMode:
			msg = compare(a.Type, a.Mode, r.session.Mode().String())
		case AssertCountry:
			msg = compare(a.Type, a.Country, sel.Country)
		case AssertCategory:
			msg = compare(a.Type, a.Category, sel.Category)
		case AssertOverlayCount:
			msg = compare(a.Type, a.Count, frame.OverlayCount())
		case AssertPointCount:
			msg = compare(a.Type, a.Count, frame.PointCount())
		case AssertGroupCount:
			msg = compare(a.Type, a.Count, nonEmptyGroups(frame))
		case AssertActiveTimers:
			msg = compare(a.Type, a.Count, r.sched.Active())
		case AssertFrames:
			msg = compare(a.Type, a.Count, r.renderer.frames)
		default:
			msg = fmt.Sprintf("unknown assertion type %q", a.Type)
		}
		if msg != "" {
			errs = append(errs, fmt.Sprintf("assertion %d: %s", i+1, msg))
		}
	}
	return errs
}

func compare[T comparable](what string, want, got T) string {
	if want == got {
		return ""
	}
	return fmt.Sprintf("%s: want %v, got %v", what, want, got)
}

func nonEmptyGroups(f *projection.Frame) int {
	n := 0
	for _, g := range f.Groups {
		if len(g.Points) > 0 {
			n++
		}
	}
	return n
}

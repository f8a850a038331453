package animation

import (
	"fmt"
	"strings"

	"github.com/roach88/pdscatter/internal/projection"
)

// EventType distinguishes the inputs a Session accepts.
type EventType int

const (
	// EventSetYear moves the year scrubber.
	EventSetYear EventType = iota + 1
	// EventSelectCountry changes the highlighted country.
	EventSelectCountry
	// EventSelectCategory changes the x-axis risk category.
	EventSelectCategory
	// EventToggle flips play/pause.
	EventToggle
	// EventTick is a playback timer firing.
	EventTick
	// EventSetSelection changes several selection fields at once.
	EventSetSelection
)

func (t EventType) String() string {
	switch t {
	case EventSetYear:
		return "set_year"
	case EventSelectCountry:
		return "select_country"
	case EventSelectCategory:
		return "select_category"
	case EventToggle:
		return "toggle"
	case EventTick:
		return "tick"
	case EventSetSelection:
		return "set_selection"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is one input to a Session.
type Event struct {
	Type EventType

	Year     int    // EventSetYear
	Country  string // EventSelectCountry
	Category string // EventSelectCategory

	Patch Patch // EventSetSelection

	// Generation of the timer that produced an EventTick.
	Generation uint64

	// done receives the result of Apply when the event was submitted with Submit.
	done chan error
}

// SetYear returns an event moving the scrubber to year.
func SetYear(year int) Event {
	return Event{Type: EventSetYear, Year: year}
}

// SelectCountry returns an event highlighting country. Use
// projection.NoCountry to clear the highlight.
func SelectCountry(country string) Event {
	return Event{Type: EventSelectCountry, Country: country}
}

// SelectCategory returns an event switching the x axis to category.
func SelectCategory(category string) Event {
	return Event{Type: EventSelectCategory, Category: category}
}

// Patch is a partial selection. Nil fields keep the current value.
type Patch struct {
	Year     *int
	Country  *string
	Category *string
}

// Empty reports whether the patch changes no field.
func (p Patch) Empty() bool {
	return p.Year == nil && p.Country == nil && p.Category == nil
}

// Merge returns sel with the patched fields replaced.
func (p Patch) Merge(sel projection.Selection) projection.Selection {
	if p.Year != nil {
		sel.Year = *p.Year
	}
	if p.Country != nil {
		sel.Country = *p.Country
	}
	if p.Category != nil {
		sel.Category = *p.Category
	}
	return sel
}

func (p Patch) String() string {
	var parts []string
	if p.Year != nil {
		parts = append(parts, fmt.Sprintf("year=%d", *p.Year))
	}
	if p.Country != nil {
		parts = append(parts, fmt.Sprintf("country=%q", *p.Country))
	}
	if p.Category != nil {
		parts = append(parts, fmt.Sprintf("category=%q", *p.Category))
	}
	return strings.Join(parts, " ")
}

// SetSelection returns an event applying every field of p in one step.
// Either all of them take effect or none do.
func SetSelection(p Patch) Event {
	return Event{Type: EventSetSelection, Patch: p}
}

// Toggle returns a play/pause event.
func Toggle() Event {
	return Event{Type: EventToggle}
}

// Tick returns a timer event for generation.
func Tick(generation uint64) Event {
	return Event{Type: EventTick, Generation: generation}
}

func (e Event) String() string {
	switch e.Type {
	case EventSetYear:
		return fmt.Sprintf("%s(%d)", e.Type, e.Year)
	case EventSelectCountry:
		return fmt.Sprintf("%s(%q)", e.Type, e.Country)
	case EventSelectCategory:
		return fmt.Sprintf("%s(%q)", e.Type, e.Category)
	case EventTick:
		return fmt.Sprintf("%s(gen=%d)", e.Type, e.Generation)
	case EventSetSelection:
		return fmt.Sprintf("%s(%s)", e.Type, e.Patch)
	default:
		return e.Type.String()
	}
}

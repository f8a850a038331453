package projection

import "fmt"

// NoCountry is the country selector value that disables the overlay.
const NoCountry = "None Selected"

// Selection is the user-controlled view state.
type Selection struct {
	Year     int    `json:"year"`
	Country  string `json:"country"`
	Category string `json:"category"`
}

func (s Selection) String() string {
	return fmt.Sprintf("year=%d country=%q category=%q", s.Year, s.Country, s.Category)
}

// GroupKey partitions points by region and sex. Overlay groups leave Region empty.
type GroupKey struct {
	Region string `json:"region"`
	Sex    string `json:"sex"`
}

// Tooltip carries the hover fields of a point.
type Tooltip struct {
	Location   string  `json:"location"`
	Region     string  `json:"region"`
	Sex        string  `json:"sex"`
	Prevalence float64 `json:"prevalence"`
}

// Point is one marker.
type Point struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
	Tooltip Tooltip `json:"tooltip"`
}

// RenderGroup is an ordered point set drawn with one style.
type RenderGroup struct {
	Key    GroupKey `json:"key"`
	Points []Point  `json:"points"`
}

// Range is a closed axis interval.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Frame is everything a renderer needs for one selection.
type Frame struct {
	Selection Selection `json:"selection"`
	Title     string    `json:"title"`
	XLabel    string    `json:"x_label"`
	YLabel    string    `json:"y_label"`
	XRange    Range     `json:"x_range"`
	YRange    Range     `json:"y_range"`

	// Groups holds one group per (region, sex) in catalogue order, empty
	// groups included.
	Groups []RenderGroup `json:"groups"`

	// Overlay holds the selected country's points, one group per sex.
	Overlay []RenderGroup `json:"overlay"`
}

// Group returns the region×sex group.
func (f *Frame) Group(region, sex string) (RenderGroup, bool) {
	for _, g := range f.Groups {
		if g.Key.Region == region && g.Key.Sex == sex {
			return g, true
		}
	}
	return RenderGroup{}, false
}

// OverlayFor returns the overlay group of sex.
func (f *Frame) OverlayFor(sex string) (RenderGroup, bool) {
	for _, g := range f.Overlay {
		if g.Key.Sex == sex {
			return g, true
		}
	}
	return RenderGroup{}, false
}

// PointCount returns the number of points across the region×sex groups.
func (f *Frame) PointCount() int {
	n := 0
	for _, g := range f.Groups {
		n += len(g.Points)
	}
	return n
}

// OverlayCount returns the number of overlay points.
func (f *Frame) OverlayCount() int {
	n := 0
	for _, g := range f.Overlay {
		n += len(g.Points)
	}
	return n
}

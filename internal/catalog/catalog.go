// Package catalog describes the closed set of risk categories, disease
// measures and region groups the visualisation understands.
//
// The catalogue is a CUE document embedded in the binary. It is compiled and
// validated once; every other package reads the decoded Go value.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE []byte

//go:embed catalog.cue
var catalogCUE []byte

// CategoryCount is the number of risk categories a catalogue declares.
const CategoryCount = 12

// Source identifies which raw row set carries a category.
type Source string

const (
	// SourceExposure is the all-risks exposure export.
	SourceExposure Source = "exposure"
	// SourceDirect is the direct-cause export (smoking).
	SourceDirect Source = "direct"
)

// Category is one risk category: its display label and its canonical column key.
type Category struct {
	Label  string `json:"label"`
	Key    string `json:"key"`
	Source Source `json:"source"`
}

// Measures holds the measure_id codes of the disease-measure export.
type Measures struct {
	Prevalence int `json:"prevalence"`
	Incidence  int `json:"incidence"`
}

// Catalog is the decoded catalogue document.
type Catalog struct {
	Categories      []Category `json:"categories"`
	Measures        Measures   `json:"measures"`
	Regions         []string   `json:"regions"`
	Sexes           []string   `json:"sexes"`
	DefaultCategory string     `json:"defaultCategory"`
	ScaleFactor     float64    `json:"scaleFactor"`
}

// Error reports an invalid catalogue document.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalogue. It panics if the embedded document
// does not validate, which can only happen through a broken build.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(catalogCUE, "catalog.cue")
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("catalog: embedded catalogue is invalid: %v", defaultErr))
	}
	return defaultCat
}

// Parse compiles a CUE catalogue document, unifies it with the catalogue
// schema and validates it.
func Parse(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	doc := ctx.CompileBytes(src, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := schema.Unify(doc)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var cat Catalog
	if err := v.Decode(&cat); err != nil {
		return nil, formatCUEError(err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate checks the invariants the CUE schema cannot express.
func (c *Catalog) Validate() error {
	if len(c.Categories) == 0 {
		return &Error{Field: "categories", Message: "at least one category is required"}
	}
	labels := make(map[string]bool, len(c.Categories))
	keys := make(map[string]bool, len(c.Categories))
	direct := 0
	for _, cat := range c.Categories {
		if labels[cat.Label] {
			return &Error{Field: "categories", Message: fmt.Sprintf("duplicate label %q", cat.Label)}
		}
		if keys[cat.Key] {
			return &Error{Field: "categories", Message: fmt.Sprintf("duplicate key %q", cat.Key)}
		}
		labels[cat.Label] = true
		keys[cat.Key] = true
		if cat.Source == SourceDirect {
			direct++
		}
	}
	if direct != 1 {
		return &Error{Field: "categories", Message: fmt.Sprintf("expected exactly one direct-cause category, got %d", direct)}
	}
	if !labels[c.DefaultCategory] {
		return &Error{Field: "defaultCategory", Message: fmt.Sprintf("%q is not a category label", c.DefaultCategory)}
	}
	if c.Measures.Prevalence == c.Measures.Incidence {
		return &Error{Field: "measures", Message: "prevalence and incidence codes must differ"}
	}
	if len(c.Regions) == 0 {
		return &Error{Field: "regions", Message: "at least one region is required"}
	}
	if len(c.Sexes) == 0 {
		return &Error{Field: "sexes", Message: "at least one sex is required"}
	}
	if len(c.Categories) != CategoryCount {
		return &Error{Field: "categories", Message: fmt.Sprintf("expected %d categories, got %d", CategoryCount, len(c.Categories))}
	}
	return nil
}

// Labels returns the category display labels sorted for display.
func (c *Catalog) Labels() []string {
	out := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		out[i] = cat.Label
	}
	sort.Strings(out)
	return out
}

// Lookup finds a category by display label.
func (c *Catalog) Lookup(label string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Label == label {
			return cat, true
		}
	}
	return Category{}, false
}

// BySource returns the categories carried by the given source, in catalogue order.
func (c *Catalog) BySource(src Source) []Category {
	var out []Category
	for _, cat := range c.Categories {
		if cat.Source == src {
			out = append(out, cat)
		}
	}
	return out
}

// HasRegion reports whether region is one of the catalogue's region groups.
func (c *Catalog) HasRegion(region string) bool {
	for _, r := range c.Regions {
		if r == region {
			return true
		}
	}
	return false
}

// WithCategories returns a copy of the catalogue using cats in the given order.
// The copy is not validated; call Validate when cats come from outside.
func (c *Catalog) WithCategories(cats []Category) *Catalog {
	cp := *c
	cp.Categories = append([]Category(nil), cats...)
	return &cp
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &Error{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return &Error{Field: "cue", Message: first.Error()}
}

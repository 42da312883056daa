// Package indicators is the data-driven classification engine: an immutable
// registry of indicator definitions loaded from embedded YAML rule tables, a
// range classifier, the result builder and the evaluation boundary that turns
// runtime failures into error Results.
package indicators

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"gopkg.in/yaml.v3"

	"fundamentals-analyzer/internal/types"
)

//go:embed rules/*.yaml
var rulesFS embed.FS

// Presentation formats understood by the reporter
const (
	FormatRatio    = "ratio"
	FormatPercent  = "percent"
	FormatCurrency = "currency"
)

// RangeRule maps one interval of an indicator's domain to a label and its
// narrative. A nil bound is unbounded on that side.
type RangeRule struct {
	Min            *float64 `yaml:"min"`
	MinInclusive   bool     `yaml:"min_inclusive"`
	Max            *float64 `yaml:"max"`
	MaxInclusive   bool     `yaml:"max_inclusive"`
	Label          string   `yaml:"label" validate:"notblank"`
	Range          string   `yaml:"range" validate:"notblank"`
	Description    string   `yaml:"description" validate:"notblank"`
	Risks          string   `yaml:"risks" validate:"notblank"`
	Recommendation string   `yaml:"recommendation" validate:"notblank"`
}

// Contains reports whether v lies inside the rule's interval
func (r *RangeRule) Contains(v float64) bool {
	if r.Min != nil {
		if r.MinInclusive {
			if v < *r.Min {
				return false
			}
		} else if v <= *r.Min {
			return false
		}
	}
	if r.Max != nil {
		if r.MaxInclusive {
			if v > *r.Max {
				return false
			}
		} else if v >= *r.Max {
			return false
		}
	}
	return true
}

// Definition is the static description of one indicator
type Definition struct {
	ID             string             `yaml:"id" validate:"notblank"`
	Category       string             `yaml:"category" validate:"notblank"`
	Definition     string             `yaml:"definition" validate:"notblank"`
	Formula        string             `yaml:"formula" validate:"notblank"`
	Format         string             `yaml:"format" validate:"oneof=ratio percent currency"`
	ReportDivisor  float64            `yaml:"report_divisor" validate:"gte=0"`
	CrossReference string             `yaml:"cross_reference" validate:"notblank"`
	Calculator     string             `yaml:"calculator"`
	Inputs         []string           `yaml:"inputs" validate:"dive,notblank"`
	Params         map[string]float64 `yaml:"params"`
	Ranges         []RangeRule        `yaml:"ranges" validate:"min=1,dive"`
}

// Field returns the raw field a pass-through indicator reads
func (d *Definition) Field() string {
	if len(d.Inputs) == 1 {
		return d.Inputs[0]
	}
	return d.ID
}

func (d *Definition) clone() *Definition {
	cp := *d
	cp.Inputs = append([]string(nil), d.Inputs...)
	if d.Params != nil {
		cp.Params = make(map[string]float64, len(d.Params))
		for k, v := range d.Params {
			cp.Params[k] = v
		}
	}
	cp.Ranges = make([]RangeRule, len(d.Ranges))
	for i, r := range d.Ranges {
		cp.Ranges[i] = r
		if r.Min != nil {
			m := *r.Min
			cp.Ranges[i].Min = &m
		}
		if r.Max != nil {
			m := *r.Max
			cp.Ranges[i].Max = &m
		}
	}
	return &cp
}

// Registry is the read-only table of indicator definitions
type Registry struct {
	defs map[string]*Definition
	ids  []string
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default loads the embedded rule tables once per process
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(rulesFS, "rules")
		if err != nil {
			defaultErr = err
			return
		}
		defaultRegistry, defaultErr = Load(sub)
	})
	return defaultRegistry, defaultErr
}

// MustDefault is like Default but panics on a defective rule table
func MustDefault() *Registry {
	reg, err := Default()
	if err != nil {
		panic(err)
	}
	return reg
}

// Load reads every *.yaml file of fsys and builds a validated registry.
// Any authoring defect is returned as a *types.ContractViolationError.
func Load(fsys fs.FS) (*Registry, error) {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var defs []Definition
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading rule table %s: %w", name, err)
		}
		var table []Definition
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parsing rule table %s: %w", path.Base(name), err)
		}
		defs = append(defs, table...)
	}

	return Build(defs, Vocabulary)
}

// Build validates defs against the vocabulary and freezes them. Passing a
// nil vocabulary skips the closed-vocabulary check.
func Build(defs []Definition, vocabulary []string) (*Registry, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("registering notblank validation: %w", err)
	}
	known := make(map[string]bool, len(vocabulary))
	for _, id := range vocabulary {
		known[id] = true
	}

	reg := &Registry{defs: make(map[string]*Definition, len(defs))}
	for i := range defs {
		def := defs[i].clone()

		if err := validate.Struct(def); err != nil {
			return nil, contractViolation(def.ID, err)
		}
		if vocabulary != nil && !known[def.ID] {
			return nil, &types.ContractViolationError{Indicator: def.ID, Reason: "identifier is not in the vocabulary"}
		}
		if _, dup := reg.defs[def.ID]; dup {
			return nil, &types.ContractViolationError{Indicator: def.ID, Reason: "defined more than once"}
		}
		if err := checkBinding(def); err != nil {
			return nil, err
		}
		if err := checkPartition(def); err != nil {
			return nil, err
		}
		if def.ReportDivisor == 0 {
			def.ReportDivisor = 1
		}

		reg.defs[def.ID] = def
		reg.ids = append(reg.ids, def.ID)
	}

	if vocabulary != nil {
		for _, id := range vocabulary {
			if _, ok := reg.defs[id]; !ok {
				return nil, &types.ContractViolationError{Indicator: id, Reason: "no rule table defines this indicator"}
			}
		}
		reg.ids = append([]string(nil), vocabulary...)
	}

	return reg, nil
}

// contractViolation reports the first failing field of a validator error
func contractViolation(id string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &types.ContractViolationError{
			Indicator: id,
			Field:     fe.Namespace(),
			Reason:    fmt.Sprintf("failed %q check", fe.Tag()),
		}
	}
	return &types.ContractViolationError{Indicator: id, Reason: err.Error()}
}

// checkPartition enforces that the ordered rules tile the real line: open
// below and above, and every shared boundary inclusive on exactly one side.
func checkPartition(def *Definition) error {
	rules := def.Ranges
	violation := func(i int, reason string, args ...any) error {
		return &types.ContractViolationError{
			Indicator: def.ID,
			Field:     fmt.Sprintf("ranges[%d]", i),
			Reason:    fmt.Sprintf(reason, args...),
		}
	}

	if rules[0].Min != nil {
		return violation(0, "first range must be open below")
	}
	last := len(rules) - 1
	if rules[last].Max != nil {
		return violation(last, "last range must be open above")
	}

	for i := 0; i < last; i++ {
		cur, next := rules[i], rules[i+1]
		if cur.Max == nil {
			return violation(i, "only the last range may be open above")
		}
		if next.Min == nil {
			return violation(i+1, "only the first range may be open below")
		}
		if *cur.Max != *next.Min {
			return violation(i+1, "lower bound %g does not meet previous upper bound %g", *next.Min, *cur.Max)
		}
		if cur.MaxInclusive == next.MinInclusive {
			return violation(i+1, "boundary %g must be inclusive on exactly one side", *next.Min)
		}
		if next.Max != nil && (*next.Max < *next.Min ||
			(*next.Max == *next.Min && !(next.MinInclusive && next.MaxInclusive))) {
			return violation(i+1, "empty interval [%g, %g]", *next.Min, *next.Max)
		}
	}
	return nil
}

// Lookup returns a copy of the definition for id
func (r *Registry) Lookup(id string) (*Definition, bool) {
	def, ok := r.defs[id]
	if !ok {
		return nil, false
	}
	return def.clone(), true
}

// IDs lists the registered identifiers in vocabulary order
func (r *Registry) IDs() []string {
	return append([]string(nil), r.ids...)
}

// Len is the number of registered indicators
func (r *Registry) Len() int {
	return len(r.defs)
}

// definition returns the shared, read-only definition
func (r *Registry) definition(id string) (*Definition, bool) {
	def, ok := r.defs[id]
	return def, ok
}

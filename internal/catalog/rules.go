package catalog

import (
	"fmt"
	"math"

	"github.com/jonathan/docsynth/internal/types"
)

// RuleKind selects how a quantity is derived
type RuleKind string

// Rule kinds
const (
	// RuleFixed always yields Value
	RuleFixed RuleKind = "fixed"
	// RulePerUnit yields one item per Per units of Field, rounded down
	RulePerUnit RuleKind = "per_unit"
	// RuleProportional yields Field times Factor
	RuleProportional RuleKind = "proportional"
)

// QuantityRule is a declarative, monotonic quantity formula
type QuantityRule struct {
	Rule    RuleKind          `yaml:"rule" json:"rule" validate:"required,oneof=fixed per_unit proportional"`
	Field   types.EntityField `yaml:"field,omitempty" json:"field,omitempty" validate:"omitempty,oneof=area_m2 floors point_count power_hp"`
	Value   float64           `yaml:"value,omitempty" json:"value,omitempty" validate:"gte=0"`
	Per     float64           `yaml:"per,omitempty" json:"per,omitempty" validate:"gte=0"`
	Factor  float64           `yaml:"factor,omitempty" json:"factor,omitempty" validate:"gte=0"`
	Min     float64           `yaml:"min,omitempty" json:"min,omitempty" validate:"gte=0"`
	Default float64           `yaml:"default,omitempty" json:"default,omitempty" validate:"gte=0"`
}

func (r QuantityRule) check() error {
	switch r.Rule {
	case RulePerUnit:
		if r.Field == "" || r.Per <= 0 {
			return fmt.Errorf("per_unit rule needs a field and a positive per")
		}
	case RuleProportional:
		if r.Field == "" {
			return fmt.Errorf("proportional rule needs a field")
		}
	}
	return nil
}

// Evaluate computes the quantity for the given entities. defaults supplies the value of a
// missing field; the rule's own Default applies when defaults has none.
func (r QuantityRule) Evaluate(entities types.ExtractedEntities, defaults map[types.EntityField]float64) float64 {
	var q float64
	switch r.Rule {
	case RuleFixed:
		q = r.Value
	case RulePerUnit:
		q = math.Floor(r.input(entities, defaults) / r.Per)
	case RuleProportional:
		q = r.input(entities, defaults) * r.Factor
	}
	q = math.Max(q, r.Min)
	return RoundCents(q)
}

func (r QuantityRule) input(entities types.ExtractedEntities, defaults map[types.EntityField]float64) float64 {
	if v, ok := entities.Value(r.Field); ok {
		return v
	}
	if v, ok := defaults[r.Field]; ok {
		return v
	}
	return r.Default
}

// RoundCents rounds half away from zero to two decimals
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

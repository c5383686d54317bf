// Package catalog holds the service catalog: keyword sets, standards and the line-item
// templates used to price each service. A Catalog is immutable once loaded.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/docsynth/internal/textnorm"
	"github.com/jonathan/docsynth/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ItemTemplate describes how to produce one line item from extracted entities
type ItemTemplate struct {
	Description string       `yaml:"description" json:"description" validate:"required"`
	Unit        string       `yaml:"unit" json:"unit" validate:"required"`
	UnitPrice   float64      `yaml:"unit_price" json:"unit_price" validate:"gte=0"`
	Tiers       []types.Tier `yaml:"tiers,omitempty" json:"tiers,omitempty" validate:"dive,oneof=simple complex"`
	Quantity    QuantityRule `yaml:"quantity" json:"quantity"`
}

// AppliesTo reports whether the template is used for the tier. No tiers means all tiers.
func (t ItemTemplate) AppliesTo(tier types.Tier) bool {
	return len(t.Tiers) == 0 || slices.Contains(t.Tiers, tier)
}

// Service is one catalog entry
type Service struct {
	Category        types.ServiceCategory         `yaml:"category" json:"category" validate:"required"`
	Code            string                        `yaml:"code" json:"code" validate:"required,len=3,alpha"`
	Name            string                        `yaml:"name" json:"name" validate:"required"`
	Standards       string                        `yaml:"standards" json:"standards"`
	Keywords        []string                      `yaml:"keywords" json:"keywords" validate:"required,min=1,dive,required"`
	ExecutionFactor float64                       `yaml:"execution_factor" json:"execution_factor" validate:"gt=0"`
	BenefitRate     float64                       `yaml:"benefit_rate" json:"benefit_rate" validate:"gte=0,lte=1"`
	Defaults        map[types.EntityField]float64 `yaml:"defaults" json:"defaults,omitempty"`
	Bibliography    []string                      `yaml:"bibliography,omitempty" json:"bibliography,omitempty"`
	Items           []ItemTemplate                `yaml:"items" json:"items" validate:"dive"`
}

// Fields returns the entity fields read by the service's templates, in first-use order
func (s Service) Fields() []types.EntityField {
	var fields []types.EntityField
	for _, item := range s.Items {
		if f := item.Quantity.Field; f != "" && !slices.Contains(fields, f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// Default returns the service's default value for a numeric entity field
func (s Service) Default(field types.EntityField) (float64, bool) {
	v, ok := s.Defaults[field]
	return v, ok
}

type document struct {
	DefaultCategory    types.ServiceCategory `yaml:"default_category" validate:"required"`
	TaxRate            float64               `yaml:"tax_rate" validate:"gte=0,lt=1"`
	Currency           string                `yaml:"currency" validate:"required,len=3"`
	ValidityDays       int                   `yaml:"validity_days" validate:"gt=0"`
	Author             string                `yaml:"author"`
	CommonBibliography []string              `yaml:"common_bibliography"`
	Services           []Service             `yaml:"services" validate:"required,min=1,dive"`
}

// Catalog is the immutable set of services and pricing parameters
type Catalog struct {
	doc   document
	index map[types.ServiceCategory]int
}

// Default parses the embedded catalog. Each call returns an independent value.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a YAML file
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Message: "failed to open " + path, Cause: err}
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Load reads and validates a catalog from YAML
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &LoadError{Message: "failed to parse catalog YAML", Cause: err}
	}

	if err := validator.New().Struct(doc); err != nil {
		return nil, &LoadError{Message: "catalog failed validation", Cause: err}
	}

	c := &Catalog{doc: doc, index: make(map[types.ServiceCategory]int, len(doc.Services))}
	for i, svc := range doc.Services {
		if _, err := types.ParseServiceCategory(string(svc.Category)); err != nil {
			return nil, &LoadError{Message: fmt.Sprintf("service %d", i), Cause: err}
		}
		if _, dup := c.index[svc.Category]; dup {
			return nil, &LoadError{Message: fmt.Sprintf("duplicate service %s", svc.Category)}
		}
		for j, item := range svc.Items {
			if err := item.Quantity.check(); err != nil {
				return nil, &LoadError{Message: fmt.Sprintf("service %s item %d", svc.Category, j), Cause: err}
			}
		}
		c.doc.Services[i].Keywords = foldKeywords(svc.Keywords)
		c.index[svc.Category] = i
	}
	if _, ok := c.index[doc.DefaultCategory]; !ok {
		return nil, &LoadError{Message: fmt.Sprintf("default category %s is not in the catalog", doc.DefaultCategory)}
	}
	return c, nil
}

func foldKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		out = append(out, textnorm.Fold(k))
	}
	return out
}

// DefaultCategory is used when no keyword matches
func (c *Catalog) DefaultCategory() types.ServiceCategory { return c.doc.DefaultCategory }

// TaxRate is the sales tax applied to quotation subtotals
func (c *Catalog) TaxRate() float64 { return c.doc.TaxRate }

// Currency is the ISO code all prices are expressed in
func (c *Catalog) Currency() string { return c.doc.Currency }

// ValidityDays is how long a quotation stays valid
func (c *Catalog) ValidityDays() int { return c.doc.ValidityDays }

// Author signs generated reports
func (c *Catalog) Author() string { return c.doc.Author }

// Services returns copies of all services in declaration order
func (c *Catalog) Services() []Service {
	out := make([]Service, 0, len(c.doc.Services))
	for _, s := range c.doc.Services {
		out = append(out, cloneService(s))
	}
	return out
}

// Service returns a copy of the entry for a category
func (c *Catalog) Service(category types.ServiceCategory) (Service, bool) {
	i, ok := c.index[category]
	if !ok {
		return Service{}, false
	}
	return cloneService(c.doc.Services[i]), true
}

// Bibliography returns the common references followed by the service-specific ones
func (c *Catalog) Bibliography(category types.ServiceCategory) []string {
	out := slices.Clone(c.doc.CommonBibliography)
	if i, ok := c.index[category]; ok {
		out = append(out, c.doc.Services[i].Bibliography...)
	}
	return out
}

// LineItemsFor prices the templates of a service for a tier. Quantities are rounded to two
// decimals before pricing. An unknown service or a tier with no templates yields no items.
func (c *Catalog) LineItemsFor(category types.ServiceCategory, tier types.Tier, entities types.ExtractedEntities) []types.LineItem {
	i, ok := c.index[category]
	if !ok {
		log.Printf("[catalog-gap] SEVERE: no catalog entry for service %q", category)
		return []types.LineItem{}
	}
	svc := c.doc.Services[i]

	items := make([]types.LineItem, 0, len(svc.Items))
	for _, tpl := range svc.Items {
		if !tpl.AppliesTo(tier) {
			continue
		}
		qty := tpl.Quantity.Evaluate(entities, svc.Defaults)
		items = append(items, types.LineItem{
			Description: tpl.Description,
			Unit:        tpl.Unit,
			Quantity:    qty,
			UnitPrice:   tpl.UnitPrice,
			Total:       RoundCents(qty * tpl.UnitPrice),
		})
	}
	if len(items) == 0 {
		log.Printf("[catalog-gap] SEVERE: service %q has no line items for tier %q", category, tier)
	}
	return items
}

func cloneService(s Service) Service {
	s.Keywords = slices.Clone(s.Keywords)
	s.Bibliography = slices.Clone(s.Bibliography)
	s.Items = slices.Clone(s.Items)
	for i := range s.Items {
		s.Items[i].Tiers = slices.Clone(s.Items[i].Tiers)
	}
	if s.Defaults != nil {
		defaults := make(map[types.EntityField]float64, len(s.Defaults))
		for k, v := range s.Defaults {
			defaults[k] = v
		}
		s.Defaults = defaults
	}
	return s
}

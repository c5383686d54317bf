// Package types provides type definitions for structured data used throughout the docsynth system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// ServiceCategory identifies one of the engineering service lines offered in the catalog
type ServiceCategory string

// Service categories, in catalog declaration order
const (
	ServiceElectricalResidential ServiceCategory = "electrical-residential"
	ServiceElectricalCommercial  ServiceCategory = "electrical-commercial"
	ServiceElectricalIndustrial  ServiceCategory = "electrical-industrial"
	ServiceFireProtection        ServiceCategory = "fire-protection"
	ServiceHomeAutomation        ServiceCategory = "home-automation"
	ServiceBuildingPermits       ServiceCategory = "building-permits"
	ServiceSanitation            ServiceCategory = "sanitation"
	ServiceITSECertification     ServiceCategory = "itse-certification"
	ServiceGrounding             ServiceCategory = "grounding"
	ServiceNetworksCCTV          ServiceCategory = "networks-cctv"
)

// AllServiceCategories returns every known category in declaration order
func AllServiceCategories() []ServiceCategory {
	return []ServiceCategory{
		ServiceElectricalResidential,
		ServiceElectricalCommercial,
		ServiceElectricalIndustrial,
		ServiceFireProtection,
		ServiceHomeAutomation,
		ServiceBuildingPermits,
		ServiceSanitation,
		ServiceITSECertification,
		ServiceGrounding,
		ServiceNetworksCCTV,
	}
}

// ParseServiceCategory converts a string into a ServiceCategory
func ParseServiceCategory(s string) (ServiceCategory, error) {
	candidate := ServiceCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range AllServiceCategories() {
		if c == candidate {
			return c, nil
		}
	}
	return "", &InvalidRequestError{Field: "service", Value: s}
}

// Tier is the depth requested for a document
type Tier string

const (
	// TierSimple produces the short, technical variant of a document
	TierSimple Tier = "simple"
	// TierComplex produces the extended, executive variant of a document
	TierComplex Tier = "complex"
)

// ParseTier converts a string into a Tier
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierSimple:
		return TierSimple, nil
	case TierComplex:
		return TierComplex, nil
	default:
		return "", &InvalidRequestError{Field: "tier", Value: s}
	}
}

// IsComplex reports whether the tier is the complex variant
func (t Tier) IsComplex() bool {
	return t == TierComplex
}

// DocumentKind is the type of deliverable to synthesize
type DocumentKind string

const (
	// KindQuotation is a priced line-item quotation
	KindQuotation DocumentKind = "quotation"
	// KindProject is a phased project plan
	KindProject DocumentKind = "project"
	// KindReport is a technical or executive report
	KindReport DocumentKind = "report"
)

// ParseDocumentKind converts a string into a DocumentKind
func ParseDocumentKind(s string) (DocumentKind, error) {
	switch DocumentKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindQuotation:
		return KindQuotation, nil
	case KindProject:
		return KindProject, nil
	case KindReport:
		return KindReport, nil
	default:
		return "", &InvalidRequestError{Field: "kind", Value: s}
	}
}

package types

// EntityField names a numeric entity that catalog quantity rules can read
type EntityField string

// Numeric entity fields
const (
	FieldAreaM2     EntityField = "area_m2"
	FieldFloors     EntityField = "floors"
	FieldPointCount EntityField = "point_count"
	FieldPowerHP    EntityField = "power_hp"
)

// InstallationType describes whether the work is new, a remodel or an expansion
type InstallationType string

// Installation types
const (
	InstallationNew       InstallationType = "new"
	InstallationRemodel   InstallationType = "remodel"
	InstallationExpansion InstallationType = "expansion"
)

// ExtractedEntities holds the quantities pulled out of a free-text description.
// Numeric fields are nil when the text did not mention them.
type ExtractedEntities struct {
	AreaM2           *float64         `json:"area_m2,omitempty"`
	Floors           *int             `json:"floors,omitempty"`
	PointCount       *int             `json:"point_count,omitempty"`
	PowerHP          *float64         `json:"power_hp,omitempty"`
	InstallationType InstallationType `json:"installation_type,omitempty"`
	Client           string           `json:"client,omitempty"`
}

// Value returns the numeric value of a field and whether it was present
func (e ExtractedEntities) Value(field EntityField) (float64, bool) {
	switch field {
	case FieldAreaM2:
		if e.AreaM2 != nil {
			return *e.AreaM2, true
		}
	case FieldFloors:
		if e.Floors != nil {
			return float64(*e.Floors), true
		}
	case FieldPointCount:
		if e.PointCount != nil {
			return float64(*e.PointCount), true
		}
	case FieldPowerHP:
		if e.PowerHP != nil {
			return *e.PowerHP, true
		}
	}
	return 0, false
}

// ValueOr returns the numeric value of a field, or def when absent
func (e ExtractedEntities) ValueOr(field EntityField, def float64) float64 {
	if v, ok := e.Value(field); ok {
		return v
	}
	return def
}

// Missing returns the numeric fields that were not extracted, in a fixed order
func (e ExtractedEntities) Missing() []EntityField {
	var missing []EntityField
	for _, f := range []EntityField{FieldAreaM2, FieldFloors, FieldPointCount, FieldPowerHP} {
		if _, ok := e.Value(f); !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 {
	return &v
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

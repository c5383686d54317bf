// Package extraction pulls numeric quantities and a few descriptive attributes out of
// free-text project descriptions written in Spanish or English.
package extraction

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/docsynth/internal/textnorm"
	"github.com/jonathan/docsynth/internal/types"
)

// kwToHP converts kilowatts to mechanical horsepower
const kwToHP = 1.34102

// Plausibility bounds; matches outside them are skipped and later matches are tried.
const (
	maxAreaM2     = 1_000_000
	maxFloors     = 200
	maxPointCount = 100_000
	maxPowerHP    = 100_000
)

const number = `(\d+(?:[.,]\d+)*)`

var (
	areaPatterns = []*regexp.Regexp{
		regexp.MustCompile(number + `\s*(?:m2|m²|mt2|mts2|sqm|sq\.?\s?m\b|mts?\.?\s+cuadrados?|metros?\s+cuadrados?|square\s+met(?:er|re)s?|m\s+cuadrados?)`),
		regexp.MustCompile(`(?:area|superficie)\s+(?:de|of|total\s+de)?\s*` + number),
	}
	floorsPattern = regexp.MustCompile(number + `\s*(?:pisos?|niveles?|plantas?|floors?|stor(?:e?ys?|ies)|levels?)\b`)
	countPattern  = regexp.MustCompile(number + `\s*(?:puntos?|points?|tomacorrientes?|outlets?|luces|lights?|luminarias?|detectores|detectors?|camaras?|cameras?)\b`)
	powerPattern  = regexp.MustCompile(number + `\s*(hp|kw|kilovatios?|kilowatts?)\b`)
	clientPattern = regexp.MustCompile(`(?i)\b(?:cliente|client|empresa|company)\s*[:\-]\s*([^\n,;.]+)`)
)

var (
	remodelTerms   = []string{"remodelacion", "remodelar", "remodel", "renovacion", "renovation", "refurbish"}
	expansionTerms = []string{"ampliacion", "ampliar", "expansion", "extension", "expand"}
	complexTerms   = []string{"complejo", "complex", "ejecutivo", "executive", "detallado", "detailed", "integral", "kpi", "roi", "financiero", "financial", "gerencial", "management"}
)

// complexAreaThreshold is the area above which SuggestTier recommends the complex tier
const complexAreaThreshold = 300

// Extract returns the entities found in text. It never fails; absent quantities stay nil.
func Extract(text string) types.ExtractedEntities {
	folded := textnorm.Fold(text)

	var e types.ExtractedEntities
	for _, p := range areaPatterns {
		if v, ok := firstFloat(p, folded, 0, maxAreaM2); ok {
			e.AreaM2 = types.Float64Ptr(v)
			break
		}
	}
	if v, ok := firstInt(floorsPattern, folded, 1, maxFloors); ok {
		e.Floors = types.IntPtr(v)
	}
	if v, ok := firstInt(countPattern, folded, 1, maxPointCount); ok {
		e.PointCount = types.IntPtr(v)
	}
	if v, ok := firstPower(folded); ok {
		e.PowerHP = types.Float64Ptr(v)
	}
	e.InstallationType = installationType(folded)
	e.Client = client(text)
	return e
}

// SuggestTier recommends a tier from complexity markers in the text or a large area
func SuggestTier(text string, entities types.ExtractedEntities) types.Tier {
	tokens := textnorm.Tokens(text)
	for _, term := range complexTerms {
		if textnorm.CountPhrase(tokens, []string{term}) > 0 {
			return types.TierComplex
		}
	}
	if area, ok := entities.Value(types.FieldAreaM2); ok && area > complexAreaThreshold {
		return types.TierComplex
	}
	return types.TierSimple
}

func firstFloat(p *regexp.Regexp, text string, lower, upper float64) (float64, bool) {
	for _, m := range p.FindAllStringSubmatch(text, -1) {
		v, err := ParseNumber(m[1])
		if err != nil {
			continue
		}
		if v > lower && v <= upper {
			return v, true
		}
	}
	return 0, false
}

func firstInt(p *regexp.Regexp, text string, lower, upper int) (int, bool) {
	for _, m := range p.FindAllStringSubmatch(text, -1) {
		f, err := ParseNumber(m[1])
		if err != nil || f != math.Trunc(f) {
			continue
		}
		if v := int(f); v >= lower && v <= upper {
			return v, true
		}
	}
	return 0, false
}

func firstPower(text string) (float64, bool) {
	for _, m := range powerPattern.FindAllStringSubmatch(text, -1) {
		v, err := ParseNumber(m[1])
		if err != nil {
			continue
		}
		if m[2] != "hp" {
			v = roundTo(v*kwToHP, 2)
		}
		if v > 0 && v <= maxPowerHP {
			return v, true
		}
	}
	return 0, false
}

func installationType(folded string) types.InstallationType {
	tokens := textnorm.Tokens(folded)
	has := func(terms []string) bool {
		for _, term := range terms {
			if textnorm.CountPhrase(tokens, []string{term}) > 0 {
				return true
			}
		}
		return false
	}
	switch {
	case has(remodelTerms):
		return types.InstallationRemodel
	case has(expansionTerms):
		return types.InstallationExpansion
	default:
		return types.InstallationNew
	}
}

func client(text string) string {
	m := clientPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	name := strings.Join(strings.Fields(m[1]), " ")
	if utf8.RuneCountInString(name) > 80 {
		name = strings.TrimSpace(string([]rune(name)[:80]))
	}
	return name
}

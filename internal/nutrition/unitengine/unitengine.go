// Package unitengine classifies units (mass, volume, count, custom-per-food)
// and converts quantities within a category, per spec §4.1. It is a small,
// stateless calculator package in the shape the base codebase uses for its
// analytics calculators: a zero-field struct whose methods are pure
// functions over their arguments.
package unitengine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kjanat/nutricore/internal/domain/fooditem"
	"github.com/kjanat/nutricore/internal/domain/shared"
)

// Mass base = grams.
var massFactors = map[string]float64{
	"g":  1,
	"mg": 0.001,
	"kg": 1000,
	"oz": 28.3495,
	"lb": 453.592,
}

// Volume base = millilitres.
var volumeFactors = map[string]float64{
	"ml":     1,
	"l":      1000,
	"tsp":    4.92892,
	"tbsp":   14.7868,
	"fl_oz":  29.5735,
	"cup":    236.588,
	"pint":   473.176,
	"quart":  946.353,
	"gallon": 3785.41,
}

// Count tokens resolve via the food item's grams_per_serving: one "each"
// equals one serving.
var countTokens = map[string]bool{"each": true, "piece": true, "slice": true}

const servingAlias = "serving"

type category int

const (
	categoryUnknown category = iota
	categoryMass
	categoryVolume
	categoryCount
)

func classify(unit string) category {
	u := strings.ToLower(strings.TrimSpace(unit))
	if _, ok := massFactors[u]; ok {
		return categoryMass
	}
	if _, ok := volumeFactors[u]; ok {
		return categoryVolume
	}
	if countTokens[u] {
		return categoryCount
	}
	return categoryUnknown
}

func baseUnitCategory(b shared.BaseUnitType) category {
	switch b {
	case shared.BaseUnitMass:
		return categoryMass
	case shared.BaseUnitVolume:
		return categoryVolume
	case shared.BaseUnitCount:
		return categoryCount
	default:
		return categoryUnknown
	}
}

// Engine is the stateless Unit Engine of spec.md §4.1.
type Engine struct{}

// New constructs a new Unit Engine.
func New() Engine { return Engine{} }

// Multiplier resolves a (quantity, unit, food) triple into a scaling
// multiplier relative to "one serving of that food item", following the
// algorithm of spec.md §4.1 step by step:
//
//  1. unit == "serving" -> multiplier = quantity.
//  2. classify the unit and compare against the food's base category.
//  3. matching category -> convert to base units, divide by the food's
//     per-serving base amount.
//  4. otherwise, look the unit up as a food-item-specific custom conversion.
//  5. count units resolve via the food's grams_per_serving.
//  6. anything else fails with UnitIncompatible.
func (Engine) Multiplier(food fooditem.FoodItem, conversions []fooditem.Conversion, quantity float64, unit string) (float64, error) {
	u := strings.ToLower(strings.TrimSpace(unit))

	if u == servingAlias {
		return quantity, nil
	}

	foodCat := baseUnitCategory(food.BaseUnitType)
	givenCat := classify(u)

	switch givenCat {
	case categoryMass:
		if foodCat == categoryMass {
			if food.GramsPerServing == nil || *food.GramsPerServing <= 0 {
				return 0, shared.NewUnitIncompatibleError(unit, string(food.BaseUnitType))
			}
			grams := quantity * massFactors[u]
			return grams / *food.GramsPerServing, nil
		}
	case categoryVolume:
		if foodCat == categoryVolume {
			if food.MLPerServing == nil || *food.MLPerServing <= 0 {
				return 0, shared.NewUnitIncompatibleError(unit, string(food.BaseUnitType))
			}
			ml := quantity * volumeFactors[u]
			return ml / *food.MLPerServing, nil
		}
	case categoryCount:
		if foodCat == categoryCount {
			return quantity, nil
		}
	}

	// Custom conversion: a token recognized only for this specific food item.
	for _, c := range conversions {
		if !strings.EqualFold(c.UnitName, unit) {
			continue
		}
		switch foodCat {
		case categoryMass:
			if c.GramsEquivalent == nil || food.GramsPerServing == nil || *food.GramsPerServing <= 0 {
				continue
			}
			grams := quantity * *c.GramsEquivalent
			return grams / *food.GramsPerServing, nil
		case categoryVolume:
			if c.MLEquivalent == nil || food.MLPerServing == nil || *food.MLPerServing <= 0 {
				continue
			}
			ml := quantity * *c.MLEquivalent
			return ml / *food.MLPerServing, nil
		}
	}

	return 0, shared.NewUnitIncompatibleError(unit, string(food.BaseUnitType))
}

// ConvertUnit converts a value between two units of the same category only
// (mass<->mass, volume<->volume); spec.md §9 restricts the global utility to
// in-category conversion because custom/count units are per-food-item.
func (Engine) ConvertUnit(value float64, from, to string) (float64, error) {
	f := strings.ToLower(strings.TrimSpace(from))
	t := strings.ToLower(strings.TrimSpace(to))

	if ff, ok := massFactors[f]; ok {
		if ft, ok2 := massFactors[t]; ok2 {
			return value * ff / ft, nil
		}
	}
	if ff, ok := volumeFactors[f]; ok {
		if ft, ok2 := volumeFactors[t]; ok2 {
			return value * ff / ft, nil
		}
	}
	return 0, shared.NewUnitIncompatibleError(from, to)
}

// compoundUnitPattern matches a serving_unit string like "2 tbsp (20g)" or
// "1 cup (240ml)": a quantity, a unit token, and a parenthesized mass/volume
// annotation.
var compoundUnitPattern = regexp.MustCompile(`(?i)^\s*([0-9.]+)\s*([a-z_]+)\s*\(\s*([0-9.]+)\s*(g|ml)\s*\)\s*$`)

// SmartUnitResult is the outcome of parsing a compound serving_unit string.
type SmartUnitResult struct {
	BaseUnitType    shared.BaseUnitType
	GramsPerServing *float64
	MLPerServing    *float64
}

// ParseServingUnit extracts the parenthesized mass/volume annotation from a
// compound serving_unit string, per spec.md §4.1's smart-unit parsing rule.
// Returns ok=false if servingUnit is not a recognized compound form, in
// which case the caller must already have an explicit base_unit_type.
func (Engine) ParseServingUnit(servingUnit string) (SmartUnitResult, bool) {
	m := compoundUnitPattern.FindStringSubmatch(servingUnit)
	if m == nil {
		return SmartUnitResult{}, false
	}
	amount, err := strconv.ParseFloat(m[3], 64)
	if err != nil || amount <= 0 {
		return SmartUnitResult{}, false
	}
	switch strings.ToLower(m[4]) {
	case "g":
		return SmartUnitResult{BaseUnitType: shared.BaseUnitMass, GramsPerServing: &amount}, true
	case "ml":
		return SmartUnitResult{BaseUnitType: shared.BaseUnitVolume, MLPerServing: &amount}, true
	default:
		return SmartUnitResult{}, false
	}
}

// DeriveConversion builds the custom FoodItemConversion implied by a compound
// serving_unit whose leading token's natural category does not match the
// parenthesized mass/volume annotation — e.g. "2 tbsp (20g)" implies
// 1 tbsp ≈ 10 g for this specific food item, even though "tbsp" is itself a
// recognized volume unit, because the food's base category here is mass.
// This is the fix for the historical bug documented in spec.md §4.1: without
// recording this per-food conversion, a later "8 tbsp" of the same food
// would be scaled as if tbsp and g were directly interchangeable. Returns
// ok=false if servingUnit is not a recognized compound form, or its token's
// natural category already matches the annotation (no custom conversion
// needed — the primary categorized path in Multiplier already handles it).
func (Engine) DeriveConversion(servingUnit string) (unitName string, gramsEquivalent, mlEquivalent *float64, ok bool) {
	m := compoundUnitPattern.FindStringSubmatch(servingUnit)
	if m == nil {
		return "", nil, nil, false
	}
	qty, errQty := strconv.ParseFloat(m[1], 64)
	amount, errAmt := strconv.ParseFloat(m[3], 64)
	if errQty != nil || errAmt != nil || qty <= 0 || amount <= 0 {
		return "", nil, nil, false
	}
	token := strings.ToLower(m[2])
	annotationCategory := categoryMass
	if strings.ToLower(m[4]) == "ml" {
		annotationCategory = categoryVolume
	}
	if classify(token) == annotationCategory {
		// The token already matches its annotation's category (e.g. "1 cup
		// (240ml)"); the primary categorized conversion path suffices.
		return "", nil, nil, false
	}
	perUnit := amount / qty
	switch annotationCategory {
	case categoryMass:
		return token, &perUnit, nil, true
	case categoryVolume:
		return token, nil, &perUnit, true
	default:
		return "", nil, nil, false
	}
}

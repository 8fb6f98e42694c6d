package shared

import (
	"database/sql"        // For sql.Scanner interface
	"database/sql/driver" // For driver.Valuer interface
	"fmt"
)

// Preference captures a user's standing disposition toward a FoodItem.
type Preference string

const (
	PreferenceLiked    Preference = "LIKED"
	PreferenceDisliked Preference = "DISLIKED"
	PreferenceNeutral  Preference = "NEUTRAL"
)

// AllPreferences returns all valid Preference values.
func AllPreferences() []Preference {
	return []Preference{PreferenceLiked, PreferenceDisliked, PreferenceNeutral}
}

// IsValid checks if the Preference value is valid.
func (p Preference) IsValid() bool {
	for _, valid := range AllPreferences() {
		if p == valid {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (p Preference) String() string {
	return string(p)
}

// Value implements the driver.Valuer interface for database storage.
func (p Preference) Value() (driver.Value, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid preference: %s", p)
	}
	return string(p), nil
}

// ParsePreference converts a string to Preference with validation.
func ParsePreference(s string) (Preference, error) {
	p := Preference(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid preference: %s", s)
	}
	return p, nil
}

// Scan implements the sql.Scanner interface for database reading.
func (p *Preference) Scan(value interface{}) error {
	if value == nil {
		*p = ""
		return nil
	}
	switch s := value.(type) {
	case string:
		parsed, err := ParsePreference(s)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	case []byte:
		parsed, err := ParsePreference(string(s))
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Preference", value)
	}
}

// BaseUnitType classifies the unit category a FoodItem's serving is expressed in.
type BaseUnitType string

const (
	BaseUnitMass   BaseUnitType = "MASS"
	BaseUnitVolume BaseUnitType = "VOLUME"
	BaseUnitCount  BaseUnitType = "COUNT"
)

// AllBaseUnitTypes returns all valid BaseUnitType values.
func AllBaseUnitTypes() []BaseUnitType {
	return []BaseUnitType{BaseUnitMass, BaseUnitVolume, BaseUnitCount}
}

// IsValid checks if the BaseUnitType value is valid.
func (b BaseUnitType) IsValid() bool {
	for _, valid := range AllBaseUnitTypes() {
		if b == valid {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (b BaseUnitType) String() string {
	return string(b)
}

// Value implements the driver.Valuer interface for database storage.
func (b BaseUnitType) Value() (driver.Value, error) {
	if !b.IsValid() {
		return nil, fmt.Errorf("invalid base unit type: %s", b)
	}
	return string(b), nil
}

// ParseBaseUnitType converts a string to BaseUnitType with validation.
func ParseBaseUnitType(s string) (BaseUnitType, error) {
	b := BaseUnitType(s)
	if !b.IsValid() {
		return "", fmt.Errorf("invalid base unit type: %s", s)
	}
	return b, nil
}

// Scan implements the sql.Scanner interface for database reading.
func (b *BaseUnitType) Scan(value interface{}) error {
	if value == nil {
		*b = ""
		return nil
	}
	switch s := value.(type) {
	case string:
		parsed, err := ParseBaseUnitType(s)
		if err != nil {
			return err
		}
		*b = parsed
		return nil
	case []byte:
		parsed, err := ParseBaseUnitType(string(s))
		if err != nil {
			return err
		}
		*b = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into BaseUnitType", value)
	}
}

// MealType classifies which meal of the day a MealEntry belongs to.
type MealType string

const (
	MealTypeBreakfast   MealType = "BREAKFAST"
	MealTypeLunch       MealType = "LUNCH"
	MealTypeDinner      MealType = "DINNER"
	MealTypeSnack       MealType = "SNACK"
	MealTypeUnspecified MealType = "UNSPECIFIED"
)

// AllMealTypes returns all valid MealType values.
func AllMealTypes() []MealType {
	return []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack, MealTypeUnspecified}
}

// IsValid checks if the MealType value is valid.
func (m MealType) IsValid() bool {
	for _, valid := range AllMealTypes() {
		if m == valid {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (m MealType) String() string {
	return string(m)
}

// Value implements the driver.Valuer interface for database storage.
func (m MealType) Value() (driver.Value, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("invalid meal type: %s", m)
	}
	return string(m), nil
}

// ParseMealType converts a string to MealType with validation.
func ParseMealType(s string) (MealType, error) {
	m := MealType(s)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid meal type: %s", s)
	}
	return m, nil
}

// Scan implements the sql.Scanner interface for database reading.
func (m *MealType) Scan(value interface{}) error {
	if value == nil {
		*m = ""
		return nil
	}
	switch s := value.(type) {
	case string:
		parsed, err := ParseMealType(s)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case []byte:
		parsed, err := ParseMealType(string(s))
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into MealType", value)
	}
}

// Compile-time interface assertions.
var (
	_ driver.Valuer = (*Preference)(nil)
	_ sql.Scanner   = (*Preference)(nil)
	_ driver.Valuer = (*BaseUnitType)(nil)
	_ sql.Scanner   = (*BaseUnitType)(nil)
	_ driver.Valuer = (*MealType)(nil)
	_ sql.Scanner   = (*MealType)(nil)
)

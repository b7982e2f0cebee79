// Package dictionary serves the reference data used by listings, spare parts
// and appointments, and exposes it as validation tags.
package dictionary

import (
	_ "embed"
	"fmt"

	"motormarket_backend/platform/validator"

	"gopkg.in/yaml.v3"
)

//go:embed data/dictionaries.yaml
var rawDictionaries []byte

// Validation tags backed by the dictionaries.
const (
	TagMake            = "vehiclemake"
	TagFuelType        = "fueltype"
	TagTransmission    = "transmission"
	TagBodyType        = "bodytype"
	TagCondition       = "vehiclecondition"
	TagPartCategory    = "partcategory"
	TagPartCondition   = "partcondition"
	TagAppointmentKind = "appointmentkind"
)

// Dictionaries is the full reference data set.
type Dictionaries struct {
	Makes            []string `yaml:"makes" json:"makes"`
	FuelTypes        []string `yaml:"fuelTypes" json:"fuelTypes"`
	Transmissions    []string `yaml:"transmissions" json:"transmissions"`
	BodyTypes        []string `yaml:"bodyTypes" json:"bodyTypes"`
	Conditions       []string `yaml:"conditions" json:"conditions"`
	PartCategories   []string `yaml:"partCategories" json:"partCategories"`
	PartConditions   []string `yaml:"partConditions" json:"partConditions"`
	AppointmentKinds []string `yaml:"appointmentKinds" json:"appointmentKinds"`
}

// Load parses the embedded dictionaries.
func Load() (*Dictionaries, error) {
	return parse(rawDictionaries)
}

func parse(data []byte) (*Dictionaries, error) {
	var d Dictionaries
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse dictionaries: %w", err)
	}
	for name, values := range d.byTag() {
		if len(values) == 0 {
			return nil, fmt.Errorf("dictionary %s is empty", name)
		}
	}
	return &d, nil
}

func (d *Dictionaries) byTag() map[string][]string {
	return map[string][]string{
		TagMake:            d.Makes,
		TagFuelType:        d.FuelTypes,
		TagTransmission:    d.Transmissions,
		TagBodyType:        d.BodyTypes,
		TagCondition:       d.Conditions,
		TagPartCategory:    d.PartCategories,
		TagPartCondition:   d.PartConditions,
		TagAppointmentKind: d.AppointmentKinds,
	}
}

// RegisterValidators adds one oneof-style tag per dictionary to val.
func (d *Dictionaries) RegisterValidators(val *validator.Validator) error {
	for tag, values := range d.byTag() {
		if err := val.RegisterOneOf(tag, values); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

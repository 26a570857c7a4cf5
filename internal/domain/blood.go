package domain

import (
	"fmt"
	"strings"
)

// BloodType is one of the eight canonical ABO/Rh groups.
type BloodType string

const (
	BloodAPos  BloodType = "A+"
	BloodANeg  BloodType = "A-"
	BloodBPos  BloodType = "B+"
	BloodBNeg  BloodType = "B-"
	BloodABPos BloodType = "AB+"
	BloodABNeg BloodType = "AB-"
	BloodOPos  BloodType = "O+"
	BloodONeg  BloodType = "O-"
)

// BloodTypes lists all valid groups in display order.
var BloodTypes = []BloodType{
	BloodAPos, BloodANeg,
	BloodBPos, BloodBNeg,
	BloodABPos, BloodABNeg,
	BloodOPos, BloodONeg,
}

// ParseBloodType validates user input against the canonical tokens.
// Input is upper-cased before comparison.
func ParseBloodType(raw string) (BloodType, error) {
	token := BloodType(strings.ToUpper(strings.TrimSpace(raw)))
	for _, bt := range BloodTypes {
		if token == bt {
			return bt, nil
		}
	}
	return "", fmt.Errorf("unknown blood type %q", raw)
}

// Valid reports whether the value is one of the eight canonical groups.
func (bt BloodType) Valid() bool {
	_, err := ParseBloodType(string(bt))
	return err == nil
}

func (bt BloodType) String() string { return string(bt) }

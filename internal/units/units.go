// Package units converts lengths between millimetres, centimetres and metres.
package units

import (
	"fmt"
	"strings"

	"github.com/buildmat/buildmat/internal/shared"
)

// Unit is a supported length unit.
type Unit string

const (
	Millimetre Unit = "mm"
	Centimetre Unit = "cm"
	Metre      Unit = "m"
)

// ErrUnknownUnit is returned for anything other than mm, cm or m.
var ErrUnknownUnit = fmt.Errorf("%w: unknown unit", shared.ErrInvalidInput)

func MMToM(v float64) float64 { return v / 1000 }
func CMToM(v float64) float64 { return v / 100 }
func MToCM(v float64) float64 { return v * 100 }
func MToMM(v float64) float64 { return v * 1000 }

// Parse normalises a unit name. Surrounding space and case are ignored.
func Parse(raw string) (Unit, error) {
	switch u := Unit(strings.ToLower(strings.TrimSpace(raw))); u {
	case Millimetre, Centimetre, Metre:
		return u, nil
	default:
		return "", fmt.Errorf("%w %q, use mm, cm or m", ErrUnknownUnit, raw)
	}
}

// ToMetres converts value expressed in unit to metres.
func ToMetres(value float64, unit string) (float64, error) {
	u, err := Parse(unit)
	if err != nil {
		return 0, err
	}
	switch u {
	case Millimetre:
		return MMToM(value), nil
	case Centimetre:
		return CMToM(value), nil
	default:
		return value, nil
	}
}

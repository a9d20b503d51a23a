// Package quantity provides a units-carrying numeric scalar. The codec
// serializes it under its own tag so readings keep their unit across
// store and load.
package quantity

import "fmt"

// Quantity is a numeric value paired with a unit string. The unit is
// opaque: no conversion or dimensional analysis happens here, the pair
// only has to survive serialization intact.
type Quantity struct {
	Value float64
	Unit  string
}

// New builds a Quantity.
func New(value float64, unit string) Quantity {
	return Quantity{Value: value, Unit: unit}
}

func (q Quantity) String() string {
	return fmt.Sprintf("%v %s", q.Value, q.Unit)
}

// Add returns q + other. Units must match exactly.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	if q.Unit != other.Unit {
		return Quantity{}, fmt.Errorf("quantity: unit mismatch: %q vs %q", q.Unit, other.Unit)
	}
	return Quantity{Value: q.Value + other.Value, Unit: q.Unit}, nil
}

// Scale returns q scaled by a unitless factor.
func (q Quantity) Scale(factor float64) Quantity {
	return Quantity{Value: q.Value * factor, Unit: q.Unit}
}

// Package types holds the value types shared by the reduction engine and its
// scheduler.
package types

import "golang.org/x/exp/constraints"

// Number is the set of element types a buffer can be reduced over.
type Number interface {
	constraints.Integer | constraints.Float
}

// IsFloat reports whether T is a floating-point type. Integer division of one
// by two truncates to zero, float division does not.
func IsFloat[T Number]() bool {
	var half T = 1
	half /= 2
	return half != 0
}

// Package viseme defines the closed set of mouth shapes used for lip-sync
// rendering and the catalog that binds each shape to its image asset.
package viseme

import (
	"fmt"
)

// Shape is one of the nine Rhubarb mouth shapes. A through F are the basic
// shapes, G and H the extended ones, X the closed/resting mouth.
type Shape string

const (
	ShapeA Shape = "A"
	ShapeB Shape = "B"
	ShapeC Shape = "C"
	ShapeD Shape = "D"
	ShapeE Shape = "E"
	ShapeF Shape = "F"
	ShapeG Shape = "G"
	ShapeH Shape = "H"
	ShapeX Shape = "X"
)

// Shapes lists every shape in catalog order.
var Shapes = []Shape{ShapeA, ShapeB, ShapeC, ShapeD, ShapeE, ShapeF, ShapeG, ShapeH, ShapeX}

// Rest is the neutral mouth used for silence and leading gaps.
const Rest = ShapeX

// ParseShape validates a raw symbol from the lip-timing engine.
func ParseShape(symbol string) (Shape, error) {
	switch Shape(symbol) {
	case ShapeA, ShapeB, ShapeC, ShapeD, ShapeE, ShapeF, ShapeG, ShapeH, ShapeX:
		return Shape(symbol), nil
	}
	return "", fmt.Errorf("unknown viseme symbol %q", symbol)
}

// AssetName returns the file name the catalog expects for a shape.
func (s Shape) AssetName() string {
	return fmt.Sprintf("mouth_%s.png", string(s))
}

func (s Shape) String() string {
	return string(s)
}

package models

import "image/color"

// Label is the closed set of classifications the shape classifier can emit.
// Adding a label means deciding its color and alert membership here.
type Label string

const (
	LabelPerson  Label = "person"
	LabelCar     Label = "car"
	LabelTruck   Label = "truck"
	LabelBus     Label = "bus"
	LabelVehicle Label = "vehicle"
)

// Color returns the annotation color for the label. Unknown labels get white.
func (l Label) Color() color.RGBA {
	switch l {
	case LabelCar:
		return color.RGBA{R: 100, G: 255, B: 0}
	case LabelTruck:
		return color.RGBA{R: 0, G: 150, B: 255}
	case LabelBus:
		return color.RGBA{R: 255, G: 100, B: 255}
	case LabelPerson:
		return color.RGBA{R: 255, G: 200, B: 100}
	case LabelVehicle:
		return color.RGBA{R: 0, G: 255, B: 255}
	default:
		return color.RGBA{R: 255, G: 255, B: 255}
	}
}

// Alertable reports whether a detection with this label qualifies for the
// alerts channel. Note "vehicle" is the catch-all shape and is deliberately
// not alert-worthy.
func (l Label) Alertable() bool {
	switch l {
	case LabelPerson, LabelCar, LabelTruck, LabelBus:
		return true
	default:
		return false
	}
}

package models

import (
	"image/color"
	"testing"
)

func TestLabel_Alertable(t *testing.T) {
	tests := []struct {
		label     Label
		alertable bool
	}{
		{LabelPerson, true},
		{LabelCar, true},
		{LabelTruck, true},
		{LabelBus, true},
		{LabelVehicle, false},
		{Label("drone"), false},
	}

	for _, tt := range tests {
		if got := tt.label.Alertable(); got != tt.alertable {
			t.Errorf("%s.Alertable() = %v, expected %v", tt.label, got, tt.alertable)
		}
	}
}

func TestLabel_ColorIsClosedMapping(t *testing.T) {
	known := []Label{LabelPerson, LabelCar, LabelTruck, LabelBus, LabelVehicle}
	white := color.RGBA{R: 255, G: 255, B: 255}

	seen := make(map[color.RGBA]Label)
	for _, label := range known {
		clr := label.Color()
		if clr == white {
			t.Errorf("%s has the unknown-label fallback color", label)
		}
		if prev, dup := seen[clr]; dup {
			t.Errorf("%s and %s share a color", label, prev)
		}
		seen[clr] = label
	}

	if Label("drone").Color() != white {
		t.Error("unknown label must map to white")
	}
}

func TestBBox_Area(t *testing.T) {
	b := BBox{X: 5, Y: 10, Width: 40, Height: 30}
	if b.Area() != 1200 {
		t.Errorf("Area() = %d, expected 1200", b.Area())
	}
}

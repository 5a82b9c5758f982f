package games

import (
	"fmt"
	"strings"

	"github.com/leminhai2007/minigames-go/internal/engine"
)

const (
	// WheelMinItems and WheelMaxItems bound how many labels a wheel holds.
	WheelMinItems = 2
	WheelMaxItems = 24

	// Full turns the wheel makes before settling on the winning segment.
	wheelSpinTurns = 5
)

// SpinResult is the outcome of one wheel spin. Angle is the clockwise
// rotation in degrees that parks the pointer on the winning segment's
// center, including the show turns.
type SpinResult struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Angle float64 `json:"angle"`
}

// ValidateWheelItems checks a label list for use on a wheel.
func ValidateWheelItems(labels []string) error {
	if len(labels) < WheelMinItems || len(labels) > WheelMaxItems {
		return fmt.Errorf("games: wheel needs %d to %d items, got %d", WheelMinItems, WheelMaxItems, len(labels))
	}
	for i, l := range labels {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("games: wheel item %d is empty", i)
		}
	}
	return nil
}

// SpinWheel picks one label uniformly and computes the settling angle.
func SpinWheel(rng engine.Source, labels []string) (SpinResult, error) {
	if err := ValidateWheelItems(labels); err != nil {
		return SpinResult{}, err
	}

	index := rng.Intn(len(labels))
	segment := 360.0 / float64(len(labels))
	center := (float64(index) + 0.5) * segment

	return SpinResult{
		Index: index,
		Label: labels[index],
		Angle: wheelSpinTurns*360 + (360 - center),
	}, nil
}

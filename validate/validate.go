// Package validate holds structural checks run on an assembled level before
// it is exported.
package validate

import (
	"errors"
	"fmt"

	"github.com/milk9111/levelforge/levels"
)

var (
	ErrMissingObject = errors.New("required object missing")
	ErrDensity       = errors.New("object density out of bounds")
)

// Validator inspects a level and returns nil when it passes.
type Validator interface {
	Validate(l *levels.Level) error
}

// Func adapts a plain function to Validator.
type Func func(l *levels.Level) error

func (f Func) Validate(l *levels.Level) error { return f(l) }

// Consistency checks that the grid and the placement records agree.
type Consistency struct{}

func (Consistency) Validate(l *levels.Level) error {
	return l.CheckConsistency()
}

// Required checks that every listed reference is placed at least once.
type Required struct {
	Refs []string
}

func (r Required) Validate(l *levels.Level) error {
	present := make(map[string]bool)
	for _, p := range l.Placements() {
		present[p.Object] = true
	}

	var errs []error
	for _, ref := range r.Refs {
		if !present[ref] {
			errs = append(errs, fmt.Errorf("validate: %q: %w", ref, ErrMissingObject))
		}
	}
	return errors.Join(errs...)
}

// Density bounds the fraction of occupied cells. Max <= 0 means no upper bound.
type Density struct {
	Min float64
	Max float64
}

func (d Density) Validate(l *levels.Level) error {
	if l.Len() == 0 {
		return nil
	}
	got := float64(len(l.Placements())) / float64(l.Len())
	if got < d.Min || (d.Max > 0 && got > d.Max) {
		return fmt.Errorf("validate: density %.3f not in [%.3f, %.3f]: %w", got, d.Min, d.Max, ErrDensity)
	}
	return nil
}

// All runs every validator and joins their findings.
func All(vs ...Validator) Validator {
	return Func(func(l *levels.Level) error {
		var errs []error
		for _, v := range vs {
			if err := v.Validate(l); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// filepath: internal/services/service_errors.go
package services

import (
	"errors"
	"fmt"

	"photovault/internal/jobs"
	"photovault/internal/repository"
	"photovault/internal/shared"
)

// Standard errors returned by the service layer.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrNotEmpty     = errors.New("directory not empty")
	ErrInvalidInput = errors.New("invalid input")
	ErrIOFailure    = errors.New("i/o failure")
	ErrJobActive    = jobs.ErrJobActive
)

// translateRepoErr maps catalog errors onto the service taxonomy.
func translateRepoErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, shared.ErrDuplicate):
		return fmt.Errorf("%w: %s already exists", ErrConflict, what)
	}
	return err
}

// ioFailure wraps a filesystem error, keeping name and path errors distinct.
func ioFailure(err error, action string) error {
	switch {
	case errors.Is(err, shared.ErrTargetExists):
		return fmt.Errorf("%w: %s: %v", ErrConflict, action, err)
	case errors.Is(err, shared.ErrInvalidName), errors.Is(err, shared.ErrPathOutside):
		return fmt.Errorf("%w: %s: %v", ErrInvalidInput, action, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrIOFailure, action, err)
}

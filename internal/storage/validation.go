package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fixwell/autocare-match/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrEmptySlice     = errors.New("slice cannot be empty")
	ErrInvalidPart    = errors.New("invalid reference part")
	ErrInvalidVehicle = errors.New("invalid reference vehicle")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateReferenceVehicles validates a catalog slice before import.
func validateReferenceVehicles(rows []model.ReferenceVehicle) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: reference vehicles", ErrEmptySlice)
	}
	for i, row := range rows {
		if row.VehicleConfigID == 0 {
			return fmt.Errorf("%w: row %d has no vehicleConfigId", ErrInvalidVehicle, i)
		}
		if strings.TrimSpace(row.MakeName) == "" || strings.TrimSpace(row.ModelName) == "" {
			return fmt.Errorf("%w: row %d has empty make or model", ErrInvalidVehicle, i)
		}
	}
	return nil
}

// validateReferenceParts validates a catalog slice before import.
func validateReferenceParts(rows []model.ReferencePart) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: reference parts", ErrEmptySlice)
	}
	for i, row := range rows {
		if row.PartTerminologyID == 0 {
			return fmt.Errorf("%w: row %d has no partTerminologyId", ErrInvalidPart, i)
		}
		if strings.TrimSpace(row.PartName) == "" {
			return fmt.Errorf("%w: row %d has empty part name", ErrInvalidPart, i)
		}
	}
	return nil
}

package domain

import "errors"

var (
	// ErrProductNotFound signals a missing product.
	ErrProductNotFound = errors.New("product not found")
	// ErrAisleNotFound signals a missing aisle.
	ErrAisleNotFound = errors.New("aisle not found")
	// ErrInvalidProduct signals a product failing CRUD validation.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInvalidAisle signals an aisle failing CRUD validation.
	ErrInvalidAisle = errors.New("invalid aisle")
	// ErrInvalidLayout signals grid dimensions below the 2x2 minimum.
	ErrInvalidLayout = errors.New("invalid store layout")
	// ErrOutOfBounds signals a grid coordinate outside the store grid.
	ErrOutOfBounds = errors.New("coordinate out of grid bounds")
	// ErrCellOccupied signals a second aisle placed on an occupied grid cell.
	ErrCellOccupied = errors.New("grid cell already occupied")
	// ErrAisleExists signals a duplicate aisle name.
	ErrAisleExists = errors.New("aisle name already exists")
	// ErrEmptyQuery signals a blank search query.
	ErrEmptyQuery = errors.New("empty query")
	// ErrBackendUnavailable signals an optional LLM backend failure.
	// Callers degrade to the deterministic tier, never propagate it.
	ErrBackendUnavailable = errors.New("assistant backend unavailable")
)

package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrEmptySKU        = errors.New("sku must not be empty")
)

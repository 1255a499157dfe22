package repository

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrLoadDataset    = errors.New("load dataset failed")
	ErrInvalidDataset = errors.New("invalid dataset")
)

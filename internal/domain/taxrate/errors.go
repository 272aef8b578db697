package taxrate

import "errors"

var (
	ErrInvalidConfiguration = errors.New("invalid tax configuration")
	ErrRegistryNotFound     = errors.New("no active rate configuration for company")
)

package configuration

import "errors"

// ErrEmptyConfiguration is returned when a configuration file holds no entries.
var ErrEmptyConfiguration = errors.New("configuration is empty")

// ErrInvalidConfiguration is returned when a configuration file is not a mapping or a list of mappings.
var ErrInvalidConfiguration = errors.New("configuration must be a mapping or a list of mappings")

// ErrLayerLength is returned when a list-shaped default or enforced layer does not match the user entries.
var ErrLayerLength = errors.New("configuration layer has more entries than the user configuration")

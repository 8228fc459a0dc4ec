package v1alpha1

import "errors"

// ErrInvalidInfrastructure is returned when an unknown infrastructure is specified.
var ErrInvalidInfrastructure = errors.New("invalid infrastructure")

// ErrMissingInfrastructure is returned when a configuration entry names no infrastructure.
var ErrMissingInfrastructure = errors.New("infrastructure is not set")

// ErrMissingMasterInstance is returned when the first configuration entry has no master instance.
var ErrMissingMasterInstance = errors.New("masterInstance is not set")

// ErrIncompleteInstance is returned when an instance lacks its type or image.
var ErrIncompleteInstance = errors.New("instance requires type and image")

// ErrNegativeWorkerCount is returned when a worker group has a negative count.
var ErrNegativeWorkerCount = errors.New("worker count must not be negative")

// ErrMissingSSHUser is returned when a configuration entry has no ssh user.
var ErrMissingSSHUser = errors.New("sshUser is not set")

package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrJobActive       = errors.New("video already has an active job")
	ErrJobFrozen       = errors.New("job is terminal")
	ErrProjectNotEmpty = errors.New("project still has videos")
)

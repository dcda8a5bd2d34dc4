package employee

import "errors"

var (
	ErrInvalidID        = errors.New("employee: invalid id")
	ErrInvalidName      = errors.New("employee: invalid name")
	ErrInvalidLevel     = errors.New("employee: invalid level")
	ErrInvalidLabel     = errors.New("employee: invalid skill or role label")
	ErrInvalidPageSize  = errors.New("employee: invalid page size")
	ErrInvalidPageToken = errors.New("employee: invalid page token")
	ErrEmployeeNotFound = errors.New("employee: not found")
)

package assignment

import "errors"

var (
	ErrInvalidID               = errors.New("assignment: invalid id")
	ErrInvalidEmployeeID       = errors.New("assignment: invalid employee id")
	ErrInvalidProjectID        = errors.New("assignment: invalid project id")
	ErrInvalidDateRange        = errors.New("assignment: invalid date range")
	ErrInvalidUtilisation      = errors.New("assignment: utilisation is required")
	ErrEmployeeIDsRequired     = errors.New("assignment: employee ids are required")
	ErrWeekStartRequired       = errors.New("assignment: week start is required")
	ErrWeekOutsideAssignment   = errors.New("assignment: week does not intersect assignment")
	ErrAssignmentNotFound      = errors.New("assignment: not found")
	ErrAssignmentAlreadyExists = errors.New("assignment: already exists for employee, project and period")
	ErrEmployeeNotFound        = errors.New("assignment: employee not found")
	ErrProjectNotFound         = errors.New("assignment: project not found")
)

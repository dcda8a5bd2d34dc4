package report

import "errors"

var (
	ErrInvalidWindow    = errors.New("report: invalid time window")
	ErrInvalidThreshold = errors.New("report: utilization threshold must be a non-negative number")
)

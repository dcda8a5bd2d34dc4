package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ratishjain12/devx-rms/internal/core/assignment"
	"github.com/ratishjain12/devx-rms/internal/core/employee"
	"github.com/ratishjain12/devx-rms/internal/core/project"
	"github.com/ratishjain12/devx-rms/internal/core/report"
)

var errInvalidRequest = errors.New("invalid request")

const internalErrorMessage = "internal server error"

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidRequest, fmt.Sprintf(format, args...))
}

func toHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, assignment.ErrInvalidID),
		errors.Is(err, assignment.ErrInvalidEmployeeID),
		errors.Is(err, assignment.ErrInvalidProjectID),
		errors.Is(err, assignment.ErrInvalidDateRange),
		errors.Is(err, assignment.ErrInvalidUtilisation),
		errors.Is(err, assignment.ErrEmployeeIDsRequired),
		errors.Is(err, assignment.ErrWeekStartRequired),
		errors.Is(err, assignment.ErrWeekOutsideAssignment),
		errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidLevel),
		errors.Is(err, employee.ErrInvalidLabel),
		errors.Is(err, employee.ErrInvalidPageSize),
		errors.Is(err, employee.ErrInvalidPageToken),
		errors.Is(err, project.ErrInvalidID),
		errors.Is(err, project.ErrInvalidName),
		errors.Is(err, project.ErrInvalidStatus),
		errors.Is(err, project.ErrInvalidSatisfaction),
		errors.Is(err, project.ErrInvalidDateRange),
		errors.Is(err, project.ErrInvalidRequirement),
		errors.Is(err, project.ErrInvalidPageSize),
		errors.Is(err, project.ErrInvalidPageToken),
		errors.Is(err, report.ErrInvalidWindow),
		errors.Is(err, report.ErrInvalidThreshold):
		return http.StatusBadRequest
	case errors.Is(err, assignment.ErrAssignmentAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, assignment.ErrAssignmentNotFound),
		errors.Is(err, assignment.ErrEmployeeNotFound),
		errors.Is(err, assignment.ErrProjectNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, project.ErrRoleNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError はエラーを分類してレスポンスを返します。内部エラーの詳細はログにのみ出力します。
func writeError(c *gin.Context, op string, err error) {
	status := toHTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", op, err)
		c.JSON(status, gin.H{"error": internalErrorMessage})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

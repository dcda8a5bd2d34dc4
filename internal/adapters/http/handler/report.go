package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ratishjain12/devx-rms/internal/core/assignment"
	"github.com/ratishjain12/devx-rms/internal/core/report"
)

// ReportHandler は稼働率・重複レポート API の HTTP 実装です。
type ReportHandler struct {
	svc report.UseCase
}

// NewReportHandler は ReportHandler を生成します。
func NewReportHandler(svc report.UseCase) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type availableEmployeeResponse struct {
	employeeResponse
	CurrentUtilization   float64 `json:"currentUtilization"`
	AvailableUtilization float64 `json:"availableUtilization"`
}

type overlappingEmployeeResponse struct {
	EmployeeID   string                      `json:"employeeId"`
	Employee     *assignmentEmployeeResponse `json:"employee,omitempty"`
	OverlapCount int                         `json:"overlapCount"`
}

type overlapReportResponse struct {
	TotalCount              int                           `json:"totalCount"`
	TopOverlappingEmployees []overlappingEmployeeResponse `json:"topOverlappingEmployees"`
}

type overworkedEmployeeResponse struct {
	EmployeeID       string                      `json:"employeeId"`
	Employee         *assignmentEmployeeResponse `json:"employee,omitempty"`
	TotalUtilization int                         `json:"totalUtilization"`
}

// AvailableEmployees は startDate〜endDate のウィンドウで空きのある社員を返します。
func (h *ReportHandler) AvailableEmployees(c *gin.Context) {
	start, end, err := parseRange(queryPtr(c, "startDate"), queryPtr(c, "endDate"))
	if err != nil {
		writeError(c, "find available employees", err)
		return
	}

	in := report.FindAvailableEmployeesInput{StartDate: start, EndDate: end}
	if raw := strings.TrimSpace(c.Query("utilizationThreshold")); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(c, "find available employees", invalidRequest("utilizationThreshold must be a number"))
			return
		}
		in.UtilizationThreshold = &threshold
	}

	result, err := h.svc.FindAvailableEmployees(c.Request.Context(), in)
	if err != nil {
		writeError(c, "find available employees", err)
		return
	}

	resp := make([]availableEmployeeResponse, 0, len(result))
	for _, r := range result {
		resp = append(resp, availableEmployeeResponse{
			employeeResponse:     toEmployeeResponse(r.Employee),
			CurrentUtilization:   r.CurrentUtilization,
			AvailableUtilization: r.AvailableUtilization,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// OverlappingAssignments は重複する割り当てを持つ社員の総数と上位 5 名を返します。
func (h *ReportHandler) OverlappingAssignments(c *gin.Context) {
	result, err := h.svc.FindOverlappingAssignments(c.Request.Context())
	if err != nil {
		writeError(c, "find overlapping assignments", err)
		return
	}

	resp := overlapReportResponse{
		TotalCount:              result.TotalCount,
		TopOverlappingEmployees: make([]overlappingEmployeeResponse, 0, len(result.TopOverlappingEmployees)),
	}
	for _, o := range result.TopOverlappingEmployees {
		resp.TopOverlappingEmployees = append(resp.TopOverlappingEmployees, overlappingEmployeeResponse{
			EmployeeID:   o.EmployeeID,
			Employee:     toSnapshotResponse(o.Employee),
			OverlapCount: o.OverlapCount,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// OverworkedEmployees は稼働率合計が 100 を超える社員を返します。
func (h *ReportHandler) OverworkedEmployees(c *gin.Context) {
	result, err := h.svc.FindOverworkedEmployees(c.Request.Context())
	if err != nil {
		writeError(c, "find overworked employees", err)
		return
	}

	resp := make([]overworkedEmployeeResponse, 0, len(result))
	for _, o := range result {
		resp = append(resp, overworkedEmployeeResponse{
			EmployeeID:       o.EmployeeID,
			Employee:         toSnapshotResponse(o.Employee),
			TotalUtilization: o.TotalUtilization,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func queryPtr(c *gin.Context, key string) *string {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	return &v
}

func toSnapshotResponse(s *assignment.EmployeeSnapshot) *assignmentEmployeeResponse {
	if s == nil {
		return nil
	}
	return &assignmentEmployeeResponse{ID: s.ID, Name: s.Name, Level: s.Level}
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ratishjain12/devx-rms/internal/core/assignment"
)

// AssignmentHandler は割り当て API の HTTP 実装です。
type AssignmentHandler struct {
	svc assignment.UseCase
}

// NewAssignmentHandler は AssignmentHandler を生成します。
func NewAssignmentHandler(svc assignment.UseCase) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

type assignmentRequest struct {
	EmployeeID  string  `json:"employeeId"`
	ProjectID   string  `json:"projectId"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Utilisation *int    `json:"utilisation"`
}

type bulkAssignmentRequest struct {
	EmployeeIDs []string `json:"employeeIds"`
	ProjectID   string   `json:"projectId"`
	StartDate   *string  `json:"startDate"`
	EndDate     *string  `json:"endDate"`
	Utilisation *int     `json:"utilisation"`
}

type deleteWeekRequest struct {
	WeekStart *string `json:"weekStart"`
}

type assignmentEmployeeResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

type assignmentProjectResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type assignmentResponse struct {
	ID          string                      `json:"id,omitempty"`
	EmployeeID  string                      `json:"employeeId"`
	ProjectID   string                      `json:"projectId"`
	StartDate   string                      `json:"startDate"`
	EndDate     string                      `json:"endDate"`
	Utilisation int                         `json:"utilisation"`
	CreatedAt   string                      `json:"createdAt,omitempty"`
	UpdatedAt   string                      `json:"updatedAt,omitempty"`
	Employee    *assignmentEmployeeResponse `json:"employee,omitempty"`
	Project     *assignmentProjectResponse  `json:"project,omitempty"`
}

type deleteWeekResponse struct {
	Kind    string              `json:"kind"`
	Updated *assignmentResponse `json:"updated,omitempty"`
	Created *assignmentResponse `json:"created,omitempty"`
}

// Create は割り当てを 1 件作成します。
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req assignmentRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, "create assignment", err)
		return
	}

	in, err := toCreateAssignmentInput(req)
	if err != nil {
		writeError(c, "create assignment", err)
		return
	}

	created, err := h.svc.CreateAssignment(c.Request.Context(), in)
	if err != nil {
		writeError(c, "create assignment", err)
		return
	}

	c.JSON(http.StatusCreated, toAssignmentResponse(created))
}

// CreateBulk は複数社員への割り当てを全件成功か全件失敗で作成します。
func (h *AssignmentHandler) CreateBulk(c *gin.Context) {
	var req bulkAssignmentRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, "create assignments bulk", err)
		return
	}

	projectID, err := requireUUID(req.ProjectID, assignment.ErrInvalidProjectID)
	if err != nil {
		writeError(c, "create assignments bulk", err)
		return
	}

	employeeIDs := make([]string, 0, len(req.EmployeeIDs))
	for _, id := range req.EmployeeIDs {
		normalized, err := optionalUUID(id, assignment.ErrInvalidEmployeeID)
		if err != nil {
			writeError(c, "create assignments bulk", err)
			return
		}
		employeeIDs = append(employeeIDs, normalized)
	}

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(c, "create assignments bulk", err)
		return
	}

	created, err := h.svc.CreateAssignmentsBulk(c.Request.Context(), assignment.CreateAssignmentsBulkInput{
		EmployeeIDs: employeeIDs,
		ProjectID:   projectID,
		StartDate:   start,
		EndDate:     end,
		Utilisation: req.Utilisation,
	})
	if err != nil {
		writeError(c, "create assignments bulk", err)
		return
	}

	c.JSON(http.StatusCreated, toAssignmentResponses(created))
}

// List は割り当てを開始日の降順で返します。
func (h *AssignmentHandler) List(c *gin.Context) {
	employeeID, err := optionalUUID(c.Query("employeeId"), assignment.ErrInvalidEmployeeID)
	if err != nil {
		writeError(c, "list assignments", err)
		return
	}
	projectID, err := optionalUUID(c.Query("projectId"), assignment.ErrInvalidProjectID)
	if err != nil {
		writeError(c, "list assignments", err)
		return
	}

	assignments, err := h.svc.ListAssignments(c.Request.Context(), assignment.ListAssignmentsInput{
		EmployeeID: employeeID,
		ProjectID:  projectID,
	})
	if err != nil {
		writeError(c, "list assignments", err)
		return
	}

	c.JSON(http.StatusOK, toAssignmentResponses(assignments))
}

// Get は割り当てを 1 件返します。
func (h *AssignmentHandler) Get(c *gin.Context) {
	id, err := requireUUID(c.Param("id"), assignment.ErrInvalidID)
	if err != nil {
		writeError(c, "get assignment", err)
		return
	}

	found, err := h.svc.GetAssignment(c.Request.Context(), assignment.GetAssignmentInput{ID: id})
	if err != nil {
		writeError(c, "get assignment", err)
		return
	}

	c.JSON(http.StatusOK, toAssignmentResponse(found))
}

// Update は割り当ての全項目を置き換えます。
func (h *AssignmentHandler) Update(c *gin.Context) {
	id, err := requireUUID(c.Param("id"), assignment.ErrInvalidID)
	if err != nil {
		writeError(c, "update assignment", err)
		return
	}

	var req assignmentRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, "update assignment", err)
		return
	}

	in, err := toCreateAssignmentInput(req)
	if err != nil {
		writeError(c, "update assignment", err)
		return
	}

	updated, err := h.svc.UpdateAssignment(c.Request.Context(), assignment.UpdateAssignmentInput{
		ID:          id,
		EmployeeID:  in.EmployeeID,
		ProjectID:   in.ProjectID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Utilisation: in.Utilisation,
	})
	if err != nil {
		writeError(c, "update assignment", err)
		return
	}

	c.JSON(http.StatusOK, toAssignmentResponse(updated))
}

// Delete は割り当てを削除します。
func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, err := requireUUID(c.Param("id"), assignment.ErrInvalidID)
	if err != nil {
		writeError(c, "delete assignment", err)
		return
	}

	if err := h.svc.DeleteAssignment(c.Request.Context(), assignment.DeleteAssignmentInput{ID: id}); err != nil {
		writeError(c, "delete assignment", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteWeek は指定週を割り当てから取り除きます。
func (h *AssignmentHandler) DeleteWeek(c *gin.Context) {
	id, err := requireUUID(c.Param("id"), assignment.ErrInvalidID)
	if err != nil {
		writeError(c, "delete assignment week", err)
		return
	}

	var req deleteWeekRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, "delete assignment week", err)
		return
	}

	weekStart, err := parseDatePtr("weekStart", req.WeekStart)
	if err != nil {
		writeError(c, "delete assignment week", err)
		return
	}

	result, err := h.svc.DeleteAssignmentWeek(c.Request.Context(), assignment.DeleteAssignmentWeekInput{
		ID:        id,
		WeekStart: weekStart,
	})
	if err != nil {
		writeError(c, "delete assignment week", err)
		return
	}

	resp := deleteWeekResponse{Kind: string(result.Kind)}
	if result.Updated != nil {
		updated := toAssignmentResponse(result.Updated)
		resp.Updated = &updated
	}
	if result.Created != nil {
		created := toAssignmentResponse(result.Created)
		resp.Created = &created
	}
	c.JSON(http.StatusOK, resp)
}

// PreviewWeeks は割り当てを週単位に分割した結果を保存せずに返します。
func (h *AssignmentHandler) PreviewWeeks(c *gin.Context) {
	id, err := requireUUID(c.Param("id"), assignment.ErrInvalidID)
	if err != nil {
		writeError(c, "preview assignment weeks", err)
		return
	}

	weeks, err := h.svc.PreviewWeeks(c.Request.Context(), assignment.PreviewWeeksInput{ID: id})
	if err != nil {
		writeError(c, "preview assignment weeks", err)
		return
	}

	c.JSON(http.StatusOK, toAssignmentResponses(weeks))
}

func toCreateAssignmentInput(req assignmentRequest) (assignment.CreateAssignmentInput, error) {
	employeeID, err := requireUUID(req.EmployeeID, assignment.ErrInvalidEmployeeID)
	if err != nil {
		return assignment.CreateAssignmentInput{}, err
	}
	projectID, err := requireUUID(req.ProjectID, assignment.ErrInvalidProjectID)
	if err != nil {
		return assignment.CreateAssignmentInput{}, err
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return assignment.CreateAssignmentInput{}, err
	}

	return assignment.CreateAssignmentInput{
		EmployeeID:  employeeID,
		ProjectID:   projectID,
		StartDate:   start,
		EndDate:     end,
		Utilisation: req.Utilisation,
	}, nil
}

func parseRange(rawStart, rawEnd *string) (start, end *time.Time, err error) {
	start, err = parseDatePtr("startDate", rawStart)
	if err != nil {
		return nil, nil, err
	}
	end, err = parseDatePtr("endDate", rawEnd)
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func toAssignmentResponse(a *assignment.Assignment) assignmentResponse {
	resp := assignmentResponse{
		ID:          a.ID,
		EmployeeID:  a.EmployeeID,
		ProjectID:   a.ProjectID,
		StartDate:   formatTime(a.StartDate),
		EndDate:     formatTime(a.EndDate),
		Utilisation: a.Utilisation,
	}
	if !a.CreatedAt.IsZero() {
		resp.CreatedAt = formatTime(a.CreatedAt)
	}
	if !a.UpdatedAt.IsZero() {
		resp.UpdatedAt = formatTime(a.UpdatedAt)
	}
	if a.Employee != nil {
		resp.Employee = &assignmentEmployeeResponse{ID: a.Employee.ID, Name: a.Employee.Name, Level: a.Employee.Level}
	}
	if a.Project != nil {
		resp.Project = &assignmentProjectResponse{ID: a.Project.ID, Name: a.Project.Name, Status: a.Project.Status}
	}
	return resp
}

func toAssignmentResponses(assignments []*assignment.Assignment) []assignmentResponse {
	resp := make([]assignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		resp = append(resp, toAssignmentResponse(a))
	}
	return resp
}

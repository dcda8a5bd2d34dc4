package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ratishjain12/devx-rms/internal/core/employee"
)

// EmployeeHandler は社員 API の HTTP 実装です。
type EmployeeHandler struct {
	svc employee.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

type createEmployeeRequest struct {
	Name   string   `json:"name"`
	Level  string   `json:"level"`
	Skills []string `json:"skills"`
	Roles  []string `json:"roles"`
}

type updateEmployeeRequest struct {
	Name   *string   `json:"name"`
	Level  *string   `json:"level"`
	Skills *[]string `json:"skills"`
	Roles  *[]string `json:"roles"`
}

type employeeResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Level     string   `json:"level"`
	Skills    []string `json:"skills"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

type listEmployeesResponse struct {
	Employees     []employeeResponse `json:"employees"`
	NextPageToken string             `json:"nextPageToken,omitempty"`
}

// Create は社員を作成します。
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req createEmployeeRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, "create employee", err)
		return
	}

	created, err := h.svc.CreateEmployee(c.Request.Context(), employee.CreateEmployeeInput{
		Name:   req.Name,
		Level:  employee.Level(req.Level),
		Skills: req.Skills,
		Roles:  req.Roles,
	})
	if err != nil {
		writeError(c, "create employee", err)
		return
	}

	c.JSON(http.StatusCreated, toEmployeeResponse(created))
}

// List は社員一覧を返します。level と skill で絞り込めます。
func (h *EmployeeHandler) List(c *gin.Context) {
	pageSize, err := queryInt(c, "pageSize")
	if err != nil {
		writeError(c, "list employees", err)
		return
	}

	in := employee.ListEmployeesInput{
		PageSize:  pageSize,
		PageToken: c.Query("pageToken"),
		Skill:     c.Query("skill"),
	}
	if raw := strings.TrimSpace(c.Query("level")); raw != "" {
		level := employee.Level(raw)
		in.Level = &level
	}

	result, err := h.svc.ListEmployees(c.Request.Context(), in)
	if err != nil {
		writeError(c, "list employees", err)
		return
	}

	resp := listEmployeesResponse{
		Employees:     make([]employeeResponse, 0, len(result.Employees)),
		NextPageToken: result.NextPageToken,
	}
	for _, e := range result.Employees {
		resp.Employees = append(resp.Employees, toEmployeeResponse(e))
	}
	c.JSON(http.StatusOK, resp)
}

// Get は社員を 1 件返します。
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, err := requireUUID(c.Param("id"), employee.ErrInvalidID)
	if err != nil {
		writeError(c, "get employee", err)
		return
	}

	found, err := h.svc.GetEmployee(c.Request.Context(), employee.GetEmployeeInput{ID: id})
	if err != nil {
		writeError(c, "get employee", err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeResponse(found))
}

// Update は指定された項目のみ社員情報を更新します。
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, err := requireUUID(c.Param("id"), employee.ErrInvalidID)
	if err != nil {
		writeError(c, "update employee", err)
		return
	}

	var req updateEmployeeRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, "update employee", err)
		return
	}

	in := employee.UpdateEmployeeInput{
		ID:     id,
		Name:   req.Name,
		Skills: req.Skills,
		Roles:  req.Roles,
	}
	if req.Level != nil {
		level := employee.Level(*req.Level)
		in.Level = &level
	}

	updated, err := h.svc.UpdateEmployee(c.Request.Context(), in)
	if err != nil {
		writeError(c, "update employee", err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeResponse(updated))
}

// Delete は社員と、その社員の割り当てを削除します。
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, err := requireUUID(c.Param("id"), employee.ErrInvalidID)
	if err != nil {
		writeError(c, "delete employee", err)
		return
	}

	if err := h.svc.DeleteEmployee(c.Request.Context(), employee.DeleteEmployeeInput{ID: id}); err != nil {
		writeError(c, "delete employee", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Level:     string(e.Level),
		Skills:    nonNilLabels(e.Skills),
		Roles:     nonNilLabels(e.Roles),
		CreatedAt: formatTime(e.CreatedAt),
		UpdatedAt: formatTime(e.UpdatedAt),
	}
}

func nonNilLabels(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}

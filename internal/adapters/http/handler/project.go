package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ratishjain12/devx-rms/internal/core/project"
)

// ProjectHandler はプロジェクト API の HTTP 実装です。
type ProjectHandler struct {
	svc project.UseCase
}

// NewProjectHandler は ProjectHandler を生成します。
func NewProjectHandler(svc project.UseCase) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// nullableString は JSON のキー欠落と null を区別します。
type nullableString struct {
	Set   bool
	Value *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

type requirementRequest struct {
	RoleID    string  `json:"roleId"`
	Seniority string  `json:"seniority"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Quantity  int     `json:"quantity"`
}

type createProjectRequest struct {
	Name               string               `json:"name"`
	Type               string               `json:"type"`
	StartDate          *string              `json:"startDate"`
	EndDate            *string              `json:"endDate"`
	Tools              []string             `json:"tools"`
	ClientSatisfaction *string              `json:"clientSatisfaction"`
	Requirements       []requirementRequest `json:"requirements"`
}

type updateProjectRequest struct {
	Name               *string               `json:"name"`
	Type               *string               `json:"type"`
	StartDate          *string               `json:"startDate"`
	EndDate            nullableString        `json:"endDate"`
	Tools              *[]string             `json:"tools"`
	ClientSatisfaction *string               `json:"clientSatisfaction"`
	Requirements       *[]requirementRequest `json:"requirements"`
}

type requirementResponse struct {
	ID        string `json:"id"`
	RoleID    string `json:"roleId"`
	Seniority string `json:"seniority"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Quantity  int    `json:"quantity"`
}

type projectResponse struct {
	ID                 string                `json:"id"`
	Name               string                `json:"name"`
	Type               string                `json:"type"`
	Status             string                `json:"status"`
	StartDate          string                `json:"startDate"`
	EndDate            *string               `json:"endDate"`
	Tools              []string              `json:"tools"`
	ClientSatisfaction string                `json:"clientSatisfaction"`
	Requirements       []requirementResponse `json:"requirements"`
	CreatedAt          string                `json:"createdAt"`
	UpdatedAt          string                `json:"updatedAt"`
}

type listProjectsResponse struct {
	Projects      []projectResponse `json:"projects"`
	NextPageToken string            `json:"nextPageToken,omitempty"`
}

// Create はプロジェクトを作成します。
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, "create project", err)
		return
	}

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(c, "create project", err)
		return
	}

	requirements, err := toRequirementInputs(req.Requirements)
	if err != nil {
		writeError(c, "create project", err)
		return
	}

	created, err := h.svc.CreateProject(c.Request.Context(), project.CreateProjectInput{
		Name:               req.Name,
		Type:               req.Type,
		StartDate:          start,
		EndDate:            end,
		Tools:              req.Tools,
		ClientSatisfaction: toSatisfaction(req.ClientSatisfaction),
		Requirements:       requirements,
	})
	if err != nil {
		writeError(c, "create project", err)
		return
	}

	c.JSON(http.StatusCreated, toProjectResponse(created))
}

// List はプロジェクト一覧を返します。status で絞り込めます。
func (h *ProjectHandler) List(c *gin.Context) {
	pageSize, err := queryInt(c, "pageSize")
	if err != nil {
		writeError(c, "list projects", err)
		return
	}

	in := project.ListProjectsInput{
		PageSize:  pageSize,
		PageToken: c.Query("pageToken"),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := project.Status(strings.ToUpper(raw))
		in.Status = &status
	}

	result, err := h.svc.ListProjects(c.Request.Context(), in)
	if err != nil {
		writeError(c, "list projects", err)
		return
	}

	resp := listProjectsResponse{
		Projects:      make([]projectResponse, 0, len(result.Projects)),
		NextPageToken: result.NextPageToken,
	}
	for _, p := range result.Projects {
		resp.Projects = append(resp.Projects, toProjectResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

// Get はプロジェクトを要員要件とともに返します。
func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := requireUUID(c.Param("id"), project.ErrInvalidID)
	if err != nil {
		writeError(c, "get project", err)
		return
	}

	found, err := h.svc.GetProject(c.Request.Context(), project.GetProjectInput{ID: id})
	if err != nil {
		writeError(c, "get project", err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(found))
}

// Update は指定された項目のみプロジェクトを更新します。requirements を指定した場合は全件置き換えます。
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := requireUUID(c.Param("id"), project.ErrInvalidID)
	if err != nil {
		writeError(c, "update project", err)
		return
	}

	var req updateProjectRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, "update project", err)
		return
	}

	start, err := parseDatePtr("startDate", req.StartDate)
	if err != nil {
		writeError(c, "update project", err)
		return
	}
	if req.StartDate != nil && start == nil {
		writeError(c, "update project", project.ErrInvalidDateRange)
		return
	}

	in := project.UpdateProjectInput{
		ID:                 id,
		Name:               req.Name,
		Type:               req.Type,
		StartDate:          start,
		Tools:              req.Tools,
		ClientSatisfaction: toSatisfaction(req.ClientSatisfaction),
	}

	if req.EndDate.Set {
		end, err := parseDatePtr("endDate", req.EndDate.Value)
		if err != nil {
			writeError(c, "update project", err)
			return
		}
		in.EndDate = end
		in.EndDateSet = true
	}

	if req.Requirements != nil {
		requirements, err := toRequirementInputs(*req.Requirements)
		if err != nil {
			writeError(c, "update project", err)
			return
		}
		in.Requirements = &requirements
	}

	updated, err := h.svc.UpdateProject(c.Request.Context(), in)
	if err != nil {
		writeError(c, "update project", err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(updated))
}

// Delete はプロジェクトと関連する要員要件・割り当てを削除します。
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := requireUUID(c.Param("id"), project.ErrInvalidID)
	if err != nil {
		writeError(c, "delete project", err)
		return
	}

	if err := h.svc.DeleteProject(c.Request.Context(), project.DeleteProjectInput{ID: id}); err != nil {
		writeError(c, "delete project", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toRequirementInputs(reqs []requirementRequest) ([]project.RequirementInput, error) {
	inputs := make([]project.RequirementInput, 0, len(reqs))
	for i, r := range reqs {
		roleID, err := requireUUID(r.RoleID, project.ErrInvalidRequirement)
		if err != nil {
			return nil, fmt.Errorf("requirements[%d].roleId: %w", i, err)
		}
		start, end, err := parseRange(r.StartDate, r.EndDate)
		if err != nil {
			return nil, fmt.Errorf("requirements[%d]: %w", i, err)
		}
		inputs = append(inputs, project.RequirementInput{
			RoleID:    roleID,
			Seniority: project.Seniority(strings.ToUpper(strings.TrimSpace(r.Seniority))),
			StartDate: start,
			EndDate:   end,
			Quantity:  r.Quantity,
		})
	}
	return inputs, nil
}

func toSatisfaction(raw *string) *project.Satisfaction {
	if raw == nil {
		return nil
	}
	s := project.Satisfaction(strings.ToUpper(strings.TrimSpace(*raw)))
	return &s
}

func toProjectResponse(p *project.Project) projectResponse {
	resp := projectResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Type:               p.Type,
		Status:             string(p.Status),
		StartDate:          formatTime(p.StartDate),
		EndDate:            formatTimePtr(p.EndDate),
		Tools:              nonNilLabels(p.Tools),
		ClientSatisfaction: string(p.ClientSatisfaction),
		Requirements:       make([]requirementResponse, 0, len(p.Requirements)),
		CreatedAt:          formatTime(p.CreatedAt),
		UpdatedAt:          formatTime(p.UpdatedAt),
	}
	for _, r := range p.Requirements {
		resp.Requirements = append(resp.Requirements, requirementResponse{
			ID:        r.ID,
			RoleID:    r.RoleID,
			Seniority: string(r.Seniority),
			StartDate: formatTime(r.StartDate),
			EndDate:   formatTime(r.EndDate),
			Quantity:  r.Quantity,
		})
	}
	return resp
}

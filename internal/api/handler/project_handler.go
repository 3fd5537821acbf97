package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/automation-hub/project-requests/internal/core/domain"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

// ProjectHandler handles HTTP requests for project requests and their lifecycle.
// Domain errors are returned as-is and mapped by the central error handler.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// Create handles POST /v1/projects.
//
// @Summary      Open a project request
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createProjectRequest  true   "Project request"
// @Success      201              {object}  projectResponse
// @Success      200              {object}  projectResponse  "Replayed by Idempotency-Key"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req createProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.CreateProject(c.Request().Context(), ports.CreateProjectInput{
		Actor:          actor,
		Name:           req.Name,
		Sector:         req.Sector,
		Description:    req.Description,
		Type:           req.Type,
		Urgency:        req.Urgency,
		Tags:           req.Tags,
		ExpectedGains:  req.ExpectedGains,
		Pictures:       req.Pictures,
		IdempotencyKey: idempotencyKey(c),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, toProjectResponse(result.Project))
}

// List handles GET /v1/projects.
//
// @Summary      List project requests
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        status   query     string  false  "Filter by status"
// @Param        urgency  query     string  false  "Filter by urgency"
// @Param        sector   query     string  false  "Filter by sector"
// @Param        sort     query     string  false  "created_at or updated_at"
// @Param        order    query     string  false  "asc or desc"
// @Param        page     query     int     false  "Page number (1-based)"
// @Param        limit    query     int     false  "Page size (max 100)"
// @Success      200      {object}  listProjectsResponse
// @Failure      400      {object}  errorResponse
// @Router       /v1/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	result, err := h.service.ListProjects(c.Request().Context(), ports.ListProjectsInput{
		Status:  c.QueryParam("status"),
		Urgency: c.QueryParam("urgency"),
		Sector:  c.QueryParam("sector"),
		Sort:    c.QueryParam("sort"),
		Order:   c.QueryParam("order"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListProjectsResponse(result))
}

// Get handles GET /v1/projects/:id.
//
// @Summary      Get a project request
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  projectResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	p, err := h.service.GetProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(p))
}

// Timeline handles GET /v1/projects/:id/timeline.
//
// @Summary      Get the audit timeline of a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  timelineResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id}/timeline [get]
func (h *ProjectHandler) Timeline(c echo.Context) error {
	p, err := h.service.GetProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTimelineResponse(p))
}

// Update handles PATCH /v1/projects/:id. Only the requester may edit, and only
// while the request is still pending review.
//
// @Summary      Edit a pending project request
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Project id"
// @Param        body  body      updateProjectRequest  true  "Fields to change"
// @Success      200   {object}  projectResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/projects/{id} [patch]
func (h *ProjectHandler) Update(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req updateProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.UpdateProject(c.Request().Context(), ports.UpdateProjectInput{
		ProjectID:     c.Param("id"),
		Actor:         actor,
		Name:          req.Name,
		Sector:        req.Sector,
		Description:   req.Description,
		Type:          req.Type,
		Urgency:       req.Urgency,
		Tags:          req.Tags,
		ExpectedGains: req.ExpectedGains,
		Pictures:      req.Pictures,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(p))
}

// Delete handles DELETE /v1/projects/:id.
//
// @Summary      Soft-delete a project request
// @Tags         projects
// @Security     BearerAuth
// @Param        id   path  string  true  "Project id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	err = h.service.DeleteProject(c.Request().Context(), ports.ActorInput{ProjectID: c.Param("id"), Actor: actor})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Approve handles POST /v1/projects/:id/approve.
//
// @Summary      Approve a requested project
// @Tags         lifecycle
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true   "Project id"
// @Param        body  body      reviewRequest  false  "Optional urgency override"
// @Success      200   {object}  projectResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/projects/{id}/approve [post]
func (h *ProjectHandler) Approve(c echo.Context) error {
	return h.review(c, h.service.Approve)
}

// Reject handles POST /v1/projects/:id/reject.
//
// @Summary      Reject a requested project
// @Tags         lifecycle
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true   "Project id"
// @Param        body  body      reviewRequest  false  "Optional urgency override"
// @Success      200   {object}  projectResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/projects/{id}/reject [post]
func (h *ProjectHandler) Reject(c echo.Context) error {
	return h.review(c, h.service.Reject)
}

func (h *ProjectHandler) review(c echo.Context, op func(context.Context, ports.ReviewInput) (*domain.Project, error)) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := op(c.Request().Context(), ports.ReviewInput{
		ProjectID: c.Param("id"),
		Actor:     actor,
		Urgency:   req.Urgency,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(p))
}

// SetEstimate handles PUT /v1/projects/:id/estimate.
//
// @Summary      Set the estimated duration of an approved project
// @Tags         lifecycle
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Project id"
// @Param        body  body      estimateRequest  true  "Estimate such as 5 days or 36:00:00"
// @Success      200   {object}  projectResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/projects/{id}/estimate [put]
func (h *ProjectHandler) SetEstimate(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req estimateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.SetEstimate(c.Request().Context(), ports.EstimateInput{
		ProjectID:         c.Param("id"),
		Actor:             actor,
		EstimatedDuration: req.EstimatedDurationTime,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(p))
}

// Attend handles POST /v1/projects/:id/attend.
//
// @Summary      Start work on an approved project
// @Tags         lifecycle
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Project id"
// @Param        body  body      attendRequest  true  "Service type, automation assigns the caller"
// @Success      200   {object}  projectResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/projects/{id}/attend [post]
func (h *ProjectHandler) Attend(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req attendRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Attend(c.Request().Context(), ports.AttendInput{
		ProjectID: c.Param("id"),
		Actor:     actor,
		Service:   req.Service,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(p))
}

// Pause handles POST /v1/projects/:id/pause.
//
// @Summary      Pause a project in progress
// @Tags         lifecycle
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Project id"
// @Param        body  body      pauseRequest  true  "Pause reason"
// @Success      200   {object}  projectResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/projects/{id}/pause [post]
func (h *ProjectHandler) Pause(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req pauseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Pause(c.Request().Context(), ports.PauseInput{
		ProjectID: c.Param("id"),
		Actor:     actor,
		Reason:    req.Reason,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(p))
}

// Resume handles POST /v1/projects/:id/resume.
//
// @Summary      Resume a paused project
// @Tags         lifecycle
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  projectResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id}/resume [post]
func (h *ProjectHandler) Resume(c echo.Context) error {
	return h.transition(c, h.service.Resume)
}

// Complete handles POST /v1/projects/:id/complete.
//
// @Summary      Complete a project in progress
// @Tags         lifecycle
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  projectResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id}/complete [post]
func (h *ProjectHandler) Complete(c echo.Context) error {
	return h.transition(c, h.service.Complete)
}

func (h *ProjectHandler) transition(c echo.Context, op func(context.Context, ports.ActorInput) (*domain.Project, error)) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	p, err := op(c.Request().Context(), ports.ActorInput{ProjectID: c.Param("id"), Actor: actor})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(p))
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return n, nil
}

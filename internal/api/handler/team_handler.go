package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/automation-hub/project-requests/internal/core/ports"
)

// TeamHandler serves the execution team registry. Writes are gated by the
// team-admin middleware at the route level.
type TeamHandler struct {
	service ports.TeamService
}

func NewTeamHandler(service ports.TeamService) *TeamHandler {
	return &TeamHandler{service: service}
}

// List handles GET /v1/team-members.
//
// @Summary      List team members
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  teamMemberResponse
// @Router       /v1/team-members [get]
func (h *TeamHandler) List(c echo.Context) error {
	list, err := h.service.ListTeamMembers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTeamMemberResponses(list))
}

// Get handles GET /v1/team-members/:id.
//
// @Summary      Get a team member
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Team member id"
// @Success      200  {object}  teamMemberResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/team-members/{id} [get]
func (h *TeamHandler) Get(c echo.Context) error {
	m, err := h.service.GetTeamMember(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTeamMemberResponse(m))
}

// Create handles POST /v1/team-members.
//
// @Summary      Register a team member
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTeamMemberRequest  true  "Team member"
// @Success      201   {object}  teamMemberResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/team-members [post]
func (h *TeamHandler) Create(c echo.Context) error {
	var req createTeamMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	m, err := h.service.CreateTeamMember(c.Request().Context(), ports.CreateTeamMemberInput{
		Registration: req.Registration,
		Name:         req.Name,
		RFID:         req.RFID,
		Barcode:      req.Barcode,
		Username:     req.Username,
		Sector:       req.Sector,
		Role:         req.Role,
		Level:        req.Level,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTeamMemberResponse(m))
}

// Update handles PATCH /v1/team-members/:id. The registration cannot change.
//
// @Summary      Edit a team member
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Team member id"
// @Param        body  body      updateTeamMemberRequest  true  "Fields to change"
// @Success      200   {object}  teamMemberResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/team-members/{id} [patch]
func (h *TeamHandler) Update(c echo.Context) error {
	var req updateTeamMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	m, err := h.service.UpdateTeamMember(c.Request().Context(), ports.UpdateTeamMemberInput{
		ID:       c.Param("id"),
		Name:     req.Name,
		RFID:     req.RFID,
		Barcode:  req.Barcode,
		Username: req.Username,
		Sector:   req.Sector,
		Role:     req.Role,
		Level:    req.Level,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTeamMemberResponse(m))
}

// Delete handles DELETE /v1/team-members/:id.
//
// @Summary      Remove a team member
// @Tags         team
// @Security     BearerAuth
// @Param        id   path  string  true  "Team member id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/team-members/{id} [delete]
func (h *TeamHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteTeamMember(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

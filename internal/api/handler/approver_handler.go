package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/automation-hub/project-requests/internal/core/ports"
)

// ApproverHandler serves the approver registry. Writes are gated by the
// approver-manager middleware at the route level.
type ApproverHandler struct {
	service ports.ApproverService
}

func NewApproverHandler(service ports.ApproverService) *ApproverHandler {
	return &ApproverHandler{service: service}
}

// List handles GET /v1/approvers.
//
// @Summary      List approvers
// @Tags         approvers
// @Produce      json
// @Security     BearerAuth
// @Param        active  query     bool  false  "Only active approvers"
// @Success      200     {array}   approverResponse
// @Router       /v1/approvers [get]
func (h *ApproverHandler) List(c echo.Context) error {
	activeOnly := false
	if raw := c.QueryParam("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "active must be a boolean")
		}
		activeOnly = v
	}

	list, err := h.service.ListApprovers(c.Request().Context(), activeOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApproverResponses(list))
}

// Get handles GET /v1/approvers/:id.
//
// @Summary      Get an approver
// @Tags         approvers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Approver id"
// @Success      200  {object}  approverResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/approvers/{id} [get]
func (h *ApproverHandler) Get(c echo.Context) error {
	a, err := h.service.GetApprover(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApproverResponse(a))
}

// Create handles POST /v1/approvers.
//
// @Summary      Register an approver
// @Tags         approvers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createApproverRequest  true  "Approver"
// @Success      201   {object}  approverResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/approvers [post]
func (h *ApproverHandler) Create(c echo.Context) error {
	var req createApproverRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	a, err := h.service.CreateApprover(c.Request().Context(), ports.CreateApproverInput{
		Registration: req.Registration,
		Name:         req.Name,
		Sector:       req.Sector,
		Role:         req.Role,
		Permission:   req.Permission,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toApproverResponse(a))
}

// Update handles PATCH /v1/approvers/:id.
//
// @Summary      Edit or reactivate an approver
// @Tags         approvers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Approver id"
// @Param        body  body      updateApproverRequest  true  "Fields to change"
// @Success      200   {object}  approverResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/approvers/{id} [patch]
func (h *ApproverHandler) Update(c echo.Context) error {
	var req updateApproverRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	a, err := h.service.UpdateApprover(c.Request().Context(), ports.UpdateApproverInput{
		ID:         c.Param("id"),
		Name:       req.Name,
		Sector:     req.Sector,
		Role:       req.Role,
		Permission: req.Permission,
		Active:     req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApproverResponse(a))
}

// Delete handles DELETE /v1/approvers/:id. Approvers are deactivated, never removed.
//
// @Summary      Deactivate an approver
// @Tags         approvers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Approver id"
// @Success      200  {object}  approverResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/approvers/{id} [delete]
func (h *ApproverHandler) Delete(c echo.Context) error {
	a, err := h.service.DeactivateApprover(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApproverResponse(a))
}

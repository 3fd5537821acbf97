package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/automation-hub/project-requests/internal/core/ports"
)

// IdentityHandler exposes the caller's resolved identity and what it may do.
type IdentityHandler struct {
	identities  ports.IdentityResolver
	approvers   ports.ApproverPolicy
	teamAdmin   ports.TeamAdminPolicy
	permissions ports.PermissionChecker
}

func NewIdentityHandler(
	identities ports.IdentityResolver,
	approvers ports.ApproverPolicy,
	teamAdmin ports.TeamAdminPolicy,
	permissions ports.PermissionChecker,
) *IdentityHandler {
	return &IdentityHandler{
		identities:  identities,
		approvers:   approvers,
		teamAdmin:   teamAdmin,
		permissions: permissions,
	}
}

// Me handles GET /v1/me.
//
// @Summary      Resolve the caller's identity and capabilities
// @Tags         identity
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/me [get]
func (h *IdentityHandler) Me(c echo.Context) error {
	reg, err := actorFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	id, err := h.identities.Resolve(ctx, reg)
	if err != nil {
		return err
	}
	resp := meResponse{Actor: toActorResponse(id.Actor)}
	if id.TeamMember != nil {
		m := toTeamMemberResponse(id.TeamMember)
		resp.TeamMember = &m
	}

	if resp.Capabilities.CanApproveProjects, err = h.approvers.CanApproveProjects(ctx, reg); err != nil {
		return err
	}
	if resp.Capabilities.CanManageApprovers, err = h.approvers.CanManageApprovers(ctx, reg); err != nil {
		return err
	}
	if resp.Capabilities.CanAdministerTeam, err = h.teamAdmin.CanAdministerTeam(ctx, reg); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Permission handles GET /v1/permissions/:action.
//
// @Summary      Evaluate an action permission for the caller
// @Tags         identity
// @Produce      json
// @Security     BearerAuth
// @Param        action         path      string  true   "Action name, e.g. attend_request"
// @Param        required_role  query     string  false  "Role that grants the action directly"
// @Success      200            {object}  permissionResponse
// @Failure      401            {object}  errorResponse
// @Router       /v1/permissions/{action} [get]
func (h *IdentityHandler) Permission(c echo.Context) error {
	reg, err := actorFromContext(c)
	if err != nil {
		return err
	}
	action := c.Param("action")
	requiredRole := c.QueryParam("required_role")

	allowed, err := h.permissions.Check(c.Request().Context(), reg, action, requiredRole)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, permissionResponse{
		Action:       action,
		RequiredRole: requiredRole,
		Allowed:      allowed,
	})
}

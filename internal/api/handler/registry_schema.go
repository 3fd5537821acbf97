package handler

import "time"

// --- Approvers ---

type createApproverRequest struct {
	Registration string  `json:"registration" validate:"required,numeric"`
	Name         string  `json:"name"         validate:"required,max=200"`
	Sector       string  `json:"sector"       validate:"max=100"`
	Role         string  `json:"role"         validate:"max=100"`
	Permission   *string `json:"permission"   validate:"omitempty,max=100"`
}

type updateApproverRequest struct {
	Name       *string `json:"name"       validate:"omitempty,min=1,max=200"`
	Sector     *string `json:"sector"     validate:"omitempty,max=100"`
	Role       *string `json:"role"       validate:"omitempty,max=100"`
	Permission *string `json:"permission" validate:"omitempty,max=100"`
	Active     *bool   `json:"active"`
}

type approverResponse struct {
	ID           string    `json:"id"`
	Registration int64     `json:"registration"`
	Name         string    `json:"name"`
	Sector       string    `json:"sector"`
	Role         string    `json:"role"`
	Permission   *string   `json:"permission"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// --- Team members ---

// RFID and barcode travel as strings so values above 2^53 can be rejected instead
// of silently rounded by JSON clients.
type createTeamMemberRequest struct {
	Registration string `json:"registration" validate:"required,numeric"`
	Name         string `json:"name"         validate:"required,max=200"`
	RFID         string `json:"rfid"         validate:"required"`
	Barcode      string `json:"barcode"      validate:"required"`
	Username     string `json:"username"     validate:"max=100"`
	Sector       string `json:"sector"       validate:"max=100"`
	Role         string `json:"role"         validate:"max=100"`
	Level        string `json:"level"        validate:"max=100"`
}

type updateTeamMemberRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1,max=200"`
	RFID     *string `json:"rfid"`
	Barcode  *string `json:"barcode"`
	Username *string `json:"username" validate:"omitempty,max=100"`
	Sector   *string `json:"sector"   validate:"omitempty,max=100"`
	Role     *string `json:"role"     validate:"omitempty,max=100"`
	Level    *string `json:"level"    validate:"omitempty,max=100"`
}

// Hardware identifiers are returned as strings for the same reason they are
// accepted as strings.
type teamMemberResponse struct {
	ID           string    `json:"id"`
	Registration int64     `json:"registration"`
	Name         string    `json:"name"`
	RFID         string    `json:"rfid"`
	Barcode      string    `json:"barcode"`
	Username     string    `json:"username"`
	Sector       string    `json:"sector"`
	Role         string    `json:"role"`
	Level        string    `json:"level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// --- Identity ---

type actorResponse struct {
	Registration int64  `json:"registration"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Sector       string `json:"sector"`
	Function     string `json:"function"`
	Level        string `json:"level"`
}

type capabilitiesResponse struct {
	CanApproveProjects bool `json:"can_approve_projects"`
	CanManageApprovers bool `json:"can_manage_approvers"`
	CanAdministerTeam  bool `json:"can_administer_team"`
}

type meResponse struct {
	Actor        actorResponse        `json:"actor"`
	TeamMember   *teamMemberResponse  `json:"team_member"`
	Capabilities capabilitiesResponse `json:"capabilities"`
}

type permissionResponse struct {
	Action       string `json:"action"`
	RequiredRole string `json:"required_role,omitempty"`
	Allowed      bool   `json:"allowed"`
}

package handler

import (
	"strconv"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

func toApproverResponse(a *domain.Approver) approverResponse {
	return approverResponse{
		ID:           a.ID,
		Registration: a.Registration,
		Name:         a.Name,
		Sector:       a.Sector,
		Role:         a.Role,
		Permission:   a.Permission,
		Active:       a.Active,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func toApproverResponses(list []*domain.Approver) []approverResponse {
	out := make([]approverResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toApproverResponse(a))
	}
	return out
}

func toTeamMemberResponse(m *domain.TeamMember) teamMemberResponse {
	return teamMemberResponse{
		ID:           m.ID,
		Registration: m.Registration,
		Name:         m.Name,
		RFID:         strconv.FormatInt(m.RFID, 10),
		Barcode:      strconv.FormatInt(m.Barcode, 10),
		Username:     m.Username,
		Sector:       m.Sector,
		Role:         m.Role,
		Level:        m.Level,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toTeamMemberResponses(list []*domain.TeamMember) []teamMemberResponse {
	out := make([]teamMemberResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toTeamMemberResponse(m))
	}
	return out
}

func toActorResponse(a domain.Actor) actorResponse {
	return actorResponse{
		Registration: a.Registration,
		Name:         a.Name,
		Username:     a.Username,
		Sector:       a.Sector,
		Function:     a.Function,
		Level:        a.Level,
	}
}

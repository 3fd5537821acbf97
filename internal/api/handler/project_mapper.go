package handler

import (
	"github.com/automation-hub/project-requests/internal/core/domain"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

func toProjectResponse(p *domain.Project) projectResponse {
	estimate := p.EstimatedDurationTime
	if estimate == "" {
		estimate = domain.ZeroDuration
	}
	resp := projectResponse{
		ID:                    p.ID,
		Name:                  p.Name,
		Sector:                p.Sector,
		Description:           p.Description,
		Type:                  string(p.Type),
		Urgency:               string(p.Urgency),
		Tags:                  nonNil(p.Tags),
		ExpectedGains:         nonNil(p.ExpectedGains),
		Pictures:              nonNil(p.Pictures),
		Status:                string(p.Status),
		StartDate:             p.StartDate,
		EstimatedDurationTime: string(estimate),
		ApprovedBy:            p.ApprovedBy,
		ApprovedAt:            p.ApprovedAt,
		PausedAt:              p.PausedAt,
		ConcludedAt:           p.ConcludedAt,
		RecordedPauses:        make([]pauseRecordResponse, 0, len(p.RecordedPauses)),
		RequestedBy:           p.RequestedBy,
		RequesterName:         p.RequesterName,
		Version:               p.Version,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
		Links: projectLinks{
			Self:     "/v1/projects/" + p.ID,
			Timeline: "/v1/projects/" + p.ID + "/timeline",
		},
	}
	for _, r := range p.RecordedPauses {
		resp.RecordedPauses = append(resp.RecordedPauses, pauseRecordResponse{
			Start:  r.Start,
			End:    r.End,
			Reason: r.Reason,
			Actor:  r.Actor,
		})
	}
	if p.AutomationTeam != nil {
		resp.AutomationTeam = &assignedTeamResponse{
			MemberID:     p.AutomationTeam.MemberID,
			Registration: p.AutomationTeam.Registration,
			Name:         p.AutomationTeam.Name,
		}
	}
	return resp
}

func toTimelineResponse(p *domain.Project) timelineResponse {
	resp := timelineResponse{
		ProjectID: p.ID,
		Status:    string(p.Status),
		Entries:   make([]timelineEntryResponse, 0, len(p.Timeline)),
	}
	for _, e := range p.Timeline {
		resp.Entries = append(resp.Entries, timelineEntryResponse{
			Type:  e.Type,
			From:  string(e.From),
			To:    string(e.To),
			Actor: e.Actor,
			Note:  e.Note,
			At:    e.At,
		})
	}
	return resp
}

func toListProjectsResponse(r *ports.ListProjectsResult) listProjectsResponse {
	data := make([]projectResponse, 0, len(r.Items))
	for _, p := range r.Items {
		data = append(data, toProjectResponse(p))
	}
	return listProjectsResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

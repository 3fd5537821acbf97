package domain

import (
	"testing"
	"time"
)

func TestProjectStatus_CanTransitionTo(t *testing.T) {
	allowed := map[[2]ProjectStatus]bool{
		{StatusRequested, StatusApproved}:   true,
		{StatusRequested, StatusRejected}:   true,
		{StatusApproved, StatusInProgress}:  true,
		{StatusInProgress, StatusPaused}:    true,
		{StatusInProgress, StatusCompleted}: true,
		{StatusPaused, StatusInProgress}:    true,
	}
	all := []ProjectStatus{StatusRequested, StatusApproved, StatusRejected, StatusInProgress, StatusPaused, StatusCompleted}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]ProjectStatus{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: want %v, got %v", from, to, want, got)
			}
		}
	}
}

func TestProjectStatus_IsTerminal(t *testing.T) {
	for _, s := range []ProjectStatus{StatusRejected, StatusCompleted} {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
	for _, s := range []ProjectStatus{StatusRequested, StatusApproved, StatusInProgress, StatusPaused} {
		if s.IsTerminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}

func TestEnums_Valid(t *testing.T) {
	if ProjectStatus("archived").Valid() {
		t.Error("unknown status must be invalid")
	}
	if !TypeMetalwork.Valid() || ProjectType("painting").Valid() {
		t.Error("project type validation wrong")
	}
	if !UrgencyHigh.Valid() || Urgency("HIGH").Valid() {
		t.Error("urgency validation is case sensitive on stored values")
	}
}

func TestProject_Clone_IsDeep(t *testing.T) {
	now := time.Now()
	by := int64(7)
	p := &Project{
		Tags:           []string{"a"},
		RecordedPauses: []PauseRecord{{Start: now, End: &now}},
		AutomationTeam: &AssignedTeam{Registration: 42},
		ApprovedBy:     &by,
		StartDate:      &now,
		Timeline:       []TimelineEntry{{Type: "created"}},
	}

	c := p.Clone()
	c.Tags[0] = "b"
	*c.RecordedPauses[0].End = now.Add(time.Hour)
	c.AutomationTeam.Registration = 99
	*c.ApprovedBy = 8
	*c.StartDate = now.Add(time.Hour)
	c.Timeline = append(c.Timeline, TimelineEntry{Type: "approved"})

	if p.Tags[0] != "a" || !p.RecordedPauses[0].End.Equal(now) || p.AutomationTeam.Registration != 42 ||
		*p.ApprovedBy != 7 || !p.StartDate.Equal(now) || len(p.Timeline) != 1 {
		t.Errorf("mutating the clone changed the original: %+v", p)
	}
}

func TestProject_LastOpenPause(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name    string
		pauses  []PauseRecord
		wantIdx int
	}{
		{"none", nil, -1},
		{"last open", []PauseRecord{{End: &now}, {}}, 1},
		{"last closed", []PauseRecord{{}, {End: &now}}, -1},
	}
	for _, tc := range cases {
		p := &Project{RecordedPauses: tc.pauses}
		if got := p.LastOpenPause(); got != tc.wantIdx {
			t.Errorf("%s: want %d, got %d", tc.name, tc.wantIdx, got)
		}
	}
}

func TestProject_IsAssignedTo(t *testing.T) {
	p := &Project{}
	if p.IsAssignedTo(42) {
		t.Error("project without team must not match")
	}
	p.AutomationTeam = &AssignedTeam{Registration: 42}
	if !p.IsAssignedTo(42) || p.IsAssignedTo(99) {
		t.Error("registration comparison wrong")
	}
}

func TestEventType_TimelineType(t *testing.T) {
	if got := EventProjectEstimateSet.TimelineType(); got != "estimate_set" {
		t.Errorf("want estimate_set, got %q", got)
	}
}

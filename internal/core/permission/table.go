// Package permission holds the declarative action permission table and the labels used
// by the approver and team admin policies. A Table is built once at startup and never
// mutated afterwards.
package permission

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

// Well-known actions.
const (
	ActionUpdateEstimate = "update_estimate"
	ActionAttendRequest  = "attend_request"
	ActionDeleteProject  = "delete_project"
	ActionViewReports    = "view_reports"
)

//go:embed default.yaml
var defaultFile []byte

// Profile is the actor profile a rule is evaluated against.
type Profile struct {
	Role     string
	Sector   string
	Username string
}

// Rule is the resolved allow-list of a single action. Values are normalized.
type Rule struct {
	Roles   []string `json:"roles"`
	Sectors []string `json:"sectors,omitempty"`
	Users   []string `json:"users,omitempty"`
}

// TeamAdminRule holds the profile a team administrator must match.
type TeamAdminRule struct {
	Sector    string   `json:"sector"`
	Level     string   `json:"level"`
	Functions []string `json:"functions"`
}

type set map[string]struct{}

func newSet(values []string, norm func(string) string) set {
	s := make(set, len(values))
	for _, v := range values {
		if n := norm(v); n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

func (s set) has(v string) bool {
	if v == "" {
		return false
	}
	_, ok := s[v]
	return ok
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

type rule struct {
	roles   set
	sectors set
	users   set
}

// Table maps actions to rules. The zero value denies everything.
type Table struct {
	actions          map[string]rule
	teamAdminSector  string
	teamAdminLevel   string
	teamAdminFuncs   set
	approverManagers set
}

// Allowed evaluates
//
//	roleAllowed AND (sectorAllowed OR userAllowed) OR (roleAllowed AND requiredRole == role)
//
// where an absent sector or user allow-list counts as allowed. Unknown actions and
// actions without roles deny.
func (t *Table) Allowed(action string, p Profile, requiredRole string) bool {
	if t == nil {
		return false
	}
	r, ok := t.actions[action]
	if !ok || len(r.roles) == 0 {
		return false
	}

	role := domain.Normalize(p.Role)
	roleAllowed := r.roles.has(role)
	sectorAllowed := len(r.sectors) == 0 || r.sectors.has(domain.Normalize(p.Sector))
	userAllowed := len(r.users) == 0 || r.users.has(normalizeUsername(p.Username))
	requiredMatches := role != "" && domain.Normalize(requiredRole) == role

	return roleAllowed && (sectorAllowed || userAllowed) || (roleAllowed && requiredMatches)
}

// Rule returns a copy of the rule for action.
func (t *Table) Rule(action string) (Rule, bool) {
	if t == nil {
		return Rule{}, false
	}
	r, ok := t.actions[action]
	if !ok {
		return Rule{}, false
	}
	return Rule{Roles: r.roles.sorted(), Sectors: r.sectors.sorted(), Users: r.users.sorted()}, true
}

// Actions lists the configured action names in sorted order.
func (t *Table) Actions() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.actions))
	for a := range t.actions {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// TeamAdmin returns the team administrator profile.
func (t *Table) TeamAdmin() TeamAdminRule {
	if t == nil {
		return TeamAdminRule{}
	}
	return TeamAdminRule{
		Sector:    t.teamAdminSector,
		Level:     t.teamAdminLevel,
		Functions: t.teamAdminFuncs.sorted(),
	}
}

// IsTeamAdminProfile reports whether sector, level and function match the team
// administrator profile. Membership in the team registry is checked by the caller.
func (t *Table) IsTeamAdminProfile(sector, level, function string) bool {
	if t == nil || t.teamAdminSector == "" || t.teamAdminLevel == "" {
		return false
	}
	return domain.Normalize(sector) == t.teamAdminSector &&
		domain.Normalize(level) == t.teamAdminLevel &&
		t.teamAdminFuncs.has(domain.Normalize(function))
}

// IsApproverManagerRole reports whether a team member role may manage approvers.
func (t *Table) IsApproverManagerRole(role string) bool {
	if t == nil {
		return false
	}
	return t.approverManagers.has(domain.Normalize(role))
}

func normalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

// file is the on-disk shape of the table.
type file struct {
	Policies struct {
		TeamAdmin struct {
			Sector    string   `yaml:"sector"`
			Level     string   `yaml:"level"`
			Functions []string `yaml:"functions"`
		} `yaml:"team_admin"`
		ApproverManagers struct {
			Roles []string `yaml:"roles"`
		} `yaml:"approver_managers"`
	} `yaml:"policies"`
	Exceptions map[string][]string `yaml:"exceptions"`
	Actions    map[string]struct {
		Roles     []string `yaml:"roles"`
		Sectors   []string `yaml:"sectors"`
		UsersFrom []string `yaml:"users_from"`
	} `yaml:"actions"`
}

// Parse builds a Table from YAML. Rules referencing an unknown exception list are
// rejected.
func Parse(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing permission table: %w", err)
	}

	t := &Table{
		actions:          make(map[string]rule, len(f.Actions)),
		teamAdminSector:  domain.Normalize(f.Policies.TeamAdmin.Sector),
		teamAdminLevel:   domain.Normalize(f.Policies.TeamAdmin.Level),
		teamAdminFuncs:   newSet(f.Policies.TeamAdmin.Functions, domain.Normalize),
		approverManagers: newSet(f.Policies.ApproverManagers.Roles, domain.Normalize),
	}

	for name, a := range f.Actions {
		var users []string
		for _, list := range a.UsersFrom {
			members, ok := f.Exceptions[list]
			if !ok {
				return nil, fmt.Errorf("action %q: unknown exception list %q", name, list)
			}
			users = append(users, members...)
		}
		t.actions[strings.TrimSpace(name)] = rule{
			roles:   newSet(a.Roles, domain.Normalize),
			sectors: newSet(a.Sectors, domain.Normalize),
			users:   newSet(users, normalizeUsername),
		}
	}
	return t, nil
}

// Default returns the table embedded in the binary.
func Default() *Table {
	t, err := Parse(defaultFile)
	if err != nil {
		panic(fmt.Sprintf("embedded permission table: %v", err))
	}
	return t
}

// Load reads the table from path, or returns the embedded default when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading permission table: %w", err)
	}
	return Parse(data)
}

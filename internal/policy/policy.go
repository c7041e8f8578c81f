// Package policy computes what a principal may see and do on a report case.
// It is pure: no database access, no HTTP. Every read path goes through
// Project so no response can forget to redact.
package policy

import (
	"github.com/castlinked/castlinked-backend/internal/models"
	"github.com/google/uuid"
)

// Role is a principal's relationship to one case, computed once and passed
// by value instead of being re-derived at call sites.
type Role int

const (
	RoleDenied Role = iota
	RoleReporter
	RoleTarget
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleReporter:
		return "reporter"
	case RoleTarget:
		return "target"
	case RoleAdmin:
		return "admin"
	}
	return "denied"
}

// Principal identifies an authenticated caller.
type Principal struct {
	ID    uuid.UUID
	Admin bool
}

// RoleFor computes the principal's role on the given case. Admins win over
// party roles; self-reports are rejected at filing time, so reporter and
// target are disjoint.
func RoleFor(report *models.Report, p Principal) Role {
	if p.Admin {
		return RoleAdmin
	}
	if p.ID == report.ReporterID {
		return RoleReporter
	}
	if report.TargetID != nil && *report.TargetID == p.ID {
		return RoleTarget
	}
	return RoleDenied
}

// ThreadParticipant returns the sub-thread a non-admin role posts into and
// reads from: a party only ever sees its own exchange with admins.
func ThreadParticipant(report *models.Report, role Role) (uuid.UUID, bool) {
	switch role {
	case RoleReporter:
		return report.ReporterID, true
	case RoleTarget:
		if report.TargetID != nil {
			return *report.TargetID, true
		}
	}
	return uuid.Nil, false
}

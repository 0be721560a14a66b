// Package policy decides whether a session may perform an action on a resource.
package policy

import (
	"fmt"

	"github.com/google/uuid"

	"hrdesk/internal/domain"
)

// Action names an operation guarded by the policy.
type Action string

const (
	EmployeeRead   Action = "employee.read"
	EmployeeWrite  Action = "employee.write"
	DocumentUpload Action = "document.upload"
	DocumentRemove Action = "document.remove"
	DocumentRead   Action = "document.read"
	DocumentVerify Action = "document.verify"
	DashboardRead  Action = "dashboard.read"
	ExportRead     Action = "export.read"
)

// Resource identifies what an action targets. OwnerEmployeeID is uuid.Nil for collection-level resources.
type Resource struct {
	Kind            string
	OwnerEmployeeID uuid.UUID
}

// Employee returns the resource for an employee record.
func Employee(id uuid.UUID) Resource { return Resource{Kind: "employee", OwnerEmployeeID: id} }

// Any returns a collection-level resource of the given kind.
func Any(kind string) Resource { return Resource{Kind: kind} }

// Policy is consulted before every guarded operation.
type Policy interface {
	Can(session domain.Session, action Action, resource Resource) bool
}

// New returns the policy for mode: "permissive" or "rbac".
func New(mode string) (Policy, error) {
	switch mode {
	case "", "permissive":
		return Permissive(), nil
	case "rbac":
		return RBAC(), nil
	default:
		return nil, fmt.Errorf("unknown policy mode %q", mode)
	}
}

type permissive struct{}

// Permissive allows every action to any authenticated session.
func Permissive() Policy { return permissive{} }

func (permissive) Can(s domain.Session, _ Action, _ Resource) bool {
	return s.IsAuthenticated
}

type rbac struct {
	self map[Action]bool
}

// RBAC allows staff every action and lets employees read and manage their own documents.
func RBAC() Policy {
	return rbac{self: map[Action]bool{
		EmployeeRead:   true,
		DocumentUpload: true,
		DocumentRemove: true,
		DocumentRead:   true,
	}}
}

func (p rbac) Can(s domain.Session, action Action, r Resource) bool {
	if !s.IsAuthenticated {
		return false
	}
	if s.IsStaff() {
		return true
	}
	if s.Role != domain.RoleEmployee || !p.self[action] {
		return false
	}
	return s.Owns(r.OwnerEmployeeID)
}

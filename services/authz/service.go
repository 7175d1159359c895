package authz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sevacare/backend/models"
	"github.com/sevacare/backend/services"
	"go.uber.org/zap"
)

// Role is the coarse access level carried in a credential.
type Role string

const (
	RolePatient    Role = "patient"
	RoleDoctor     Role = "doctor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole maps a claim string onto a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleAdmin, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

// Permission is a closed, enumerated set of fine-grained rights. New
// permissions are added here, never as free-form strings.
type Permission int

const (
	PermViewPatients Permission = iota
	PermManagePatients
	PermManageDoctors
	PermViewReports
	PermManageAdmins
)

// String returns the wire name of a permission.
func (p Permission) String() string {
	switch p {
	case PermViewPatients:
		return "view_patients"
	case PermManagePatients:
		return "manage_patients"
	case PermManageDoctors:
		return "manage_doctors"
	case PermViewReports:
		return "view_reports"
	case PermManageAdmins:
		return "manage_admins"
	default:
		return fmt.Sprintf("permission(%d)", int(p))
	}
}

// PermissionSet maps permissions to granted/denied for one identity.
type PermissionSet map[Permission]bool

// Identity is the authenticated caller resolved by the pipeline: subject,
// role and the permission set attached to that role.
type Identity struct {
	SubjectID   string
	Role        Role
	SessionID   string
	Permissions PermissionSet
}

// DefaultGrants is the per-role permission table, resolved once at startup.
// The superadmin role is absent on purpose: it bypasses the table entirely.
func DefaultGrants() map[Role]PermissionSet {
	return map[Role]PermissionSet{
		RolePatient: {},
		RoleDoctor: {
			PermViewPatients: true,
			PermViewReports:  true,
		},
		RoleAdmin: {
			PermViewPatients:   true,
			PermManagePatients: true,
			PermManageDoctors:  true,
			PermViewReports:    true,
		},
	}
}

// AdminStore is the external identity collaborator for the active-admin
// gate. Implementations return services.ErrNotFound when no record exists.
type AdminStore interface {
	FindAdminByID(ctx context.Context, id string) (*models.Admin, error)
}

// Service resolves whether an authenticated identity satisfies an
// endpoint's requirement.
type Service struct {
	superRole     Role
	grants        map[Role]PermissionSet
	admins        AdminStore
	lookupTimeout time.Duration
	logger        *zap.Logger
}

// NewService creates an authorization service with the default grant table.
func NewService(admins AdminStore, lookupTimeout time.Duration, logger *zap.Logger) *Service {
	if lookupTimeout <= 0 {
		lookupTimeout = 3 * time.Second
	}
	return &Service{
		superRole:     RoleSuperAdmin,
		grants:        DefaultGrants(),
		admins:        admins,
		lookupTimeout: lookupTimeout,
		logger:        logger,
	}
}

// IdentityFor builds an Identity for verified claims, attaching the
// permission set granted to the role.
func (s *Service) IdentityFor(subjectID string, role Role, sessionID string) *Identity {
	return &Identity{
		SubjectID:   subjectID,
		Role:        role,
		SessionID:   sessionID,
		Permissions: s.grants[role],
	}
}

// Authorize decides whether identity may exercise the required permission.
// Precedence: authenticated identity required, then super-role bypass, then
// the permission set lookup.
func (s *Service) Authorize(identity *Identity, required Permission) error {
	if identity == nil || identity.SubjectID == "" {
		return services.ErrAuthenticationRequired
	}
	if identity.Role == s.superRole {
		return nil
	}
	if identity.Permissions[required] {
		return nil
	}
	return services.ErrPermissionDenied.
		WithMessage(fmt.Sprintf("permission %s required", required)).
		WithDetail("required_permission", required.String())
}

// RequireRole is the coarser check: identity's role must be one of allowed.
// The super-role is not special-cased here; callers that want it through
// list it explicitly.
func (s *Service) RequireRole(identity *Identity, allowed ...Role) error {
	if identity == nil || identity.SubjectID == "" {
		return services.ErrAuthenticationRequired
	}
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	names := make([]string, len(allowed))
	for i, role := range allowed {
		names[i] = string(role)
	}
	return services.ErrRoleNotAllowed.
		WithMessage(fmt.Sprintf("requires one of roles: %s", strings.Join(names, ", "))).
		WithDetail("allowed_roles", names)
}

// CheckAdminActive resolves the admin record behind identity and denies when
// it is deactivated. The lookup runs under a bounded timeout; a timeout or
// driver failure surfaces as a storage failure, never a silent pass.
func (s *Service) CheckAdminActive(ctx context.Context, identity *Identity) error {
	if identity == nil || identity.SubjectID == "" {
		return services.ErrAuthenticationRequired
	}

	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	admin, err := s.admins.FindAdminByID(ctx, identity.SubjectID)
	if err != nil {
		if services.IsNotFoundError(err) {
			// Token subject no longer resolves to an admin account.
			return services.ErrAuthenticationRequired
		}
		return services.WrapStorage("admin account lookup failed", err)
	}

	if !admin.Active {
		s.logger.Warn("deactivated admin attempted access",
			zap.String("admin_id", identity.SubjectID))
		return services.ErrAccountDeactivated
	}
	return nil
}

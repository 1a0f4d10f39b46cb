package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-shop/models"
	"go-shop/permissions"
	"go-shop/repository"
	"go-shop/utils"
)

// RoleRequest carries a role create or update payload.
type RoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// RoleService manages the role catalogue backing authorization.
type RoleService struct {
	roles repository.RoleRepo
	log   *zap.Logger
}

func NewRoleService(roles repository.RoleRepo, log *zap.Logger) *RoleService {
	return &RoleService{roles: roles, log: log}
}

// Create adds a new role. The admin wildcard belongs to the seeded Admin
// role alone; a request containing it stores an empty permission set.
func (s *RoleService) Create(ctx context.Context, req RoleRequest) (*models.Role, error) {
	perms, err := normalizePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}

	if _, err := s.roles.GetByName(ctx, req.Name, primitive.NilObjectID); err == nil {
		return nil, utils.ErrAlreadyExist("The role name is existed")
	} else if err != repository.ErrNotFound {
		return nil, err
	}

	role := &models.Role{
		Name:        req.Name,
		Permissions: perms,
	}
	return s.roles.Create(ctx, role)
}

// Update modifies a role. The Admin and Basic roles are fixed by the seed
// and cannot be changed.
func (s *RoleService) Update(ctx context.Context, id primitive.ObjectID, req RoleRequest) (*models.Role, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if protectedRole(role) {
		return nil, utils.ErrInvalid("You can't update permission with admin or basic role")
	}

	perms, err := normalizePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}

	if req.Name != "" && req.Name != role.Name {
		if _, err := s.roles.GetByName(ctx, req.Name, id); err == nil {
			return nil, utils.ErrAlreadyExist("The role name is existed")
		} else if err != repository.ErrNotFound {
			return nil, err
		}
		role.Name = req.Name
	}

	role.Permissions = perms
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Get returns one role.
func (s *RoleService) Get(ctx context.Context, id primitive.ObjectID) (*models.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err == repository.ErrNotFound {
		return nil, utils.ErrInvalid("The role is not existed")
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

// List returns all roles.
func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	return s.roles.List(ctx)
}

// Delete removes one role; system roles are protected.
func (s *RoleService) Delete(ctx context.Context, id primitive.ObjectID) error {
	role, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if protectedRole(role) {
		return utils.ErrInvalid("You can't delete admin or basic role")
	}
	return s.roles.Delete(ctx, id)
}

// DeleteMany removes a batch of roles, refusing the whole batch when it
// contains a system role.
func (s *RoleService) DeleteMany(ctx context.Context, ids []primitive.ObjectID) error {
	for _, id := range ids {
		role, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if protectedRole(role) {
			return utils.ErrInvalid("You can't delete admin or basic role")
		}
	}
	return s.roles.DeleteMany(ctx, ids)
}

// Permissions lists every permission code the system knows.
func (s *RoleService) Permissions() []string {
	return permissions.All()
}

// protectedRole reports whether the role is off-limits to updates and
// deletes: the two system roles, plus any role carrying their grants.
func protectedRole(role *models.Role) bool {
	return role.IsSystem() ||
		permissions.Has(role.Permissions, permissions.Admin) ||
		permissions.Has(role.Permissions, permissions.Basic)
}

// normalizePermissions validates each code against the known set. The admin
// wildcard stays exclusive to the seeded Admin role; a request carrying it
// yields an empty permission set.
func normalizePermissions(codes []string) ([]string, error) {
	codes = utils.UniqueStrings(codes)
	for _, code := range codes {
		if !permissions.Known(code) {
			return nil, utils.ErrInvalid(fmt.Sprintf("The permission %s is not existed", code))
		}
		if code == permissions.Admin {
			return []string{}, nil
		}
	}
	return codes, nil
}

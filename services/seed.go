package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-shop/models"
	"go-shop/permissions"
	"go-shop/repository"
)

// Seed creates the two system roles and the initial admin account when they
// are missing. Safe to run on every startup.
func Seed(ctx context.Context, users repository.UserRepo, roles repository.RoleRepo, adminEmail, adminPassword string, log *zap.Logger) error {
	adminRole, err := ensureRole(ctx, roles, models.RoleAdminName, []string{permissions.Admin})
	if err != nil {
		return err
	}
	if _, err := ensureRole(ctx, roles, models.RoleBasicName, []string{permissions.Basic}); err != nil {
		return err
	}

	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	exists, err := users.ExistsByEmail(ctx, adminEmail, primitive.NilObjectID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = users.Create(ctx, &models.User{
		Email:    adminEmail,
		Password: string(hash),
		Status:   models.UserEnabled,
		UserType: models.UserTypeDefault,
		Role:     adminRole.ID,
	})
	if err != nil {
		return err
	}
	log.Info("seeded admin account", zap.String("email", adminEmail))
	return nil
}

func ensureRole(ctx context.Context, roles repository.RoleRepo, name string, perms []string) (*models.Role, error) {
	role, err := roles.GetByName(ctx, name, primitive.NilObjectID)
	if err == nil {
		return role, nil
	}
	if err != repository.ErrNotFound {
		return nil, err
	}
	return roles.Create(ctx, &models.Role{Name: name, Permissions: perms})
}

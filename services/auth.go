package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-shop/config"
	"go-shop/models"
	"go-shop/permissions"
	"go-shop/repository"
	"go-shop/tokens"
	"go-shop/utils"
)

// UpdateMeRequest carries the self-service profile update.
type UpdateMeRequest struct {
	FirstName   string             `json:"firstName"`
	LastName    string             `json:"lastName"`
	MiddleName  string             `json:"middleName"`
	Email       string             `json:"email"`
	Avatar      string             `json:"avatar"`
	PhoneNumber string             `json:"phoneNumber"`
	Addresses   []models.Address   `json:"addresses"`
	Status      *int               `json:"status"`
	Role        primitive.ObjectID `json:"role"`
}

// AuthService owns registration, login, the token lifecycle endpoints and
// the self-service account operations.
type AuthService struct {
	users    repository.UserRepo
	roles    repository.RoleRepo
	tokens   *tokens.Service
	email    utils.EmailSender
	google   IdentityVerifier
	facebook IdentityVerifier
	reset    config.ResetConfig
	log      *zap.Logger
}

func NewAuthService(
	users repository.UserRepo,
	roles repository.RoleRepo,
	tokenService *tokens.Service,
	email utils.EmailSender,
	google, facebook IdentityVerifier,
	reset config.ResetConfig,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		roles:    roles,
		tokens:   tokenService,
		email:    email,
		google:   google,
		facebook: facebook,
		reset:    reset,
		log:      log,
	}
}

// Register creates a default-type account with the Basic role.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, email, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.ErrAlreadyExist("The email of user is existed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Status:   models.UserEnabled,
		UserType: models.UserTypeDefault,
	}
	if basic, err := s.roles.GetByName(ctx, models.RoleBasicName, primitive.NilObjectID); err == nil {
		user.Role = basic.ID
	}

	return s.users.Create(ctx, user)
}

// Login verifies the credentials of a default-type account and issues a token
// pair carrying the role's permission snapshot.
func (s *AuthService) Login(ctx context.Context, email, password, deviceToken string) (*models.User, tokens.Pair, error) {
	user, err := s.users.GetByEmail(ctx, email, models.UserTypeDefault)
	if err == repository.ErrNotFound {
		return nil, tokens.Pair{}, utils.ErrInvalid("The username or password is wrong")
	}
	if err != nil {
		return nil, tokens.Pair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, tokens.Pair{}, utils.ErrInvalid("The username or password is wrong")
	}

	return s.finishLogin(ctx, user, deviceToken)
}

// Logout revokes the presented access token.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	return s.tokens.Revoke(ctx, accessToken)
}

// RefreshToken mints a new access token from a valid refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	accessToken, err := s.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		return "", utils.ErrUnauthorized("Unauthorized")
	}
	return accessToken, nil
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err == repository.ErrNotFound {
		return nil, utils.ErrInvalid("The user is not existed")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateMe applies a profile update. An admin account's email and status are
// immutable through this path, and at most one address may be the default;
// both are checked before anything is persisted.
func (s *AuthService) UpdateMe(ctx context.Context, userID primitive.ObjectID, req UpdateMeRequest) (*models.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != "" && req.Email != user.Email {
		exists, err := s.users.ExistsByEmail(ctx, req.Email, userID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, utils.ErrAlreadyExist("The email of user is existed")
		}
	}

	if s.isAdminUser(ctx, user) {
		emailChanged := req.Email != "" && req.Email != user.Email
		statusChanged := req.Status != nil && *req.Status != user.Status
		if emailChanged || statusChanged {
			return nil, utils.ErrUnauthorized("You can't change admin's email or status")
		}
	}

	if len(req.Addresses) > 0 {
		defaults := 0
		for _, address := range req.Addresses {
			if address.IsDefault {
				defaults++
			}
		}
		if defaults > 1 {
			return nil, utils.ErrInvalid("Only one default address is allowed")
		}
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.MiddleName = req.MiddleName
	user.Avatar = req.Avatar
	user.PhoneNumber = req.PhoneNumber
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if !req.Role.IsZero() {
		user.Role = req.Role
	}
	if len(req.Addresses) > 0 {
		user.Addresses = req.Addresses
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword swaps the caller's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)) != nil {
		return utils.ErrInvalid("The currentPassword is wrong")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(newPassword)) == nil {
		return utils.ErrInvalid("The new password must not duplicate the current password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.SetPassword(ctx, userID, string(hash))
}

// UpdateDevice records a push device token on the caller's account.
func (s *AuthService) UpdateDevice(ctx context.Context, userID primitive.ObjectID, deviceToken string) (*models.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if deviceToken != "" {
		if err := s.users.AddDeviceToken(ctx, user.ID, deviceToken); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// ForgotPassword stores a fresh reset token on the account and mails the
// reset link. Only default-type accounts carry passwords to reset.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email, models.UserTypeDefault)
	if err == repository.ErrNotFound {
		return utils.ErrInvalid("The email is not existed")
	}
	if err != nil {
		return err
	}

	resetToken := uuid.NewString()
	expiry := time.Now().Add(s.reset.PasswordExpire)
	if err := s.users.SetResetToken(ctx, user.ID, resetToken, expiry); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s?secretKey=%s", s.reset.ResetURL, resetToken)
	if err := s.email.SendForgotPasswordEmail(user.Email, resetLink, int(s.reset.PasswordExpire.Seconds())); err != nil {
		s.log.Error("send forgot-password email", zap.String("email", user.Email), zap.Error(err))
		return utils.ErrInternal("Internal Server Error")
	}
	return nil
}

// ResetPassword consumes an unexpired reset token and stores the new
// password; the token is cleared in the same update.
func (s *AuthService) ResetPassword(ctx context.Context, secretKey, newPassword string) error {
	user, err := s.users.GetByResetToken(ctx, secretKey)
	if err == repository.ErrNotFound {
		return utils.ErrInvalid("Invalid or expired token")
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(newPassword)) == nil {
		return utils.ErrInvalid("The new password must not duplicate the current password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.SetPassword(ctx, user.ID, string(hash))
}

// RegisterSocial creates an account from a provider-verified identity.
func (s *AuthService) RegisterSocial(ctx context.Context, verifier IdentityVerifier, idToken string, userType int) (*models.User, error) {
	identity, err := verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, utils.ErrInvalid("Validate user is error")
	}

	exists, err := s.users.ExistsByEmail(ctx, identity.Email, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.ErrAlreadyExist("The user is existed")
	}

	user := &models.User{
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Avatar:    identity.Avatar,
		Status:    models.UserEnabled,
		UserType:  userType,
	}
	if basic, err := s.roles.GetByName(ctx, models.RoleBasicName, primitive.NilObjectID); err == nil {
		user.Role = basic.ID
	}
	return s.users.Create(ctx, user)
}

// LoginSocial logs in an existing account of the given provider type.
func (s *AuthService) LoginSocial(ctx context.Context, verifier IdentityVerifier, idToken, deviceToken string, userType int) (*models.User, tokens.Pair, error) {
	identity, err := verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, tokens.Pair{}, utils.ErrInvalid("Validate user is error")
	}

	user, err := s.users.GetByEmail(ctx, identity.Email, userType)
	if err == repository.ErrNotFound {
		return nil, tokens.Pair{}, utils.ErrInvalid("The user is not existed")
	}
	if err != nil {
		return nil, tokens.Pair{}, err
	}

	return s.finishLogin(ctx, user, deviceToken)
}

// Google returns the Google verifier for the social endpoints.
func (s *AuthService) Google() IdentityVerifier { return s.google }

// Facebook returns the Facebook verifier for the social endpoints.
func (s *AuthService) Facebook() IdentityVerifier { return s.facebook }

func (s *AuthService) finishLogin(ctx context.Context, user *models.User, deviceToken string) (*models.User, tokens.Pair, error) {
	if deviceToken != "" {
		if err := s.users.AddDeviceToken(ctx, user.ID, deviceToken); err != nil {
			s.log.Warn("record device token", zap.String("user", user.ID.Hex()), zap.Error(err))
		}
	}

	pair, err := s.tokens.IssuePair(user.ID.Hex(), s.rolePermissions(ctx, user))
	if err != nil {
		return nil, tokens.Pair{}, err
	}
	return user, pair, nil
}

// rolePermissions resolves the role's permission set once, at login; the
// snapshot then lives inside the tokens until they expire.
func (s *AuthService) rolePermissions(ctx context.Context, user *models.User) []string {
	if user.Role.IsZero() {
		return []string{permissions.Basic}
	}
	role, err := s.roles.GetByID(ctx, user.Role)
	if err != nil {
		s.log.Warn("resolve role", zap.String("user", user.ID.Hex()), zap.Error(err))
		return []string{permissions.Basic}
	}
	return role.Permissions
}

func (s *AuthService) isAdminUser(ctx context.Context, user *models.User) bool {
	if user.Role.IsZero() {
		return false
	}
	role, err := s.roles.GetByID(ctx, user.Role)
	if err != nil {
		return false
	}
	return permissions.IsAdmin(role.Permissions)
}

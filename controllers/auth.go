package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/middleware"
	"go-shop/models"
	"go-shop/services"
	"go-shop/utils"
)

const refreshCookieName = "refreshToken"

// AuthController handles authentication and account endpoints.
type AuthController struct {
	auth          *services.AuthService
	refreshExpire time.Duration
}

func NewAuthController(auth *services.AuthService, refreshExpire time.Duration) *AuthController {
	return &AuthController{auth: auth, refreshExpire: refreshExpire}
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DeviceToken string `json:"deviceToken"`
}

type socialRequest struct {
	IDToken     string `json:"idToken"`
	DeviceToken string `json:"deviceToken"`
}

type loginResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// Register creates a new account from email and password.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}
	if missing := utils.MissingFields(map[string]string{
		"email":    req.Email,
		"password": req.Password,
	}, "email", "password"); len(missing) > 0 {
		utils.WriteError(w, utils.ErrInvalid(fmt.Sprintf("The field %s is required", strings.Join(missing, ", "))))
		return
	}
	if !utils.IsEmail(req.Email) {
		utils.WriteError(w, utils.ErrInvalid("The field email must be a email"))
		return
	}
	if !utils.IsStrongPassword(req.Password) {
		utils.WriteError(w, utils.ErrInvalid("The password is not strong enough"))
		return
	}

	user, err := c.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Register user success", sanitizeUser(user))
}

// Login verifies credentials and answers with a token pair. The refresh token
// also travels in an http-only cookie.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.WriteError(w, utils.ErrInvalid("The field email, password is required"))
		return
	}

	user, pair, err := c.auth.Login(r.Context(), req.Email, req.Password, req.DeviceToken)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	c.setRefreshCookie(w, pair.RefreshToken)
	utils.WriteSuccess(w, http.StatusOK, "Login success", loginResponse{
		User:         sanitizeUser(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout revokes the presented access token and clears the refresh cookie.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.BearerToken(r); token != "" {
		if err := c.auth.Logout(r.Context(), token); err != nil {
			utils.WriteError(w, err)
			return
		}
	}
	c.clearRefreshCookie(w)
	utils.WriteSuccess(w, http.StatusOK, "Logout success", nil)
}

// RefreshToken exchanges a refresh token, from the cookie or the body, for a
// new access token.
func (c *AuthController) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken := ""
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		refreshToken = cookie.Value
	}
	if refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
		return
	}

	accessToken, err := c.auth.RefreshToken(r.Context(), refreshToken)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Refresh token success", map[string]string{
		"access_token": accessToken,
	})
}

// Me returns the caller's account.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
		return
	}

	user, err := c.auth.Me(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Get info user success", sanitizeUser(user))
}

// UpdateMe updates the caller's profile.
func (c *AuthController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
		return
	}

	var req services.UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}
	if req.Email != "" && !utils.IsEmail(req.Email) {
		utils.WriteError(w, utils.ErrInvalid("The field email must be a email"))
		return
	}

	user, err := c.auth.UpdateMe(r.Context(), userID, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Update info user success", sanitizeUser(user))
}

// ChangePassword swaps the caller's password.
func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		utils.WriteError(w, utils.ErrInvalid("The field currentPassword, newPassword is required"))
		return
	}
	if !utils.IsStrongPassword(req.NewPassword) {
		utils.WriteError(w, utils.ErrInvalid("The password is not strong enough"))
		return
	}

	if err := c.auth.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Change password success", nil)
}

// UpdateDevice records the caller's push device token.
func (c *AuthController) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
		return
	}

	var req struct {
		DeviceToken string `json:"deviceToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}
	if req.DeviceToken == "" {
		utils.WriteError(w, utils.ErrInvalid("The field deviceToken is required"))
		return
	}

	user, err := c.auth.UpdateDevice(r.Context(), userID, req.DeviceToken)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Update device token success", sanitizeUser(user))
}

// ForgotPassword sends a password-reset link to the given email.
func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}
	if !utils.IsEmail(req.Email) {
		utils.WriteError(w, utils.ErrInvalid("The field email must be a email"))
		return
	}

	if err := c.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Forgot password success", nil)
}

// ResetPassword consumes a reset token and stores the new password.
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SecretKey   string `json:"secretKey"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}
	if req.SecretKey == "" || req.NewPassword == "" {
		utils.WriteError(w, utils.ErrInvalid("The field secretKey, newPassword is required"))
		return
	}
	if !utils.IsStrongPassword(req.NewPassword) {
		utils.WriteError(w, utils.ErrInvalid("The password is not strong enough"))
		return
	}

	if err := c.auth.ResetPassword(r.Context(), req.SecretKey, req.NewPassword); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Reset password success", nil)
}

// RegisterGoogle creates an account from a Google identity token.
func (c *AuthController) RegisterGoogle(w http.ResponseWriter, r *http.Request) {
	c.registerSocial(w, r, c.auth.Google(), models.UserTypeGoogle)
}

// LoginGoogle logs in an account registered through Google.
func (c *AuthController) LoginGoogle(w http.ResponseWriter, r *http.Request) {
	c.loginSocial(w, r, c.auth.Google(), models.UserTypeGoogle)
}

// RegisterFacebook creates an account from a Facebook access token.
func (c *AuthController) RegisterFacebook(w http.ResponseWriter, r *http.Request) {
	c.registerSocial(w, r, c.auth.Facebook(), models.UserTypeFacebook)
}

// LoginFacebook logs in an account registered through Facebook.
func (c *AuthController) LoginFacebook(w http.ResponseWriter, r *http.Request) {
	c.loginSocial(w, r, c.auth.Facebook(), models.UserTypeFacebook)
}

func (c *AuthController) registerSocial(w http.ResponseWriter, r *http.Request, verifier services.IdentityVerifier, userType int) {
	var req socialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}
	if req.IDToken == "" {
		utils.WriteError(w, utils.ErrInvalid("The field idToken is required"))
		return
	}

	user, err := c.auth.RegisterSocial(r.Context(), verifier, req.IDToken, userType)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Register user success", sanitizeUser(user))
}

func (c *AuthController) loginSocial(w http.ResponseWriter, r *http.Request, verifier services.IdentityVerifier, userType int) {
	var req socialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}
	if req.IDToken == "" {
		utils.WriteError(w, utils.ErrInvalid("The field idToken is required"))
		return
	}

	user, pair, err := c.auth.LoginSocial(r.Context(), verifier, req.IDToken, req.DeviceToken, userType)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	c.setRefreshCookie(w, pair.RefreshToken)
	utils.WriteSuccess(w, http.StatusOK, "Login success", loginResponse{
		User:         sanitizeUser(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (c *AuthController) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(c.refreshExpire.Seconds()),
	})
}

func (c *AuthController) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

// sanitizeUser strips credential fields before the user goes on the wire.
func sanitizeUser(user *models.User) *models.User {
	copied := *user
	copied.Password = ""
	copied.ResetToken = ""
	return &copied
}

// callerID resolves the authenticated caller's user id from the request.
func callerID(r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

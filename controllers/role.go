package controllers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/services"
	"go-shop/utils"
)

// RoleController handles role management endpoints.
type RoleController struct {
	roles *services.RoleService
}

func NewRoleController(roles *services.RoleService) *RoleController {
	return &RoleController{roles: roles}
}

// Create adds a new role.
func (c *RoleController) Create(w http.ResponseWriter, r *http.Request) {
	var req services.RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}
	if req.Name == "" {
		utils.WriteError(w, utils.ErrInvalid("The field name is required"))
		return
	}

	role, err := c.roles.Create(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Create role success", role)
}

// List returns all roles.
func (c *RoleController) List(w http.ResponseWriter, r *http.Request) {
	roles, err := c.roles.List(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Get all role success", map[string]any{
		"roles":      roles,
		"totalCount": len(roles),
	})
}

// GetDetails returns one role.
func (c *RoleController) GetDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	role, err := c.roles.Get(r.Context(), id)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Get details role success", role)
}

// Update modifies a role.
func (c *RoleController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var req services.RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}

	role, err := c.roles.Update(r.Context(), id, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Update role success", role)
}

// Delete removes one role.
func (c *RoleController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := c.roles.Delete(r.Context(), id); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Delete role success", nil)
}

// DeleteMany removes a batch of roles.
func (c *RoleController) DeleteMany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoleIDs []string `json:"roleIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.ErrInvalid("The request body is not valid"))
		return
	}
	if len(req.RoleIDs) == 0 {
		utils.WriteError(w, utils.ErrInvalid("The field roleIds is required"))
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.RoleIDs))
	for _, raw := range req.RoleIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			utils.WriteError(w, utils.ErrInvalid("The field roleIds must contain valid ids"))
			return
		}
		ids = append(ids, id)
	}

	if err := c.roles.DeleteMany(r.Context(), ids); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Delete many role success", nil)
}

// Permissions lists every known permission code.
func (c *RoleController) Permissions(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, "Get all permission success", c.roles.Permissions())
}

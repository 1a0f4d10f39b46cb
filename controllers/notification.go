package controllers

import (
	"net/http"

	"go-shop/models"
	"go-shop/services"
	"go-shop/utils"
)

// NotificationController handles the caller's notification feed.
type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// List returns the caller's notifications, newest first.
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
		return
	}

	params, err := listParams(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	notifications, total, err := c.notifications.List(r.Context(), userID, params.Page, params.Limit)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Get all notification success", struct {
		Notifications []models.Notification `json:"notifications"`
		Total         int64                 `json:"totalCount"`
	}{Notifications: notifications, Total: total})
}

// ReadOne marks one notification read for the caller.
func (c *NotificationController) ReadOne(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := c.notifications.ReadOne(r.Context(), id, userID); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Read notification success", nil)
}

// ReadAll marks all of the caller's notifications read.
func (c *NotificationController) ReadAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		utils.WriteError(w, utils.ErrUnauthorized("Unauthorized"))
		return
	}

	if err := c.notifications.ReadAll(r.Context(), userID); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Read all notification success", nil)
}

// Delete removes a notification.
func (c *NotificationController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := c.notifications.Delete(r.Context(), id); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Delete notification success", nil)
}

package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-shop/models"
	"go-shop/permissions"
	"go-shop/repository"
	"go-shop/utils"
)

// PushSender delivers a push message to a set of device tokens. The real
// transport lives outside this service.
type PushSender interface {
	SendPush(ctx context.Context, deviceTokens []string, title, body string) error
}

// LogPushSender logs pushes instead of delivering them. It stands in when no
// push transport is configured.
type LogPushSender struct {
	Log *zap.Logger
}

func (s *LogPushSender) SendPush(_ context.Context, deviceTokens []string, title, body string) error {
	s.Log.Info("push notification",
		zap.Int("devices", len(deviceTokens)),
		zap.String("title", title),
		zap.String("body", body),
	)
	return nil
}

// Notifier is the narrow port the order lifecycle emits events through.
type Notifier interface {
	Dispatch(ctx context.Context, userID primitive.ObjectID, notifyContext, title, body, referenceID string)
}

// NotificationService persists lifecycle notifications and fans them out to
// the affected user and every admin.
type NotificationService struct {
	notifications repository.NotificationRepo
	users         repository.UserRepo
	roles         repository.RoleRepo
	push          PushSender
	log           *zap.Logger
}

func NewNotificationService(
	notifications repository.NotificationRepo,
	users repository.UserRepo,
	roles repository.RoleRepo,
	push PushSender,
	log *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		roles:         roles,
		push:          push,
		log:           log,
	}
}

// Dispatch stores the notification for the user plus all admins and pushes it
// to their devices. Dispatch failures are logged, never propagated: a
// notification must not undo the mutation that produced it.
func (s *NotificationService) Dispatch(ctx context.Context, userID primitive.ObjectID, notifyContext, title, body, referenceID string) {
	recipientIDs, deviceTokens := s.recipients(ctx, userID)
	if len(recipientIDs) == 0 {
		return
	}

	recipients := make([]models.Recipient, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		recipients = append(recipients, models.Recipient{UserID: id})
	}

	_, err := s.notifications.Create(ctx, &models.Notification{
		Context:      notifyContext,
		Title:        title,
		Body:         body,
		ReferenceID:  referenceID,
		RecipientIDs: recipients,
	})
	if err != nil {
		s.log.Error("persist notification", zap.String("title", title), zap.Error(err))
		return
	}

	if len(deviceTokens) > 0 {
		if err := s.push.SendPush(ctx, deviceTokens, title, body); err != nil {
			s.log.Error("push notification", zap.String("title", title), zap.Error(err))
		}
	}
}

// recipients resolves the target user plus every user holding an admin role,
// deduplicated, with their device tokens.
func (s *NotificationService) recipients(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, []string) {
	var ids []primitive.ObjectID
	var deviceTokens []string

	if user, err := s.users.GetByID(ctx, userID); err == nil {
		ids = append(ids, user.ID)
		deviceTokens = append(deviceTokens, user.DeviceTokens...)
	}

	adminRoles, err := s.roles.FindByPermission(ctx, permissions.Admin)
	if err == nil && len(adminRoles) > 0 {
		roleIDs := make([]primitive.ObjectID, 0, len(adminRoles))
		for _, role := range adminRoles {
			roleIDs = append(roleIDs, role.ID)
		}
		admins, err := s.users.FindByRoles(ctx, roleIDs)
		if err == nil {
			for _, admin := range admins {
				ids = append(ids, admin.ID)
				deviceTokens = append(deviceTokens, admin.DeviceTokens...)
			}
		}
	}

	return uniqueIDs(ids), utils.UniqueStrings(deviceTokens)
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Notification, int64, error) {
	return s.notifications.ListByUser(ctx, userID, page, limit)
}

// ReadOne marks a single notification read for the caller.
func (s *NotificationService) ReadOne(ctx context.Context, id, userID primitive.ObjectID) error {
	if err := s.notifications.MarkRead(ctx, id, userID); err != nil {
		if err == repository.ErrNotFound {
			return utils.ErrInvalid("The notification is not existed")
		}
		return err
	}
	return nil
}

// ReadAll marks every notification of the caller read.
func (s *NotificationService) ReadAll(ctx context.Context, userID primitive.ObjectID) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.notifications.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return utils.ErrInvalid("The notification is not existed")
		}
		return err
	}
	return nil
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

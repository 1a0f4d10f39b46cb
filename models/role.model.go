package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Names of the two system roles created at first run. Their permission sets
// are immutable through the update path.
const (
	RoleAdminName = "Admin"
	RoleBasicName = "Basic"
)

// Role is a named set of permission codes assigned to users.
type Role struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Permissions []string           `bson:"permissions" json:"permissions"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// IsSystem reports whether the role is one of the two protected system roles.
func (r *Role) IsSystem() bool {
	return r.Name == RoleAdminName || r.Name == RoleBasicName
}

// README: Account profile and role definitions.
package profile

import (
	"time"

	"vdeliveries/internal/types"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDriver Role = "driver"
	RoleClient Role = "client"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDriver, RoleClient:
		return true
	}
	return false
}

// Home is the dashboard subtree belonging to the role.
func (r Role) Home() string {
	return "/dashboard/" + string(r)
}

type Profile struct {
	ID           types.ID     `json:"id"`
	FullName     string       `json:"full_name"`
	Phone        string       `json:"phone"`
	Role         Role         `json:"role"`
	VehicleClass string       `json:"vehicle_class,omitempty"`
	IsOnline     bool         `json:"is_online"`
	LastPosition *types.Point `json:"last_position,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`

	// PasswordHash never leaves the profile store boundary.
	PasswordHash string `json:"-"`
}

// README: Driver presence — online flag plus last reported position.
package presence

import (
	"time"

	"vdeliveries/internal/types"
)

type Presence struct {
	DriverID  types.ID     `json:"id"`
	Online    bool         `json:"is_online"`
	Position  *types.Point `json:"position,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

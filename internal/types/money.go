// README: Common money value object used across modules.
package types

import "fmt"

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) String() string {
	return fmt.Sprintf("%s %d", m.Currency, m.Amount)
}

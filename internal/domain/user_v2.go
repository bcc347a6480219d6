package domain

import "time"

// UserV2 es el registro legacy de la tabla users_v2 usado por las rutas /test.
// El duplicado se detecta por la pareja (email, sub).
type UserV2 struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ImageURL     string    `json:"image_url"`
	Nickname     string    `json:"nickname"`
	AcctType     string    `json:"acct_type,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Sub          string    `json:"sub"`
	StripeCustID string    `json:"stripe_cust_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

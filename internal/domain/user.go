package domain

import "time"

// User es el registro principal de la tabla users.
// La clave de negocio es el email (UNIQUE en la tabla).
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	OAuthToken   string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	AcctType     string    `json:"acct_type,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Sanitized devuelve una copia sin el hash de password.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

package models

// User is a dashboard account. PublicID is the stable identifier exposed
// over the API; the numeric ID stays internal to the store.
type User struct {
	ID           int    `json:"-"`
	PublicID     string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don't expose hash
}

package auth

import "time"

// User represents an authenticated user account. ClientID is zero for
// global super-role accounts that belong to no tenant; StoreID is zero when
// the user has no assigned store.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Mobile       string
	PasswordHash string
	Role         string
	ClientID     int64
	StoreID      int64
	CreatedAt    time.Time
}

// DisplayName renders the name embedded in issued tokens.
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

package model

// Role is stamped onto the locally stored profile at login.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleCustomer:
		return true
	}
	return false
}

// UserProfile is the logged in user as persisted in the user slot.
// There is no account database: the profile is created by Login and
// removed by Logout.
type UserProfile struct {
	Role         Role   `json:"role"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	SessionToken string `json:"token"`
}

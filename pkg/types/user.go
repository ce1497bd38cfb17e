package types

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a back-office account. PasswordHash never leaves the process.
type User struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	FullName     string  `json:"fullName"`
	Role         string  `json:"role"`
	Avatar       *string `json:"avatar"`
}

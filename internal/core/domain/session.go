package domain

// Keys of the local preference store.
const (
	KeyBaseURL         = "base_url"
	KeyToken           = "token"
	KeyUserID          = "user_id"
	KeyName            = "name"
	KeyEmail           = "email"
	KeyPhone           = "telefono"
	KeyAddress         = "direccion"
	KeyEmailVerifiedAt = "email_verified_at"
	KeyRole            = "role"
)

// Session is the locally persisted view of the logged-in user.
type Session struct {
	Token           string
	UserID          int // 0 when the backend never reported one
	Name            string
	Email           string
	Phone           string
	Address         string
	EmailVerifiedAt string
	Role            string
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

func (s Session) HasUserID() bool {
	return s.UserID > 0
}

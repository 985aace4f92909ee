package domain

// DefaultRole is assumed when the backend returns a user without a role.
const DefaultRole = "usuario"

const RoleAdmin = "admin"

// User mirrors the user object returned by the backend.
type User struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role,omitempty"`
	Address         string `json:"direccion,omitempty"`
	Phone           string `json:"telefono,omitempty"`
	EmailVerifiedAt string `json:"email_verified_at,omitempty"`
}

// EmailVerified reports whether the backend has a verification timestamp for the user.
func (u User) EmailVerified() bool {
	return u.EmailVerifiedAt != ""
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the body of PUT /users/{id}. Password fields are
// omitted when the user is not changing their password.
type UpdateProfileRequest struct {
	Name                 string `json:"name"`
	Address              string `json:"direccion"`
	Phone                string `json:"telefono"`
	CurrentPassword      string `json:"current_password,omitempty"`
	NewPassword          string `json:"new_password,omitempty"`
	PasswordConfirmation string `json:"new_password_confirmation,omitempty"`
}

// AuthResponse is returned by login, register and profile updates.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

// DataResponse is the payload of GET /data. The discovery endpoint uses the
// same shape to publish the current tunnel URL.
type DataResponse struct {
	Message  string `json:"message"`
	Data     []int  `json:"data"`
	NgrokURL string `json:"ngrok_url"`
}

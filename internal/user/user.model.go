package user

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by register and login. Clients read the user fields at the top level.
type AuthResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

func (u *User) AuthResponse(message string) AuthResponse {
	return AuthResponse{Message: message, ID: u.ID, Name: u.Name, Email: u.Email}
}

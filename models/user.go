package models

// LoginRequest is the payload for POST /login.
type LoginRequest struct {
	MobileNumber string `json:"mobile_number"`
	Password     string `json:"password"`
}

// LoginResponse is returned by POST /login. Token and UserID may be empty on
// older server builds; the session manager decides how to treat that.
type LoginResponse struct {
	Token  string `json:"token,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

// Registration is the payload for POST /register and PUT /users/{id}.
// AgesOfChildren is a slash-separated string like "2/4/6"; the server expects
// the raw string, not a list.
type Registration struct {
	FirstName      string `json:"first_name"`
	Surname        string `json:"surname"`
	MobileNumber   string `json:"mobile_number"`
	NumChildren    int    `json:"num_children"`
	AgesOfChildren string `json:"ages_of_children_per_birth_order"`
}

// RegisterResponse is returned by POST /register.
type RegisterResponse struct {
	GeneratedID string `json:"generated_id"`
	Message     string `json:"message,omitempty"`
}

// UserInfo is the locally cached profile blob persisted alongside the session.
// Arbitrary keys are allowed; the client only ever round-trips it.
type UserInfo map[string]any

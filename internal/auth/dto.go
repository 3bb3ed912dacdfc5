package auth

// SignupInput holds the validated payload to register a user.
type SignupInput struct {
	Email    string
	Password string
}

// SigninInput holds the validated payload to exchange credentials for a token.
type SigninInput struct {
	Email    string
	Password string
}

// SessionDTO is returned by signin: a bearer token and its lifetime in
// seconds.
type SessionDTO struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// SignupDTO is returned by signup: the created identity, no password
// material.
type SignupDTO struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

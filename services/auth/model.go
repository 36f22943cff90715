package auth

// User is the signed-in shopper. There is no real identity provider behind
// this: credentials are checked on shape only and the user record is
// whatever the shopper claimed at login.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type credentials struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

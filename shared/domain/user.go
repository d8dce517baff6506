package domain

// User is the verified caller identity taken from the access token.
type User struct {
	Id    UserId
	Admin bool
}

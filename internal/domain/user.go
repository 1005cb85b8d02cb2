package domain

// User is the signup information recorded for a run of the app.
type User struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
}

package users

import "fmt"

type (
	UserNotFound struct {
		Filter Filter
	}

	DuplicateEmail struct {
		Email string
	}

	InvalidUser struct {
		Reason string
	}
)

func (u UserNotFound) Error() string {
	switch {
	case u.Filter.ID != "":
		return fmt.Sprintf("user %v not found", u.Filter.ID)
	default:
		return "user not found"
	}
}

func (d DuplicateEmail) Error() string {
	return fmt.Sprintf("user %v already exists", d.Email)
}

func (i InvalidUser) Error() string {
	return fmt.Sprintf("invalid user: %v", i.Reason)
}

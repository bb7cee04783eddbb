package account

import "fmt"

type (
	AlreadyRegistered struct {
		Email string
	}

	UnknownEmail struct {
		Email string
	}

	InvalidResetToken struct{}

	NoSession struct{}
)

func (a AlreadyRegistered) Error() string {
	return fmt.Sprintf("User %v already exists", a.Email)
}

func (u UnknownEmail) Error() string {
	return fmt.Sprintf("no user registered with email %v", u.Email)
}

func (InvalidResetToken) Error() string {
	return "invalid reset token"
}

func (NoSession) Error() string {
	return "no active session"
}

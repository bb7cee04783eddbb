package auth

import "fmt"

type (
	MissingCredential struct {
		Source string
	}

	MalformedCredential struct {
		Reason string
	}

	UnknownUser struct{}

	InvalidSecret struct{}

	UnknownKind struct {
		Kind Kind
	}
)

func (m MissingCredential) Error() string {
	return fmt.Sprintf("missing credential: %v", m.Source)
}

func (m MalformedCredential) Error() string {
	return fmt.Sprintf("malformed credential: %v", m.Reason)
}

func (UnknownUser) Error() string {
	return "unknown user"
}

func (InvalidSecret) Error() string {
	return "invalid secret"
}

func (u UnknownKind) Error() string {
	return fmt.Sprintf("unknown authentication type %q", string(u.Kind))
}

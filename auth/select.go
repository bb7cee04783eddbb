package auth

import (
	"context"
	"errors"
	"time"

	"github.com/andrebq/authbox/session"
)

const (
	// TypeEnvVar selects the authentication strategy
	TypeEnvVar = "AUTH_TYPE"
)

type (
	Kind string

	// Deps holds everything a strategy might need, each Kind uses a subset
	Deps struct {
		Excluded   []string
		Users      Directory
		CookieName string
		// TTL applies to KindSessionExp and KindSessionDB
		TTL time.Duration
		// Records is required by KindSessionDB
		Records session.RecordStore
	}
)

const (
	KindBase       = Kind("auth")
	KindBasic      = Kind("basic_auth")
	KindSession    = Kind("session_auth")
	KindSessionExp = Kind("session_exp_auth")
	KindSessionDB  = Kind("session_db_auth")
)

// Kinds lists every supported strategy
func Kinds() []Kind {
	return []Kind{KindBase, KindBasic, KindSession, KindSessionExp, KindSessionDB}
}

// New builds the strategy identified by kind
func New(ctx context.Context, kind Kind, deps Deps) (Strategy, error) {
	switch kind {
	case KindBase:
		return NewBase(deps.Excluded), nil
	case KindBasic:
		if deps.Users == nil {
			return nil, errors.New("auth: basic authentication requires a user directory")
		}
		return NewBasic(deps.Excluded, deps.Users), nil
	case KindSession, KindSessionExp, KindSessionDB:
	default:
		return nil, UnknownKind{Kind: kind}
	}
	if deps.Users == nil {
		return nil, errors.New("auth: session authentication requires a user directory")
	}
	var store session.Store = session.NewTable()
	switch kind {
	case KindSessionExp:
		store = session.NewExpiring(store, deps.TTL)
	case KindSessionDB:
		if deps.Records == nil {
			return nil, errors.New("auth: session_db_auth requires a session record store")
		}
		err := deps.Records.Load(ctx)
		if err != nil {
			return nil, err
		}
		store = session.NewPersistent(session.NewExpiring(store, deps.TTL), deps.Records)
	}
	return NewSession(deps.Excluded, deps.CookieName, store, deps.Users), nil
}

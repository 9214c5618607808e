package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/carshowroom/internal/client/client"
	"github.com/dmitrijs2005/carshowroom/internal/client/models"
	"github.com/dmitrijs2005/carshowroom/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/carshowroom/internal/common"
	"github.com/dmitrijs2005/carshowroom/internal/logging"
)

type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Store is the durable home of the session. Get returns (nil, nil) for a
// missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}

// batchStore is implemented by stores able to write several keys atomically.
type batchStore interface {
	SetMany(ctx context.Context, pairs ...metadata.Pair) error
}

// SessionManager owns the single session of the process.
type SessionManager struct {
	client    client.Client
	store     Store
	log       logging.Logger
	state     State
	session   *models.Session
	observers []func(State)
}

func NewSessionManager(c client.Client, store Store, log logging.Logger) *SessionManager {
	return &SessionManager{client: c, store: store, log: log}
}

func (m *SessionManager) State() State { return m.state }

// Subscribe registers fn to be called after every state change.
func (m *SessionManager) Subscribe(fn func(State)) {
	m.observers = append(m.observers, fn)
}

func (m *SessionManager) setState(s State) {
	m.state = s
	for _, fn := range m.observers {
		fn(s)
	}
}

// Current returns the active session or ErrNotAuthenticated.
func (m *SessionManager) Current() (models.Session, error) {
	if m.state != StateAuthenticated || !m.session.Valid() {
		return models.Session{}, ErrNotAuthenticated
	}
	return *m.session, nil
}

// Restore loads the session persisted by a previous run. Missing or
// malformed data leaves the manager anonymous; a half-written pair is wiped.
func (m *SessionManager) Restore(ctx context.Context) error {
	token, err := m.store.Get(ctx, common.StorageKeyToken)
	if err != nil {
		m.drop()
		return fmt.Errorf("read token: %w", err)
	}
	rawUser, err := m.store.Get(ctx, common.StorageKeyUser)
	if err != nil {
		m.drop()
		return fmt.Errorf("read user: %w", err)
	}

	if token == nil && rawUser == nil {
		m.drop()
		return nil
	}

	var user models.User
	if len(token) == 0 || json.Unmarshal(rawUser, &user) != nil || user.ID == "" {
		m.log.Warn(ctx, "discarding malformed stored session")
		if err := m.store.Clear(ctx); err != nil {
			m.log.Error(ctx, "failed to clear stored session", "error", err)
		}
		m.drop()
		return nil
	}

	m.session = &models.Session{User: user, Token: string(token)}
	m.setState(StateAuthenticated)
	m.log.Debug(ctx, "session restored", "user_id", user.ID)
	return nil
}

func (m *SessionManager) drop() {
	m.session = nil
	m.setState(StateAnonymous)
}

// Login authenticates with email and password. On success the new session
// replaces any previous one; on failure the previous state is kept. A refusal
// by the server is returned as *RejectedError.
func (m *SessionManager) Login(ctx context.Context, email, password string) error {
	return m.authenticate(ctx, func(ctx context.Context) (client.Result[client.AuthPayload], error) {
		return m.client.Login(ctx, email, password)
	})
}

// Signup registers a new account and signs it in.
func (m *SessionManager) Signup(ctx context.Context, username, email, password string) error {
	return m.authenticate(ctx, func(ctx context.Context) (client.Result[client.AuthPayload], error) {
		return m.client.Signup(ctx, username, email, password)
	})
}

func (m *SessionManager) authenticate(ctx context.Context, call func(context.Context) (client.Result[client.AuthPayload], error)) error {
	prevState, prevSession := m.state, m.session
	// observers of a signed-in session hear nothing until a new one lands
	announce := prevState != StateAuthenticated
	if announce {
		m.setState(StateAuthenticating)
	} else {
		m.state = StateAuthenticating
	}

	fail := func(err error) error {
		m.session = prevSession
		if announce {
			m.setState(prevState)
		} else {
			m.state = prevState
		}
		return err
	}

	res, err := call(ctx)
	if err != nil {
		return fail(err)
	}
	if !res.OK() {
		return fail(&RejectedError{Message: res.Message})
	}

	s := models.Session{User: res.Value.User, Token: res.Value.Token}
	if err := m.persist(ctx, s); err != nil {
		if prevSession != nil {
			if rerr := m.persist(ctx, *prevSession); rerr != nil {
				m.log.Error(ctx, "failed to restore previous session", "error", rerr)
			}
		}
		return fail(fmt.Errorf("save session: %w", err))
	}

	m.session = &s
	m.setState(StateAuthenticated)
	m.log.Info(ctx, "signed in", "user_id", s.User.ID)
	return nil
}

// persist writes user before token so that a crash in between leaves no
// token without its user.
func (m *SessionManager) persist(ctx context.Context, s models.Session) error {
	user, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	if bs, ok := m.store.(batchStore); ok {
		return bs.SetMany(ctx,
			metadata.Pair{Key: common.StorageKeyUser, Value: user},
			metadata.Pair{Key: common.StorageKeyToken, Value: []byte(s.Token)},
		)
	}

	if err := m.store.Set(ctx, common.StorageKeyUser, user); err != nil {
		return err
	}
	return m.store.Set(ctx, common.StorageKeyToken, []byte(s.Token))
}

// Logout forgets the session in memory and in durable storage. The manager
// ends up anonymous even when clearing storage fails.
func (m *SessionManager) Logout(ctx context.Context) error {
	err := m.store.Clear(ctx)
	m.drop()
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Invalidate ends a session the server no longer accepts.
func (m *SessionManager) Invalidate(ctx context.Context) error {
	m.log.Info(ctx, "session rejected by server")
	return m.Logout(ctx)
}

// HandleError invalidates the session when err reports an authentication
// denial. err is returned unchanged.
func (m *SessionManager) HandleError(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		if ierr := m.Invalidate(ctx); ierr != nil {
			m.log.Error(ctx, "failed to invalidate session", "error", ierr)
		}
	}
	return err
}

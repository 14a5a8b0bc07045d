package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/umlgen/internal/client/client"
	"github.com/dmitrijs2005/umlgen/internal/client/models"
	"github.com/dmitrijs2005/umlgen/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/umlgen/internal/logging"
)

// Authenticator is the part of api.AuthAPI the manager calls.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, email, password string) (*models.AuthResponse, error)
}

type Manager struct {
	repo credentials.Repository
	auth Authenticator
	log  logging.Logger

	mu    sync.RWMutex
	state State
	phase Phase
	subs  map[int]chan State
	next  int
}

func NewManager(repo credentials.Repository, auth Authenticator, log logging.Logger) *Manager {
	return &Manager{
		repo:  repo,
		auth:  auth,
		log:   log.With("module", "session"),
		state: State{Loading: true},
		phase: PhaseUninitialized,
		subs:  make(map[int]chan State),
	}
}

// Initialize restores the session from the credential store. It runs once;
// later calls are no-ops. Nothing here touches the network, so a restored
// token is trusted until the backend rejects it.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseUninitialized {
		return
	}
	m.phase = PhaseHydrating

	next := State{}
	if token, user, ok := m.readStored(ctx); ok {
		next = State{User: user, Token: token}
	}
	m.setLocked(next)
}

func (m *Manager) readStored(ctx context.Context) (string, *models.User, bool) {
	token, okToken, err := m.repo.Get(ctx, credentials.KeyToken)
	if err != nil {
		m.log.Error(ctx, "read stored token", "error", err)
		return "", nil, false
	}
	raw, okUser, err := m.repo.Get(ctx, credentials.KeyUser)
	if err != nil {
		m.log.Error(ctx, "read stored user", "error", err)
		return "", nil, false
	}
	if !okToken || !okUser || token == "" {
		return "", nil, false
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		m.log.Warn(ctx, "stored user is not valid json, starting anonymous", "error", err)
		return "", nil, false
	}
	return token, &u, true
}

func (m *Manager) Login(ctx context.Context, email, password string) Result {
	resp, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.log.Info(ctx, "login rejected", "email", email, "error", err)
		return failure(err, msgLoginFailed)
	}
	if err := m.establish(ctx, resp); err != nil {
		m.log.Error(ctx, "persist session", "error", err)
		return Result{Error: msgLoginFailed}
	}
	return Result{Success: true}
}

func (m *Manager) Register(ctx context.Context, email, password string) Result {
	resp, err := m.auth.Register(ctx, email, password)
	if err != nil {
		m.log.Info(ctx, "registration rejected", "email", email, "error", err)
		return failure(err, msgRegistrationFailed)
	}
	if err := m.establish(ctx, resp); err != nil {
		m.log.Error(ctx, "persist session", "error", err)
		return Result{Error: msgRegistrationFailed}
	}
	return Result{Success: true}
}

func failure(err error, fallback string) Result {
	if detail := client.Detail(err); detail != "" {
		return Result{Error: detail}
	}
	return Result{Error: fallback}
}

// establish writes both slots in one step and only then updates memory.
func (m *Manager) establish(ctx context.Context, resp *models.AuthResponse) error {
	if resp.AccessToken == "" {
		return fmt.Errorf("empty access token")
	}
	raw, err := json.Marshal(resp.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.repo.SetMany(ctx, map[string]string{
		credentials.KeyToken: resp.AccessToken,
		credentials.KeyUser:  string(raw),
	}); err != nil {
		return err
	}

	user := resp.User
	m.setLocked(State{User: &user, Token: resp.AccessToken})
	return nil
}

// Logout clears both slots and then the in-memory session. If the slots
// cannot be removed the session is left as it was and the error returned.
// Calling it while anonymous is harmless.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// memory must not drop a session the store still holds
	if err := m.clearStoredLocked(ctx); err != nil {
		return fmt.Errorf("clear stored session: %w", err)
	}
	m.setLocked(State{})
	return nil
}

const clearAttempts = 2

// clearStoredLocked removes both slots, retrying once.
func (m *Manager) clearStoredLocked(ctx context.Context) error {
	var err error
	for attempt := 0; attempt < clearAttempts; attempt++ {
		if err = m.repo.RemoveMany(ctx, credentials.KeyToken, credentials.KeyUser); err == nil {
			return nil
		}
		m.log.Warn(ctx, "clear stored session", "attempt", attempt+1, "error", err)
	}
	return err
}

// HandleUnauthorized clears the session when ev carries the token currently
// held. Events for an older token, or for anonymous calls, are ignored, so a
// burst of 401s for one credential clears once. It reports whether it
// cleared.
func (m *Manager) HandleUnauthorized(ctx context.Context, ev client.UnauthorizedEvent) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.Token == "" || ev.Token != m.state.Token {
		return false
	}

	// cleared in memory regardless; the backend already rejected the token
	if err := m.clearStoredLocked(ctx); err != nil {
		m.log.Error(ctx, "clear stored session after 401", "error", err)
	}
	m.setLocked(State{})
	m.log.Info(ctx, "session cleared after 401", "method", ev.Method, "path", ev.Path, "request_id", ev.RequestID)
	return true
}

// UnauthorizedListener adapts HandleUnauthorized for client.OnUnauthorized.
func (m *Manager) UnauthorizedListener() client.UnauthorizedListener {
	return func(ctx context.Context, ev client.UnauthorizedEvent) {
		m.HandleUnauthorized(ctx, ev)
	}
}

// Token implements client.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Token
}

// State returns a copy of the current session.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// Subscribe returns a channel that receives the current state immediately
// and then every change. A slow reader only sees the latest state. The
// returned func unsubscribes and closes the channel.
func (m *Manager) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	m.mu.Lock()
	id := m.next
	m.next++
	m.subs[id] = ch
	ch <- m.snapshotLocked()
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
			close(ch)
		})
	}
}

func (m *Manager) snapshotLocked() State {
	s := m.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// setLocked replaces the state, derives the phase and fans the snapshot out.
// Callers hold m.mu for writing, which makes this the only sender.
func (m *Manager) setLocked(s State) {
	s.Loading = false
	m.state = s
	if s.Authenticated() {
		m.phase = PhaseAuthenticated
	} else {
		m.phase = PhaseAnonymous
	}

	snap := m.snapshotLocked()
	for _, ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

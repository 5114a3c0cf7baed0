// Package session holds the signed-in state of one running client session.
// The Manager is constructed and passed explicitly; there is no package-level
// singleton. It watches the durable credential store and keeps the resolved
// profile in step with it.
package session

import (
	"context"
	"log"
	"sync"

	"museumCompanionAPI/internal/types/user"
)

// Credentials is one observed value of the durable credential store. The
// zero value means logged out.
type Credentials struct {
	Token  string
	UserID string
}

// CredentialSource is the durable token/uid store: a stream of updates plus
// the ability to clear it on logout.
type CredentialSource interface {
	Updates() <-chan Credentials
	Clear(ctx context.Context) error
}

// ProfileResolver turns a user id into the full profile.
type ProfileResolver func(ctx context.Context, userID string) (*user.User, error)

// State is a consistent snapshot: Authenticated is never true while User is
// nil.
type State struct {
	Authenticated bool
	User          *user.User
	Loading       bool
}

type Manager struct {
	source  CredentialSource
	resolve ProfileResolver

	mu    sync.Mutex
	state State

	stop chan struct{}
	wg   sync.WaitGroup
}

func NewManager(source CredentialSource, resolve ProfileResolver) *Manager {
	return &Manager{
		source:  source,
		resolve: resolve,
		stop:    make(chan struct{}),
	}
}

// Start begins consuming credential updates. Each observed change re-resolves
// the profile; the (authenticated, user) pair is swapped in one step so
// consumers never see a half-updated session.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stop:
				return
			case creds, ok := <-m.source.Updates():
				if !ok {
					return
				}
				m.apply(ctx, creds)
			}
		}
	}()
}

func (m *Manager) apply(ctx context.Context, creds Credentials) {
	if creds.UserID == "" || creds.Token == "" {
		m.mu.Lock()
		m.state = State{}
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	m.state.Loading = true
	m.mu.Unlock()

	profile, err := m.resolve(ctx, creds.UserID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil || profile == nil {
		if err != nil {
			log.Printf("session: failed to resolve user %s: %v", creds.UserID, err)
		}
		m.state = State{}
		return
	}
	m.state = State{Authenticated: true, User: profile}
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Logout clears the durable credentials and the in-memory profile together.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.source.Clear(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.state = State{}
	m.mu.Unlock()
	return nil
}

// Close stops the update loop and waits for it to exit.
func (m *Manager) Close() {
	close(m.stop)
	m.wg.Wait()
}

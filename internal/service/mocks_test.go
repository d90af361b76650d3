package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cyberauth/cyberauth/internal/domain"
)

// ---------- Mocks ----------

type mockDirectory struct {
	mu      sync.Mutex
	nextID  int64
	byName  map[string]*domain.User
	byEmail map[string]*domain.User

	findErr   error
	insertErr error
	updateErr error
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		nextID:  1,
		byName:  make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (m *mockDirectory) FindByName(_ context.Context, name string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	if u, ok := m.byName[name]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (m *mockDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	if u, ok := m.byEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (m *mockDirectory) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	if _, ok := m.byName[user.Name]; ok {
		return nil, fmt.Errorf("%w: name or email already registered", domain.ErrAlreadyExists)
	}
	if _, ok := m.byEmail[user.Email]; ok {
		return nil, fmt.Errorf("%w: name or email already registered", domain.ErrAlreadyExists)
	}

	copied := *user
	copied.ID = m.nextID
	m.nextID++
	m.byName[copied.Name] = &copied
	m.byEmail[copied.Email] = &copied

	returned := copied
	return &returned, nil
}

func (m *mockDirectory) UpdatePassword(_ context.Context, email, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	u, ok := m.byEmail[email]
	if !ok {
		return fmt.Errorf("no rows updated")
	}
	u.PasswordHash = passwordHash
	return nil
}

// fakeHasher tags instead of hashing so tests stay fast; digests still
// differ between calls for the same input.
type fakeHasher struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeHasher) Hash(password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return fmt.Sprintf("digest:%s:%d", password, f.calls), nil
}

func (f *fakeHasher) Verify(password, digest string) (bool, error) {
	return strings.HasPrefix(digest, "digest:"+password+":"), nil
}

type mockMailer struct {
	mu         sync.Mutex
	lastTo     string
	lastName   string
	lastCode   string
	lastExpiry int
	sends      int
	sendErr    error
}

func (m *mockMailer) SendOTP(toEmail, toName, code string, expiryMinutes int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends++
	m.lastTo = toEmail
	m.lastName = toName
	m.lastCode = code
	m.lastExpiry = expiryMinutes
	return m.sendErr
}

type mockPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) published(subject string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subjects {
		if s == subject {
			return true
		}
	}
	return false
}

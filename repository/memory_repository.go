// file: repository/memory_repository.go

package repository

import (
	"sync"

	"secure-auth-api/model"

	"github.com/google/uuid"
)

// MemoryUserRepository is an in-memory IUserRepository. It backs the
// "memory" session store mode for local development and is used heavily by
// the test suites.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]*model.User)}
}

func (r *MemoryUserRepository) CreateUser(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *MemoryUserRepository) GetUserByEmail(email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) GetUserByID(id uuid.UUID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	found := *user
	return &found, nil
}

func (r *MemoryUserRepository) GetAllUsers() ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]*model.User, 0, len(r.users))
	for _, user := range r.users {
		found := *user
		users = append(users, &found)
	}
	return users, nil
}

func (r *MemoryUserRepository) UpdateUserRole(userID uuid.UUID, newRole string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.Role = newRole
	}
	return nil
}

func (r *MemoryUserRepository) UpdateUserStatus(userID uuid.UUID, isActive bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.IsActive = isActive
	}
	return nil
}

// MemoryTokenRepository is an in-memory ITokenRepository. The mutex around
// DeleteByToken gives it the same check-and-delete atomicity contract as the
// database-backed implementations.
type MemoryTokenRepository struct {
	mu       sync.Mutex
	sessions map[string]*model.RefreshSession
}

func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{sessions: make(map[string]*model.RefreshSession)}
}

func (r *MemoryTokenRepository) Create(session *model.RefreshSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *session
	r.sessions[session.Token] = &stored
	return nil
}

func (r *MemoryTokenRepository) GetByToken(token string) (*model.RefreshSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	found := *session
	return &found, nil
}

func (r *MemoryTokenRepository) DeleteByToken(token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[token]; !ok {
		return false, nil
	}
	delete(r.sessions, token)
	return true, nil
}

func (r *MemoryTokenRepository) DeleteAllByUser(userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for token, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, token)
			count++
		}
	}
	return count, nil
}

// CountByUser reports the number of live sessions held for a user.
func (r *MemoryTokenRepository) CountByUser(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, session := range r.sessions {
		if session.UserID == userID {
			count++
		}
	}
	return count
}

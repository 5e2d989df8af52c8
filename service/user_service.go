package service

import (
	"errors"
	"secure-auth-api/model"
	"secure-auth-api/repository"

	"github.com/google/uuid"
)

var ErrEmailExists = errors.New("email already exists")

// UserService handles user-related business logic: registration and the
// admin-side account management.
type UserService struct {
	userRepo repository.IUserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a new active account with the non-privileged role.
func (s *UserService) Register(email, password string) (*model.User, error) {
	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    email,
		Password: hashedPassword,
		Role:     string(model.RoleUser),
		IsActive: true,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns every account, for the admin dashboard.
func (s *UserService) ListUsers() ([]*model.User, error) {
	return s.userRepo.GetAllUsers()
}

// UpdateUserRole validates the role and calls the repository to update it.
func (s *UserService) UpdateUserRole(userID uuid.UUID, newRole model.Role) error {
	// We ensure that only valid roles can be assigned.
	if newRole != model.RoleAdmin && newRole != model.RoleUser {
		return errors.New("invalid role specified")
	}

	return s.userRepo.UpdateUserRole(userID, string(newRole))
}

// UpdateUserStatus enables or disables an account. Disabling only flags the
// record; any live sessions are revoked the next time one is presented.
func (s *UserService) UpdateUserStatus(userID uuid.UUID, isActive bool) error {
	return s.userRepo.UpdateUserStatus(userID, isActive)
}

package repository

import (
	"database/sql"
	"secure-auth-api/model"

	"github.com/google/uuid"
)

// IUserRepository defines the contract for the credential store.
// The auth core consumes user records read-only; mutation happens through
// registration and the admin endpoints.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id uuid.UUID) (*model.User, error)
	GetAllUsers() ([]*model.User, error)
	UpdateUserRole(userID uuid.UUID, newRole string) error
	UpdateUserStatus(userID uuid.UUID, isActive bool) error
}

// UserRepository implements IUserRepository over PostgreSQL.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) CreateUser(user *model.User) error {
	query := `INSERT INTO users (email, password, role, is_active) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return r.DB.QueryRow(query, user.Email, user.Password, user.Role, user.IsActive).Scan(&user.ID, &user.CreatedAt)
}

// GetUserByEmail looks a user up by exact, case-sensitive email match.
// A missing user is reported as (nil, nil), not an error.
func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, email, password, role, is_active, created_at FROM users WHERE email = $1`
	err := r.DB.QueryRow(query, email).Scan(&user.ID, &user.Email, &user.Password, &user.Role, &user.IsActive, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(id uuid.UUID) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, email, password, role, is_active, created_at FROM users WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&user.ID, &user.Email, &user.Password, &user.Role, &user.IsActive, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetAllUsers() ([]*model.User, error) {
	query := `SELECT id, email, password, role, is_active, created_at FROM users ORDER BY created_at`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.Password, &user.Role, &user.IsActive, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateUserRole(userID uuid.UUID, newRole string) error {
	query := `UPDATE users SET role = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, newRole, userID)
	return err
}

func (r *UserRepository) UpdateUserStatus(userID uuid.UUID, isActive bool) error {
	query := `UPDATE users SET is_active = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, isActive, userID)
	return err
}

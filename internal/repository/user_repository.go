package repository

import (
	"context"
	"sync"
	"time"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/pkg/kvstore"
)

// UserRepository manages the account catalog stored as one JSON array.
type UserRepository struct {
	store kvstore.Store
	mu    sync.Mutex
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(store kvstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

// List returns all accounts.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	return readCatalog[models.User](ctx, r.store, kvstore.KeyUsers)
}

// FindByID fetches an account by id.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	users, err := readCatalog[models.User](ctx, r.store, kvstore.KeyUsers)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, ErrRecordNotFound
}

// FindByNIM fetches an account by its NIM.
func (r *UserRepository) FindByNIM(ctx context.Context, nim string) (*models.User, error) {
	users, err := readCatalog[models.User](ctx, r.store, kvstore.KeyUsers)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].NIM == nim {
			return &users[i], nil
		}
	}
	return nil, ErrRecordNotFound
}

// ExistsByNIM reports whether the NIM is already registered.
func (r *UserRepository) ExistsByNIM(ctx context.Context, nim string) (bool, error) {
	_, err := r.FindByNIM(ctx, nim)
	if err == ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountStudents returns the number of student accounts, used for the
// participation rate denominator.
func (r *UserRepository) CountStudents(ctx context.Context) (int, error) {
	users, err := readCatalog[models.User](ctx, r.store, kvstore.KeyUsers)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, u := range users {
		if u.Role == models.RoleStudent {
			count++
		}
	}
	return count, nil
}

// Create appends a new account with the next sequential id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := readCatalog[models.User](ctx, r.store, kvstore.KeyUsers)
	if err != nil {
		return err
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	user.ID = nextSequentialID(ids)

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	users = append(users, *user)
	return writeCatalog(ctx, r.store, kvstore.KeyUsers, users)
}

// Update replaces the stored record matching the user's id.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := readCatalog[models.User](ctx, r.store, kvstore.KeyUsers)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].ID == user.ID {
			user.UpdatedAt = time.Now().UTC()
			users[i] = *user
			return writeCatalog(ctx, r.store, kvstore.KeyUsers, users)
		}
	}
	return ErrRecordNotFound
}

package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirinyoku/voyago/internal/domain"
	"github.com/kirinyoku/voyago/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("current password does not match")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
)

type Repo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{repo: repo}
}

// ChangePassword verifies the current password and stores a bcrypt hash of
// the new one.
//
// Returns:
//   - error: users.ErrWrongPassword if the current password does not match.
//   - error: users.ErrWeakPassword if the new password is shorter than 8 runes.
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	const op = "service.users.ChangePassword"

	if len([]rune(next)) < 8 {
		return fmt.Errorf("%s:%w", op, ErrWeakPassword)
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}

		return fmt.Errorf("%s:%w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return fmt.Errorf("%s:%w", op, ErrWrongPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

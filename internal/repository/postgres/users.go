package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/voyago/internal/domain"
	"github.com/kirinyoku/voyago/internal/repository"
)

type UserRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *UserRepo) With(db DB) *UserRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *UserRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const op = "postgresrepo.UserRepo.GetByID"

	db := r.handle()

	var u domain.User
	err := db.QueryRow(ctx,
		`SELECT id, email, name, role, password_hash
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &u, nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	const op = "postgresrepo.UserRepo.UpdatePasswordHash"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`,
		id, hash,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

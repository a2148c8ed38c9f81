package database

import (
	"context"
	"time"

	"no-homers/models"

	"github.com/cockroachdb/errors"
)

// PostgresUserRepository implements UserRepository with sqlx
type PostgresUserRepository struct {
	pg *PostgresDB
}

var _ UserRepository = (*PostgresUserRepository)(nil)

func NewPostgresUserRepository(pg *PostgresDB) *PostgresUserRepository {
	return &PostgresUserRepository{pg: pg}
}

const userColumns = `id, name, email, password_hash, is_admin, created_at, updated_at`

func (r *PostgresUserRepository) getOne(query string, arg interface{}) (*models.User, error) {
	ctx, cancel := r.pg.opContext(context.Background())
	defer cancel()

	var user models.User
	if err := r.pg.db.GetContext(ctx, &user, query, arg); err != nil {
		if isNotFound(err) {
			return nil, models.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by their email address (case-insensitive)
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *PostgresUserRepository) GetUserByID(id int) (*models.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresUserRepository) GetUserByName(name string) (*models.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE UPPER(name) = UPPER($1)`, name)
}

func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	ctx, cancel := r.pg.opContext(context.Background())
	defer cancel()

	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	const query = `
INSERT INTO users (name, email, password_hash, is_admin, created_at, updated_at)
VALUES (:name, :email, :password_hash, :is_admin, :created_at, :updated_at)
RETURNING id`

	rows, err := r.pg.db.NamedQueryContext(ctx, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Newf("user %s already exists", user.Email)
		}
		return errors.Wrap(err, "create user")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&user.ID); err != nil {
			return errors.Wrap(err, "scan user id")
		}
	}
	return rows.Err()
}

func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	ctx, cancel := r.pg.opContext(context.Background())
	defer cancel()

	user.UpdatedAt = time.Now().UTC()

	const query = `
UPDATE users
SET name = :name,
    email = :email,
    password_hash = :password_hash,
    is_admin = :is_admin,
    updated_at = :updated_at
WHERE id = :id`

	res, err := r.pg.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return errors.Wrap(err, "update user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) GetAllUsers() ([]models.User, error) {
	ctx, cancel := r.pg.opContext(context.Background())
	defer cancel()

	users := []models.User{}
	if err := r.pg.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"

	"authapi/internal/apperrors"
	"authapi/internal/db"
	"authapi/internal/models"
)

var publicUserColumns = []string{"id", "name", "email"}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string, includePassword bool) (*models.User, error)
	GetByEmail(ctx context.Context, email string, includePassword bool) (*models.User, error)
	Update(ctx context.Context, id string, idColumn string, update models.UserUpdate) (int64, error)
}

type userRepository struct {
	table *db.Table
}

func NewUserRepository(conn db.DBTX) UserRepository {
	return &userRepository{table: db.NewTable(conn, "users", "id")}
}

// Create inserts the user as given. The password must already be hashed and
// the email checked for uniqueness; the only guard here is the column
// constraint, reported as a CONFLICT error.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	id, err := r.table.Insert(ctx, db.Values{
		"id":       user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"password": user.Password,
	})
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string, includePassword bool) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NotFound("users")
	}
	return scanUser(r.table.GetByID(ctx, id, userColumns(includePassword), ""), includePassword)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, includePassword bool) (*models.User, error) {
	row := r.table.GetByCondition(ctx, db.Values{"email": email}, userColumns(includePassword), "")
	return scanUser(row, includePassword)
}

func (r *userRepository) Update(ctx context.Context, id string, idColumn string, update models.UserUpdate) (int64, error) {
	values := db.Values{}
	if update.Name != nil {
		values["name"] = *update.Name
	}
	if update.Email != nil {
		values["email"] = *update.Email
	}
	if update.Password != nil {
		values["password"] = *update.Password
	}
	return r.table.Update(ctx, id, values, idColumn)
}

func userColumns(includePassword bool) []string {
	cols := append([]string(nil), publicUserColumns...)
	if includePassword {
		cols = append(cols, "password")
	}
	return cols
}

func scanUser(row *db.Row, includePassword bool) (*models.User, error) {
	var u models.User
	dest := []any{&u.ID, &u.Name, &u.Email}
	if includePassword {
		dest = append(dest, &u.Password)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &u, nil
}

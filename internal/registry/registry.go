package registry

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/flashquiz/internal/domain"
)

// UserStore persists signup records.
type UserStore interface {
	InsertUser(ctx context.Context, user domain.User) (int64, error)
}

// Registry validates and records signups.
type Registry struct {
	store    UserStore
	validate *validator.Validate
}

// New returns a Registry writing to store.
func New(store UserStore) *Registry {
	return &Registry{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterUser trims name and email and appends a user record. It returns a
// *domain.ValidationError when either field is empty after trimming.
func (r *Registry) RegisterUser(ctx context.Context, name, email string) (domain.User, error) {
	user := domain.User{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}

	if err := r.validate.Struct(user); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, strings.ToLower(fe.Field()))
			}
			return domain.User{}, &domain.ValidationError{Fields: fields, Reason: "please fill out all fields"}
		}
		return domain.User{}, err
	}

	id, err := r.store.InsertUser(ctx, user)
	if err != nil {
		return domain.User{}, err
	}
	slog.Info("User registered", "id", id, "name", user.Name)
	return user, nil
}

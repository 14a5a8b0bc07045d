package api

import (
	"context"

	"github.com/dmitrijs2005/umlgen/internal/client/models"
)

type AuthAPI struct {
	t Transport
}

func NewAuthAPI(t Transport) *AuthAPI {
	return &AuthAPI{t: t}
}

func (a *AuthAPI) Register(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.t.Post(ctx, "/auth/register", models.Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.t.Post(ctx, "/auth/login", models.Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the profile bound to the current token.
func (a *AuthAPI) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := a.t.Get(ctx, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

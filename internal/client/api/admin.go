package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/umlgen/internal/client/models"
)

const DefaultUsersLimit = 100

type AdminAPI struct {
	t Transport
}

func NewAdminAPI(t Transport) *AdminAPI {
	return &AdminAPI{t: t}
}

func (a *AdminAPI) Stats(ctx context.Context) (*models.AdminStats, error) {
	var out models.AdminStats
	if err := a.t.Get(ctx, "/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users lists accounts. A negative skip is treated as 0 and a non-positive
// limit as DefaultUsersLimit.
func (a *AdminAPI) Users(ctx context.Context, skip, limit int) ([]models.User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultUsersLimit
	}

	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var out []models.User
	if err := a.t.Get(ctx, "/admin/users", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *AdminAPI) DeleteUser(ctx context.Context, id int64) (*models.Ack, error) {
	var ack models.Ack
	if err := a.t.Delete(ctx, fmt.Sprintf("/admin/users/%d", id), &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/umlgen/internal/client/client"
	"github.com/dmitrijs2005/umlgen/internal/client/models"
	"github.com/dmitrijs2005/umlgen/internal/fakeapi"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	srv   *fakeapi.Server
	token string
	http  *client.HTTPClient
}

func newFixture(t *testing.T, admin bool) *fixture {
	t.Helper()
	f := &fixture{srv: fakeapi.NewServer(t)}
	u := f.srv.AddUser("ann@example.com", "secret1", admin, "")
	f.token = f.srv.IssueToken(u.ID)

	c, err := client.New(f.srv.URL, client.WithTokenSource(client.TokenFunc(func() string { return f.token })))
	require.NoError(t, err)
	f.http = c
	return f
}

func TestAuthAPI_RegisterLoginMe(t *testing.T) {
	f := newFixture(t, false)
	f.token = ""
	auth := NewAuthAPI(f.http)
	ctx := context.Background()

	reg, err := auth.Register(ctx, "bob@example.com", "secret2")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", reg.User.Email)

	_, err = auth.Login(ctx, "bob@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", client.Detail(err))

	login, err := auth.Login(ctx, "bob@example.com", "secret2")
	require.NoError(t, err)

	f.token = login.AccessToken
	me, err := auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, me.ID)
}

func TestDiagramAPI_Lifecycle(t *testing.T) {
	f := newFixture(t, false)
	d := NewDiagramAPI(f.http)
	ctx := context.Background()

	typ := models.DiagramActivity
	gen, err := d.Generate(ctx, "user checks out a basket", &typ)
	require.NoError(t, err)
	require.True(t, gen.Success)
	assert.Equal(t, models.DiagramActivity, gen.DiagramType)

	saved, err := d.Save(ctx, models.SaveRequest{Prompt: "user checks out a basket", Title: "Checkout", MermaidCode: gen.MermaidCode, DiagramType: gen.DiagramType})
	require.NoError(t, err)

	got, err := d.Get(ctx, saved.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(saved, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	list, err := d.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, DefaultPage, list.Page)
	assert.Equal(t, DefaultPageSize, list.PageSize)

	ack, err := d.Delete(ctx, saved.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, ack.Message)

	_, err = d.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestDiagramAPI_GenerateWithoutType(t *testing.T) {
	f := newFixture(t, false)
	res, err := NewDiagramAPI(f.http).Generate(context.Background(), "library with books and members", nil)
	require.NoError(t, err)
	assert.Equal(t, models.DiagramClass, res.DiagramType)
}

func TestDiagramAPI_ListQueryDefaults(t *testing.T) {
	f := newFixture(t, false)
	_, err := NewDiagramAPI(f.http).List(context.Background(), -1, 0)
	require.NoError(t, err)

	reqs := f.srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "page=1&page_size=20", reqs[0].RawQuery)
}

func TestAdminAPI(t *testing.T) {
	f := newFixture(t, true)
	victim := f.srv.AddUser("bob@example.com", "secret2", false, models.PlanPro)
	adm := NewAdminAPI(f.http)
	ctx := context.Background()

	stats, err := adm.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.ProUsers)

	users, err := adm.Users(ctx, -5, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "limit=100&skip=0", f.srv.Requests()[1].RawQuery)

	_, err = adm.DeleteUser(ctx, victim.ID)
	require.NoError(t, err)

	users, err = adm.Users(ctx, 0, 50)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAdminAPI_ForbiddenForRegularUser(t *testing.T) {
	f := newFixture(t, false)
	_, err := NewAdminAPI(f.http).Stats(context.Background())
	assert.ErrorIs(t, err, client.ErrForbidden)
}

func TestFacades_PassThroughServerErrors(t *testing.T) {
	f := newFixture(t, false)
	f.srv.Fail(http.MethodPost, "/diagrams/save", http.StatusInternalServerError, "db down", 1)

	_, err := NewDiagramAPI(f.http).Save(context.Background(), models.SaveRequest{MermaidCode: "classDiagram"})
	assert.ErrorIs(t, err, client.ErrServer)
	assert.Equal(t, "db down", client.Detail(err))
}

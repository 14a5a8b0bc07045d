package cli

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/umlgen/internal/client/guard"
	"github.com/dmitrijs2005/umlgen/internal/client/models"
	"github.com/dmitrijs2005/umlgen/internal/client/poller"
	"github.com/dmitrijs2005/umlgen/internal/client/views"
	"golang.org/x/sync/errgroup"
)

const (
	msgDeleteUserFailed = "Failed to delete user"

	adminUsersLimit = 50
)

// adminView is the last successfully loaded monitoring data.
type adminView struct {
	stats  *models.AdminStats
	users  []models.User
	loaded time.Time
}

// Admin dispatches the admin subcommands:
//
//	admin                 load and print the monitoring view once
//	admin watch           reload every refresh interval until Enter
//	admin users [search]  list users, filtered by email
//	admin delete <id>     delete a user
func (a *App) Admin(ctx context.Context, args []string) error {
	sub := ""
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "":
		return a.protectAdmin(func() error {
			if err := a.loadAdmin(ctx); err != nil {
				return err
			}
			a.renderAdmin()
			return nil
		})
	case "watch":
		return a.protectAdmin(func() error {
			a.watchAdmin(ctx)
			return nil
		})
	case "users":
		return a.protectAdmin(func() error {
			return a.adminUsers(ctx, strings.Join(args[1:], " "))
		})
	case "delete":
		id, err := parseID(args[1:], 1)
		if err != nil {
			a.println("Usage: admin delete <id>")
			return err
		}
		return a.protectAdmin(func() error {
			return a.adminDeleteUser(ctx, id)
		})
	default:
		a.println("Usage: admin [watch | users [search] | delete <id>]")
		return errUsage
	}
}

// loadAdmin fetches stats and the first page of users concurrently. On
// failure the previous view is kept.
func (a *App) loadAdmin(ctx context.Context) error {
	var (
		stats *models.AdminStats
		users []models.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = a.admin.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = a.admin.Users(gctx, 0, adminUsersLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		a.log.Error(ctx, "load admin data", "error", err)
		return err
	}

	a.mu.Lock()
	a.adminV = adminView{stats: stats, users: users, loaded: a.now()}
	a.mu.Unlock()
	return nil
}

func (a *App) snapshotAdmin() adminView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.adminV
}

func (a *App) renderAdmin() {
	v := a.snapshotAdmin()
	if v.stats == nil {
		a.println("No monitoring data loaded.")
		return
	}
	s := v.stats

	a.printf("Admin dashboard (updated %s)\n", v.loaded.Local().Format("15:04:05"))
	a.printf("Total Users: %d   Total Diagrams: %d   Pro Users: %d\n", s.TotalUsers, s.TotalDiagrams, s.ProUsers)

	if len(s.DiagramsByType) > 0 {
		a.println("Diagrams by type:")
		types := make([]string, 0, len(s.DiagramsByType))
		for t := range s.DiagramsByType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			dt := models.DiagramType(t)
			a.printf("  [%s] %-10s %5d  %s\n", views.TypeBadge(dt), t, s.DiagramsByType[t], views.TypeColor(dt))
		}
	}

	if len(s.RecentActivity) > 0 {
		a.println("Recent activity:")
		for _, act := range s.RecentActivity {
			a.printf("  #%-5d %-30s [%s] by %s at %s\n",
				act.ID, act.Title, act.Type, act.UserEmail, act.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
	}

	a.printf("Users: %d loaded (type 'admin users' to list)\n", len(v.users))
}

func (a *App) printUsers(users []models.User) {
	for _, u := range users {
		admin := ""
		if u.IsAdmin {
			admin = "admin"
		}
		a.printf("  #%-5d %-35s %-4s %-5s %s\n", u.ID, u.Email, u.SubscriptionPlan.Label(), admin, u.CreatedAt.Local().Format("2006-01-02"))
	}
}

func (a *App) adminUsers(ctx context.Context, search string) error {
	if a.snapshotAdmin().stats == nil {
		if err := a.loadAdmin(ctx); err != nil {
			return err
		}
	}

	users := views.FilterUsers(a.snapshotAdmin().users, search)
	if len(users) == 0 {
		a.println("No users found.")
		return nil
	}
	a.printUsers(users)
	return nil
}

// adminDeleteUser confirms, deletes, drops the user from the loaded list
// and reloads the stats.
func (a *App) adminDeleteUser(ctx context.Context, id int64) error {
	if !confirm(a.reader, "Are you sure you want to delete this user? This cannot be undone.", a.out) {
		return nil
	}
	if _, err := a.admin.DeleteUser(ctx, id); err != nil {
		a.reportError(ctx, msgDeleteUserFailed, err)
		return err
	}

	a.mu.Lock()
	a.adminV.users = views.RemoveUser(a.adminV.users, id)
	a.mu.Unlock()
	a.printf("User #%d deleted.\n", id)

	_ = a.loadAdmin(ctx)
	return nil
}

// watchAdmin reloads the monitoring view on every refresh interval until
// the user presses Enter or the session ends.
func (a *App) watchAdmin(ctx context.Context) {
	interval := a.config.StatsRefreshInterval

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.guard.Watch(watchCtx, func(d guard.Decision) {
		if d.Outcome != guard.Render {
			cancel()
		}
	})

	task := poller.Start(watchCtx, interval, func(ctx context.Context) {
		if err := a.loadAdmin(ctx); err != nil {
			return
		}
		a.renderAdmin()
	})

	a.printf("Refreshing every %s. Press Enter to stop.\n", interval)
	_, _ = a.reader.ReadString('\n')

	cancel()
	task.Stop()
}

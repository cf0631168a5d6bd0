package services

import (
	"context"

	"github.com/exalaa/candidate-client/internal/client/client"
	"github.com/exalaa/candidate-client/internal/client/models"
	"golang.org/x/sync/errgroup"
)

// Overview is the profile and the dashboard snapshot fetched as one unit.
type Overview struct {
	Profile   models.UserProfile
	Dashboard models.DashboardSnapshot
}

// DashboardLoader fetches the Overview for a credential.
type DashboardLoader interface {
	Load(ctx context.Context, token string) (Overview, error)
}

type dashboardLoader struct {
	client client.ProfileClient
}

func NewDashboardLoader(c client.ProfileClient) DashboardLoader {
	return &dashboardLoader{client: c}
}

// Load issues both requests concurrently and succeeds only if both do. The
// first failure cancels the other request and is returned as is.
func (l *dashboardLoader) Load(ctx context.Context, token string) (Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := l.client.GetProfile(gctx, token)
		if err != nil {
			return err
		}
		out.Profile = p
		return nil
	})
	g.Go(func() error {
		d, err := l.client.GetDashboard(gctx, token)
		if err != nil {
			return err
		}
		out.Dashboard = d
		return nil
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

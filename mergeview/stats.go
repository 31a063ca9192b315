package mergeview

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/masterconnect/bandstore/models"
	"github.com/masterconnect/bandstore/remote"
)

// Stats are the dashboard aggregates. Each figure is the arithmetic sum of
// the remote count and the local collection's contribution; a record present
// in both sources is double-counted by contract.
type Stats struct {
	TotalUsers          int
	TotalAnnouncements  int
	ActiveAnnouncements int
	NewToday            int
}

// DashboardStats computes the admin dashboard figures as of now. The four
// remote counts are issued concurrently and awaited before combining; the
// local side is added afterwards. If the remote source fails, the local
// contribution is still returned alongside the error.
func (v *View) DashboardStats(ctx context.Context, now time.Time) (Stats, error) {
	today := startOfDay(now)

	var cloud Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := v.remote.CountProfiles(gctx)
		cloud.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := v.remote.CountAnnouncements(gctx, remote.Filter{})
		cloud.TotalAnnouncements = n
		return err
	})
	g.Go(func() error {
		n, err := v.remote.CountAnnouncements(gctx, remote.Filter{Status: models.StatusActive})
		cloud.ActiveAnnouncements = n
		return err
	})
	g.Go(func() error {
		n, err := v.remote.CountAnnouncements(gctx, remote.Filter{CreatedSince: today})
		cloud.NewToday = n
		return err
	})

	var errs []error
	if err := g.Wait(); err != nil {
		// Remote counts are unreliable past this point; report local-only.
		cloud = Stats{}
		errs = append(errs, err)
	}

	localUsers, err := v.local.ListUsers()
	if err != nil {
		errs = append(errs, err)
	}
	localAds, err := v.local.ListAnnouncements()
	if err != nil {
		errs = append(errs, err)
	}

	stats := Stats{
		TotalUsers:         cloud.TotalUsers + len(localUsers),
		TotalAnnouncements: cloud.TotalAnnouncements + len(localAds),
	}
	stats.ActiveAnnouncements = cloud.ActiveAnnouncements
	stats.NewToday = cloud.NewToday
	for _, ad := range localAds {
		if ad.Status == models.StatusActive {
			stats.ActiveAnnouncements++
		}
		if !ad.CreatedAt.Before(today) {
			stats.NewToday++
		}
	}
	return stats, errors.Join(errs...)
}

// Package mergeview presents unified views over the local store and the
// remote source. The two sides share no primary key space, so the contract
// is deliberately simple: fetch both, tag provenance, concatenate, filter
// and sort the combined sequence. There is no deduplication — a record
// mirrored in both sources appears (and is counted) twice. That is the
// accepted behavior of the merge, not an oversight.
package mergeview

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/masterconnect/bandstore/localstore"
	"github.com/masterconnect/bandstore/models"
	"github.com/masterconnect/bandstore/remote"
)

// Remote is the slice of the cloud source the views consume. Narrow on
// purpose so tests can substitute a fake.
type Remote interface {
	ListProfiles(ctx context.Context) ([]models.User, error)
	GetProfile(ctx context.Context, userID string) (models.User, error)
	ProfileSummaries(ctx context.Context, userIDs []string) (map[string]models.AuthorProfile, error)
	CountProfiles(ctx context.Context) (int, error)
	ListAnnouncements(ctx context.Context, f remote.Filter) ([]models.Announcement, error)
	CountAnnouncements(ctx context.Context, f remote.Filter) (int, error)
	DeleteProfile(ctx context.Context, userID string) error
	UpsertUserRole(ctx context.Context, userID string, role models.Role) error
	SetAnnouncementStatus(ctx context.Context, id string, status models.Status) error
	DeleteAnnouncement(ctx context.Context, id string) error
}

// View combines the local store and the remote source. Each source fails
// independently: a remote error never suppresses local rows and vice versa,
// so callers may receive both a usable partial result and a non-nil error.
type View struct {
	local  *localstore.Store
	remote Remote
	log    *zap.Logger
}

func NewView(local *localstore.Store, rem Remote, log *zap.Logger) *View {
	if log == nil {
		log = zap.NewNop()
	}
	return &View{local: local, remote: rem, log: log}
}

// Sort orders for combined listings.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// BrowseFilter narrows the public browse listing. Instrument is pushed down
// to both sources; genre, experience and the free-text query are applied to
// the combined sequence so both provenances are filtered identically.
type BrowseFilter struct {
	Instrument string
	Genre      string
	Experience string
	Query      string
	Sort       string
}

// BrowseAnnouncements returns the active announcements from both sources
// with provenance tags and resolved author summaries.
func (v *View) BrowseAnnouncements(ctx context.Context, f BrowseFilter) ([]models.TaggedAnnouncement, error) {
	var errs []error

	cloudFilter := remote.Filter{Status: models.StatusActive, Instrument: f.Instrument}
	cloudAds, err := v.remote.ListAnnouncements(ctx, cloudFilter)
	if err != nil {
		v.log.Warn("remote announcements unavailable", zap.Error(err))
		errs = append(errs, err)
		cloudAds = nil
	}

	var authors map[string]models.AuthorProfile
	if len(cloudAds) > 0 {
		ids := make([]string, 0, len(cloudAds))
		seen := make(map[string]bool)
		for _, ad := range cloudAds {
			if !seen[ad.UserID] {
				seen[ad.UserID] = true
				ids = append(ids, ad.UserID)
			}
		}
		authors, err = v.remote.ProfileSummaries(ctx, ids)
		if err != nil {
			v.log.Warn("remote author profiles unavailable", zap.Error(err))
			errs = append(errs, err)
		}
	}

	combined := make([]models.TaggedAnnouncement, 0, len(cloudAds))
	for _, ad := range cloudAds {
		tagged := models.TaggedAnnouncement{Announcement: ad, Source: models.SourceCloud}
		if p, ok := authors[ad.UserID]; ok {
			tagged.Author = &p
		}
		combined = append(combined, tagged)
	}

	localAds, localUsers, localErr := v.localAnnouncements()
	if localErr != nil {
		errs = append(errs, localErr)
	}
	for _, ad := range localAds {
		if ad.Status != models.StatusActive {
			continue
		}
		if f.Instrument != "" && ad.InstrumentNeeded != f.Instrument {
			continue
		}
		combined = append(combined, models.TaggedAnnouncement{
			Announcement: ad,
			Source:       models.SourceLocal,
			Author:       localAuthor(localUsers, ad.UserID),
		})
	}

	combined = applyBrowseFilter(combined, f)
	sortByCreatedAt(combined, f.Sort)
	return combined, errors.Join(errs...)
}

// UserAnnouncements returns both sources' announcements authored by the user,
// newest first.
func (v *View) UserAnnouncements(ctx context.Context, userID string) ([]models.TaggedAnnouncement, error) {
	var errs []error

	cloudAds, err := v.remote.ListAnnouncements(ctx, remote.Filter{UserID: userID})
	if err != nil {
		v.log.Warn("remote announcements unavailable", zap.Error(err))
		errs = append(errs, err)
	}

	combined := make([]models.TaggedAnnouncement, 0, len(cloudAds))
	for _, ad := range cloudAds {
		combined = append(combined, models.TaggedAnnouncement{Announcement: ad, Source: models.SourceCloud})
	}

	localAds, err := v.local.ListAnnouncements()
	if err != nil {
		errs = append(errs, err)
	}
	for _, ad := range localAds {
		if ad.UserID != userID {
			continue
		}
		combined = append(combined, models.TaggedAnnouncement{Announcement: ad, Source: models.SourceLocal})
	}

	sortByCreatedAt(combined, SortNewest)
	return combined, errors.Join(errs...)
}

// localAnnouncements loads the local collections the browse view joins by hand.
func (v *View) localAnnouncements() ([]models.Announcement, []models.User, error) {
	ads, err := v.local.ListAnnouncements()
	if err != nil {
		return nil, nil, err
	}
	users, err := v.local.ListUsers()
	if err != nil {
		return ads, nil, err
	}
	return ads, users, nil
}

// localAuthor resolves a local announcement's author summary, falling back to
// the administrator display names when the user is not in the local store.
func localAuthor(users []models.User, userID string) *models.AuthorProfile {
	for _, u := range users {
		if u.ID == userID {
			return &models.AuthorProfile{
				Username:  u.Username,
				FullName:  u.FullName,
				AvatarURL: u.AvatarURL,
			}
		}
	}
	return &models.AuthorProfile{Username: "Admin", FullName: "Administrator"}
}

// applyBrowseFilter filters the combined sequence; both provenances pass
// through the same predicates.
func applyBrowseFilter(ads []models.TaggedAnnouncement, f BrowseFilter) []models.TaggedAnnouncement {
	if f.Genre == "" && f.Experience == "" && f.Query == "" {
		return ads
	}

	q := strings.ToLower(f.Query)
	kept := ads[:0]
	for _, ad := range ads {
		if f.Genre != "" && (ad.Genre == nil || *ad.Genre != f.Genre) {
			continue
		}
		if f.Experience != "" && (ad.ExperienceRequired == nil || *ad.ExperienceRequired != f.Experience) {
			continue
		}
		if q != "" && !matchesQuery(ad.Announcement, q) {
			continue
		}
		kept = append(kept, ad)
	}
	return kept
}

// matchesQuery is the free-text predicate: case-insensitive substring match
// over the descriptive fields.
func matchesQuery(ad models.Announcement, q string) bool {
	fields := []string{ad.Title, ad.Description, ad.InstrumentNeeded}
	for _, p := range []*string{ad.Location, ad.Genre, ad.ExperienceRequired} {
		if p != nil {
			fields = append(fields, *p)
		}
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// sortByCreatedAt sorts the combined sequence once, after concatenation.
// Stable so records with equal timestamps keep their source order.
func sortByCreatedAt(ads []models.TaggedAnnouncement, order string) {
	oldest := order == SortOldest
	sort.SliceStable(ads, func(i, j int) bool {
		if oldest {
			return ads[i].CreatedAt.Before(ads[j].CreatedAt)
		}
		return ads[i].CreatedAt.After(ads[j].CreatedAt)
	})
}

// startOfDay returns midnight UTC of t's day, the "new today" boundary used
// by the dashboard.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

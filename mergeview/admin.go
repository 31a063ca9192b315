package mergeview

import (
	"context"
	"errors"
	"fmt"

	"github.com/masterconnect/bandstore/models"
	"github.com/masterconnect/bandstore/remote"
)

// AdminUsers returns the moderation table of all users: cloud profiles first,
// then local records, each tagged with its provenance. No deduplication.
func (v *View) AdminUsers(ctx context.Context) ([]models.TaggedUser, error) {
	var errs []error

	cloudUsers, err := v.remote.ListProfiles(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	localUsers, err := v.local.ListUsers()
	if err != nil {
		errs = append(errs, err)
	}

	combined := make([]models.TaggedUser, 0, len(cloudUsers)+len(localUsers))
	for _, u := range cloudUsers {
		combined = append(combined, models.TaggedUser{User: u, Source: models.SourceCloud})
	}
	for _, u := range localUsers {
		combined = append(combined, models.TaggedUser{User: u, Source: models.SourceLocal})
	}
	return combined, errors.Join(errs...)
}

// AdminAnnouncements returns the moderation table of all announcements in
// every status, cloud first then local.
func (v *View) AdminAnnouncements(ctx context.Context) ([]models.TaggedAnnouncement, error) {
	var errs []error

	cloudAds, err := v.remote.ListAnnouncements(ctx, remote.Filter{})
	if err != nil {
		errs = append(errs, err)
	}
	localAds, err := v.local.ListAnnouncements()
	if err != nil {
		errs = append(errs, err)
	}

	combined := make([]models.TaggedAnnouncement, 0, len(cloudAds)+len(localAds))
	for _, a := range cloudAds {
		combined = append(combined, models.TaggedAnnouncement{Announcement: a, Source: models.SourceCloud})
	}
	for _, a := range localAds {
		combined = append(combined, models.TaggedAnnouncement{Announcement: a, Source: models.SourceLocal})
	}
	return combined, errors.Join(errs...)
}

// DeleteUser removes a user from whichever store the provenance tag names.
func (v *View) DeleteUser(ctx context.Context, id string, src models.Source) error {
	switch src {
	case models.SourceLocal:
		return v.local.DeleteUser(id)
	case models.SourceCloud:
		return v.remote.DeleteProfile(ctx, id)
	default:
		return fmt.Errorf("unknown source %q", src)
	}
}

// SetUserRole changes a user's role in the store named by the provenance tag.
func (v *View) SetUserRole(ctx context.Context, id string, src models.Source, role models.Role) error {
	switch src {
	case models.SourceLocal:
		_, err := v.local.UpdateUser(id, models.UserPatch{Role: &role})
		return err
	case models.SourceCloud:
		return v.remote.UpsertUserRole(ctx, id, role)
	default:
		return fmt.Errorf("unknown source %q", src)
	}
}

// DeleteAnnouncement removes an announcement from the store named by the tag.
func (v *View) DeleteAnnouncement(ctx context.Context, id string, src models.Source) error {
	switch src {
	case models.SourceLocal:
		return v.local.DeleteAnnouncement(id)
	case models.SourceCloud:
		return v.remote.DeleteAnnouncement(ctx, id)
	default:
		return fmt.Errorf("unknown source %q", src)
	}
}

// SetAnnouncementStatus changes an announcement's status in the store named
// by the tag.
func (v *View) SetAnnouncementStatus(ctx context.Context, id string, src models.Source, status models.Status) error {
	switch src {
	case models.SourceLocal:
		_, err := v.local.UpdateAnnouncement(id, models.AnnouncementPatch{Status: &status})
		return err
	case models.SourceCloud:
		return v.remote.SetAnnouncementStatus(ctx, id, status)
	default:
		return fmt.Errorf("unknown source %q", src)
	}
}

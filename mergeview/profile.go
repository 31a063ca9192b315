package mergeview

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/masterconnect/bandstore/localstore"
	"github.com/masterconnect/bandstore/models"
)

// ProfileFor resolves the profile shown on a user's own page. The cloud copy
// is preferred when it exists; otherwise the local record matched by id or
// email serves. Only when both sources miss is ErrNotFound returned.
func (v *View) ProfileFor(ctx context.Context, userID, email string) (models.TaggedUser, error) {
	cloudUser, cloudErr := v.remote.GetProfile(ctx, userID)
	if cloudErr == nil {
		return models.TaggedUser{User: cloudUser, Source: models.SourceCloud}, nil
	}
	if !errors.Is(cloudErr, localstore.ErrNotFound) {
		v.log.Warn("remote profile unavailable, falling back to local", zap.Error(cloudErr))
	}

	u, ok, err := v.local.GetUserByID(userID)
	if err != nil {
		return models.TaggedUser{}, err
	}
	if !ok && email != "" {
		u, ok, err = v.local.GetUserByEmail(email)
		if err != nil {
			return models.TaggedUser{}, err
		}
	}
	if !ok {
		return models.TaggedUser{}, localstore.ErrNotFound
	}
	return models.TaggedUser{User: u, Source: models.SourceLocal}, nil
}

// SaveProfile writes profile edits to the local store. The local copy is the
// write target for locally-sourced users and the mirror for cloud users, via
// the store's upsert-on-miss.
func (v *View) SaveProfile(userID string, patch models.UserPatch) (models.User, error) {
	return v.local.UpdateUser(userID, patch)
}

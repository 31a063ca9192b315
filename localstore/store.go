// Package localstore is the client-resident record store for users and
// announcements. Each collection is one JSON array under a well-known key in
// a durable string-keyed medium; every operation is a whole-collection
// read-modify-write, which is correct for the single active session the
// store is scoped to.
package localstore

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/masterconnect/bandstore/clock"
	"github.com/masterconnect/bandstore/models"
)

// Well-known medium keys. KeyCurrentUser is owned by the auth service, not
// by the store; it is declared here so both sides agree on the name.
const (
	KeyUsers         = "app_users"
	KeyAnnouncements = "app_announcements"
	KeyCurrentUser   = "app_current_user"
)

// Seed values for the designated administrator created by Init.
const (
	AdminID       = "admin-id"
	AdminEmail    = "admin@gmail.com"
	AdminUsername = "admin"
	AdminFullName = "System Administrator"
)

// Defaults applied when UpdateUser materializes a record whose canonical
// copy lives in the remote source.
const (
	mirroredEmail    = "cloud@user.com"
	mirroredUsername = "user"
	mirroredFullName = "Cloud User"
)

// Store provides synchronous CRUD access to the local collections.
// The mutex serializes the read-modify-write cycle within this process;
// a second process writing the same medium is still unguarded.
type Store struct {
	mu     sync.Mutex
	medium Medium
	clock  clock.Clock
}

// NewStore binds a store to a medium. A nil clk falls back to the system clock.
func NewStore(medium Medium, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.NewReal()
	}
	return &Store{medium: medium, clock: clk}
}

// Init ensures the designated administrator exists. Idempotent: keyed on the
// admin email, so repeated calls never create a second admin. Must run
// before any other operation is served.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readCollection[models.User](s.medium, KeyUsers)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Email == AdminEmail {
			return nil
		}
	}

	users = append(users, models.User{
		ID:        AdminID,
		Email:     AdminEmail,
		Username:  AdminUsername,
		FullName:  AdminFullName,
		Role:      models.RoleAdmin,
		CreatedAt: s.clock.Now(),
	})
	return writeCollection(s.medium, KeyUsers, users)
}

// ListUsers returns every user record. An absent or unreadable key yields an
// empty slice; only corrupt stored content is an error.
func (s *Store) ListUsers() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[models.User](s.medium, KeyUsers)
}

// AddUser appends a new record, stamping CreatedAt. The id must be free:
// collisions fail with ErrDuplicate rather than overwriting.
func (s *Store) AddUser(nu models.NewUser) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(nu)
}

func (s *Store) addUserLocked(nu models.NewUser) (models.User, error) {
	users, err := readCollection[models.User](s.medium, KeyUsers)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.ID == nu.ID {
			return models.User{}, ErrDuplicate
		}
	}

	user := models.User{
		ID:              nu.ID,
		Email:           nu.Email,
		Username:        nu.Username,
		FullName:        nu.FullName,
		Role:            nu.Role,
		AvatarURL:       nu.AvatarURL,
		Bio:             nu.Bio,
		Location:        nu.Location,
		ExperienceYears: nu.ExperienceYears,
		Instruments:     nu.Instruments,
		CreatedAt:       s.clock.Now(),
	}
	users = append(users, user)
	if err := writeCollection(s.medium, KeyUsers, users); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetUserByID looks up a user by id. Absence is not an error.
func (s *Store) GetUserByID(id string) (models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readCollection[models.User](s.medium, KeyUsers)
	if err != nil {
		return models.User{}, false, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

// GetUserByEmail looks up a user by email. Emails are assumed unique within
// the store; the first match wins.
func (s *Store) GetUserByEmail(email string) (models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readCollection[models.User](s.medium, KeyUsers)
	if err != nil {
		return models.User{}, false, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

// UpdateUser merges the patch into the record with the given id, preserving
// every unspecified field. When the id is unknown the record is created
// instead, with defaulted identity fields and role "user" — this upsert
// mirrors remote-canonical users into the local store on first touch.
func (s *Store) UpdateUser(id string, patch models.UserPatch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readCollection[models.User](s.medium, KeyUsers)
	if err != nil {
		return models.User{}, err
	}

	for i := range users {
		if users[i].ID != id {
			continue
		}
		applyUserPatch(&users[i], patch)
		if err := writeCollection(s.medium, KeyUsers, users); err != nil {
			return models.User{}, err
		}
		return users[i], nil
	}

	nu := models.NewUser{
		ID:       id,
		Email:    mirroredEmail,
		Username: mirroredUsername,
		FullName: mirroredFullName,
		Role:     models.RoleUser,
	}
	if patch.Email != nil {
		nu.Email = *patch.Email
	}
	if patch.Username != nil {
		nu.Username = *patch.Username
	}
	if patch.FullName != nil {
		nu.FullName = *patch.FullName
	}
	if patch.Role != nil {
		nu.Role = *patch.Role
	}
	nu.AvatarURL = patch.AvatarURL
	nu.Bio = patch.Bio
	nu.Location = patch.Location
	nu.ExperienceYears = patch.ExperienceYears
	nu.Instruments = patch.Instruments
	return s.addUserLocked(nu)
}

// DeleteUser removes the record if present. Deleting an unknown id is a
// no-op, not an error. Announcements by the user are left untouched.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readCollection[models.User](s.medium, KeyUsers)
	if err != nil {
		return err
	}
	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return nil
	}
	return writeCollection(s.medium, KeyUsers, kept)
}

// ListAnnouncements returns every announcement record.
func (s *Store) ListAnnouncements() ([]models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[models.Announcement](s.medium, KeyAnnouncements)
}

// AddAnnouncement appends a new record with a generated id and CreatedAt.
// An empty status defaults to active.
func (s *Store) AddAnnouncement(na models.NewAnnouncement) (models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ads, err := readCollection[models.Announcement](s.medium, KeyAnnouncements)
	if err != nil {
		return models.Announcement{}, err
	}

	status := na.Status
	if status == "" {
		status = models.StatusActive
	}
	ad := models.Announcement{
		ID:                 uuid.NewString(),
		UserID:             na.UserID,
		Title:              na.Title,
		Description:        na.Description,
		InstrumentNeeded:   na.InstrumentNeeded,
		Location:           na.Location,
		Genre:              na.Genre,
		ExperienceRequired: na.ExperienceRequired,
		ContactEmail:       na.ContactEmail,
		ContactPhone:       na.ContactPhone,
		Status:             status,
		CreatedAt:          s.clock.Now(),
	}
	ads = append(ads, ad)
	if err := writeCollection(s.medium, KeyAnnouncements, ads); err != nil {
		return models.Announcement{}, err
	}
	return ad, nil
}

// GetAnnouncementByID looks up an announcement by id. Absence is not an error.
func (s *Store) GetAnnouncementByID(id string) (models.Announcement, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ads, err := readCollection[models.Announcement](s.medium, KeyAnnouncements)
	if err != nil {
		return models.Announcement{}, false, err
	}
	for _, a := range ads {
		if a.ID == id {
			return a, true, nil
		}
	}
	return models.Announcement{}, false, nil
}

// UpdateAnnouncement merges the patch into the record with the given id.
// Unlike UpdateUser there is no upsert: an unknown id fails with ErrNotFound.
func (s *Store) UpdateAnnouncement(id string, patch models.AnnouncementPatch) (models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ads, err := readCollection[models.Announcement](s.medium, KeyAnnouncements)
	if err != nil {
		return models.Announcement{}, err
	}
	for i := range ads {
		if ads[i].ID != id {
			continue
		}
		applyAnnouncementPatch(&ads[i], patch)
		if err := writeCollection(s.medium, KeyAnnouncements, ads); err != nil {
			return models.Announcement{}, err
		}
		return ads[i], nil
	}
	return models.Announcement{}, ErrNotFound
}

// DeleteAnnouncement removes the record if present; no-op for an unknown id.
func (s *Store) DeleteAnnouncement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ads, err := readCollection[models.Announcement](s.medium, KeyAnnouncements)
	if err != nil {
		return err
	}
	kept := ads[:0]
	for _, a := range ads {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(ads) {
		return nil
	}
	return writeCollection(s.medium, KeyAnnouncements, kept)
}

func applyUserPatch(u *models.User, p models.UserPatch) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.AvatarURL != nil {
		u.AvatarURL = p.AvatarURL
	}
	if p.Bio != nil {
		u.Bio = p.Bio
	}
	if p.Location != nil {
		u.Location = p.Location
	}
	if p.ExperienceYears != nil {
		u.ExperienceYears = p.ExperienceYears
	}
	if p.Instruments != nil {
		u.Instruments = p.Instruments
	}
}

func applyAnnouncementPatch(a *models.Announcement, p models.AnnouncementPatch) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.InstrumentNeeded != nil {
		a.InstrumentNeeded = *p.InstrumentNeeded
	}
	if p.Location != nil {
		a.Location = p.Location
	}
	if p.Genre != nil {
		a.Genre = p.Genre
	}
	if p.ExperienceRequired != nil {
		a.ExperienceRequired = p.ExperienceRequired
	}
	if p.ContactEmail != nil {
		a.ContactEmail = p.ContactEmail
	}
	if p.ContactPhone != nil {
		a.ContactPhone = p.ContactPhone
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
}

// readCollection decodes the JSON array stored under key. An absent key or a
// medium read failure degrades to an empty collection (a first run has no
// data yet); content that is present but undecodable is a CorruptionError.
func readCollection[T any](m Medium, key string) ([]T, error) {
	raw, ok, err := m.Get(key)
	if err != nil || !ok {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, &CorruptionError{Key: key, Err: err}
	}
	return records, nil
}

// writeCollection replaces the whole value under key. Failures are surfaced
// as StorageError, never swallowed.
func writeCollection[T any](m Medium, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return &StorageError{Op: "encode", Key: key, Err: err}
	}
	if err := m.Set(key, string(data)); err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	return nil
}

package models

import "time"

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Status is the lifecycle state of an announcement.
type Status string

const (
	StatusActive  Status = "active"
	StatusClosed  Status = "closed"
	StatusPending Status = "pending"
)

// Source tells which store a record came from when local and cloud
// results are combined into one view.
type Source string

const (
	SourceLocal Source = "local"
	SourceCloud Source = "cloud"
)

// User represents a musician profile. Optional attributes are pointers
// so an unset field survives serialization as null rather than a zero value.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	FullName        string    `json:"full_name"`
	Role            Role      `json:"role"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	Location        *string   `json:"location,omitempty"`
	ExperienceYears *int      `json:"experience_years,omitempty"`
	Instruments     []string  `json:"instruments,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Announcement is a recruitment post authored by a user. UserID is a weak
// reference: the author may live in the other store, so it is never
// foreign-key checked.
type Announcement struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	InstrumentNeeded   string    `json:"instrument_needed"`
	Location           *string   `json:"location"`
	Genre              *string   `json:"genre"`
	ExperienceRequired *string   `json:"experience_required"`
	ContactEmail       *string   `json:"contact_email"`
	ContactPhone       *string   `json:"contact_phone"`
	Status             Status    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewUser is the insert shape for a user: the caller supplies the ID,
// the store assigns CreatedAt.
type NewUser struct {
	ID              string
	Email           string
	Username        string
	FullName        string
	Role            Role
	AvatarURL       *string
	Bio             *string
	Location        *string
	ExperienceYears *int
	Instruments     []string
}

// NewAnnouncement is the insert shape for an announcement: the store
// generates both ID and CreatedAt. An empty Status defaults to active.
type NewAnnouncement struct {
	UserID             string
	Title              string
	Description        string
	InstrumentNeeded   string
	Location           *string
	Genre              *string
	ExperienceRequired *string
	ContactEmail       *string
	ContactPhone       *string
	Status             Status
}

// UserPatch is a partial update. Nil fields are left unchanged.
// Instruments replaces the whole list when non-nil.
type UserPatch struct {
	Email           *string
	Username        *string
	FullName        *string
	Role            *Role
	AvatarURL       *string
	Bio             *string
	Location        *string
	ExperienceYears *int
	Instruments     []string
}

// AnnouncementPatch is a partial update for an announcement.
// Nil fields are left unchanged.
type AnnouncementPatch struct {
	Title              *string
	Description        *string
	InstrumentNeeded   *string
	Location           *string
	Genre              *string
	ExperienceRequired *string
	ContactEmail       *string
	ContactPhone       *string
	Status             *Status
}

// AuthorProfile is the display summary of an announcement's author as the
// browse and admin views render it.
type AuthorProfile struct {
	Username  string  `json:"username"`
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// TaggedUser is a user plus the provenance tag attached at merge time.
type TaggedUser struct {
	User
	Source Source `json:"source"`
}

// TaggedAnnouncement is an announcement plus its provenance and, when
// resolvable, its author summary.
type TaggedAnnouncement struct {
	Announcement
	Source Source         `json:"source"`
	Author *AuthorProfile `json:"profiles"`
}

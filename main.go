package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/masterconnect/bandstore/config"
	"github.com/masterconnect/bandstore/localstore"
	"github.com/masterconnect/bandstore/mergeview"
	"github.com/masterconnect/bandstore/models"
	"github.com/masterconnect/bandstore/remote"
)

func main() {
	fmt.Println("=== Bandstore Dual-Source Data Layer Demo ===")

	// Load configuration
	cfg := config.Load()
	fmt.Printf("Local storage directory: %s\n", cfg.StorageDir)

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Open the local store and seed the administrator
	medium, err := localstore.NewFileMedium(cfg.StorageDir)
	if err != nil {
		log.Fatalf("Failed to open local storage: %v", err)
	}
	store := localstore.NewStore(medium, nil)
	if err := store.Init(); err != nil {
		log.Fatalf("Failed to initialize local store: %v", err)
	}
	fmt.Println("✓ Local store ready, administrator seeded")

	// Connect to the remote source. Local data stays servable without it.
	var rem mergeview.Remote
	src, err := remote.Open(&cfg.Remote, logger)
	if err != nil {
		fmt.Printf("✗ Remote source unavailable (%v), continuing local-only\n", err)
		rem = unavailableRemote{}
	} else {
		defer src.Close()
		fmt.Println("✓ Connected to remote source")
		rem = src
	}

	view := mergeview.NewView(store, rem, logger)

	demonstrateLocalCRUD(store)
	demonstrateUpsertOnMiss(store)
	demonstrateMergeView(view)
	demonstrateStats(view)

	fmt.Println("\n=== Demo Complete ===")
}

func demonstrateLocalCRUD(store *localstore.Store) {
	fmt.Println("\n--- Local CRUD Demonstration ---")

	ad, err := store.AddAnnouncement(models.NewAnnouncement{
		UserID:           localstore.AdminID,
		Title:            "Drummer wanted",
		Description:      "Rock band seeks a drummer for weekly rehearsals",
		InstrumentNeeded: "drums",
	})
	if err != nil {
		log.Printf("Error creating announcement: %v", err)
		return
	}
	fmt.Printf("✓ Announcement created with ID: %s (status %s)\n", ad.ID, ad.Status)

	closed := models.StatusClosed
	updated, err := store.UpdateAnnouncement(ad.ID, models.AnnouncementPatch{Status: &closed})
	if err != nil {
		log.Printf("Error updating announcement: %v", err)
		return
	}
	fmt.Printf("✓ Status updated to %s, created_at unchanged: %v\n",
		updated.Status, updated.CreatedAt.Equal(ad.CreatedAt))

	if err := store.DeleteAnnouncement(ad.ID); err != nil {
		log.Printf("Error deleting announcement: %v", err)
		return
	}
	fmt.Println("✓ Announcement deleted")
}

func demonstrateUpsertOnMiss(store *localstore.Store) {
	fmt.Println("\n--- Upsert-on-Miss Demonstration ---")

	// Updating an id the local store has never seen mirrors the record
	// locally instead of failing.
	bio := "Touring bassist"
	user, err := store.UpdateUser("cloud-user-42", models.UserPatch{Bio: &bio})
	if err != nil {
		log.Printf("Error mirroring user: %v", err)
		return
	}
	fmt.Printf("✓ Cloud user mirrored locally: id=%s role=%s\n", user.ID, user.Role)

	if err := store.DeleteUser(user.ID); err != nil {
		log.Printf("Error deleting user: %v", err)
		return
	}
	fmt.Println("✓ Mirror removed")
}

func demonstrateMergeView(view *mergeview.View) {
	fmt.Println("\n--- Merge View Demonstration ---")
	ctx := context.Background()

	ads, err := view.BrowseAnnouncements(ctx, mergeview.BrowseFilter{Sort: mergeview.SortNewest})
	if err != nil {
		fmt.Printf("✗ One source failed (%v); showing what is available\n", err)
	}
	fmt.Printf("Combined active announcements: %d\n", len(ads))
	for i, ad := range ads {
		if i == 5 {
			fmt.Println("  ...")
			break
		}
		fmt.Printf("  [%s] %s (%s)\n", ad.Source, ad.Title, ad.InstrumentNeeded)
	}
}

func demonstrateStats(view *mergeview.View) {
	fmt.Println("\n--- Dashboard Stats Demonstration ---")
	ctx := context.Background()

	stats, err := view.DashboardStats(ctx, time.Now())
	if err != nil {
		fmt.Printf("✗ Remote counts unavailable (%v); figures are local-only\n", err)
	}
	fmt.Printf("Users: %d  Announcements: %d  Active: %d  New today: %d\n",
		stats.TotalUsers, stats.TotalAnnouncements,
		stats.ActiveAnnouncements, stats.NewToday)
}

// unavailableRemote keeps the merge view functional when the remote source
// cannot be reached: every call reports the outage and yields nothing.
type unavailableRemote struct{}

var errRemoteUnavailable = fmt.Errorf("remote source unavailable")

func (unavailableRemote) ListProfiles(context.Context) ([]models.User, error) {
	return nil, errRemoteUnavailable
}

func (unavailableRemote) GetProfile(context.Context, string) (models.User, error) {
	return models.User{}, errRemoteUnavailable
}

func (unavailableRemote) ProfileSummaries(context.Context, []string) (map[string]models.AuthorProfile, error) {
	return nil, errRemoteUnavailable
}

func (unavailableRemote) CountProfiles(context.Context) (int, error) {
	return 0, errRemoteUnavailable
}

func (unavailableRemote) ListAnnouncements(context.Context, remote.Filter) ([]models.Announcement, error) {
	return nil, errRemoteUnavailable
}

func (unavailableRemote) CountAnnouncements(context.Context, remote.Filter) (int, error) {
	return 0, errRemoteUnavailable
}

func (unavailableRemote) DeleteProfile(context.Context, string) error {
	return errRemoteUnavailable
}

func (unavailableRemote) UpsertUserRole(context.Context, string, models.Role) error {
	return errRemoteUnavailable
}

func (unavailableRemote) SetAnnouncementStatus(context.Context, string, models.Status) error {
	return errRemoteUnavailable
}

func (unavailableRemote) DeleteAnnouncement(context.Context, string) error {
	return errRemoteUnavailable
}

package repositories

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"warbler/database"
	"warbler/models"
)

var testDBSeq atomic.Int64

// newTestDB opens an isolated in-memory database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), database.Config())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func userCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return count
}

func TestSignupAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.Signup("testuser", "test@test.com", "password123", "")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected a persisted user with a non-zero ID")
	}
	if user.PasswordHash == "password123" || user.PasswordHash == "" {
		t.Error("password must be stored as a hash, never plaintext")
	}
	if user.ImageURL != models.DefaultImageURL {
		t.Errorf("expected default image URL, got %q", user.ImageURL)
	}

	got, err := repo.Authenticate("testuser", "password123")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if got.ID != user.ID || got.Username != "testuser" {
		t.Errorf("Authenticate returned wrong user: %v", got)
	}

	want := fmt.Sprintf("<User #%d: testuser, test@test.com>", user.ID)
	if user.String() != want {
		t.Errorf("String() = %q, want %q", user.String(), want)
	}
}

func TestSignupDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	if _, err := repo.Signup("testuser", "test@test.com", "password123", ""); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	// Same username, fresh email.
	if _, err := repo.Signup("testuser", "other@test.com", "password123", ""); !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("duplicate username: got %v, want ErrDuplicateUser", err)
	}

	// Same email, fresh username.
	if _, err := repo.Signup("otheruser", "test@test.com", "password123", ""); !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("duplicate email: got %v, want ErrDuplicateUser", err)
	}

	if count := userCount(t, db); count != 1 {
		t.Errorf("expected 1 user after rolled-back duplicates, got %d", count)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	if _, err := repo.Signup("testuser2", "test2@test2.com", "password123", ""); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if _, err := repo.Authenticate("nosuchuser", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown username: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := repo.Authenticate("testuser2", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
}

func TestFollowEdges(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	a, err := repo.Signup("usera", "a@test.com", "password123", "")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	b, err := repo.Signup("userb", "b@test.com", "password123", "")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	// b follows a.
	if err := repo.Follow(b.ID, a.ID); err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}

	checks := []struct {
		name string
		got  func() (bool, error)
		want bool
	}{
		{"a followed by b", func() (bool, error) { return repo.IsFollowedBy(a.ID, b.ID) }, true},
		{"b followed by a", func() (bool, error) { return repo.IsFollowedBy(b.ID, a.ID) }, false},
		{"a following b", func() (bool, error) { return repo.IsFollowing(a.ID, b.ID) }, false},
		{"b following a", func() (bool, error) { return repo.IsFollowing(b.ID, a.ID) }, true},
	}
	for _, c := range checks {
		got, err := c.got()
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}

	followers, err := repo.Followers(a.ID)
	if err != nil {
		t.Fatalf("Followers returned error: %v", err)
	}
	if len(followers) != 1 || followers[0].Username != "userb" {
		t.Errorf("Followers(a) = %v, want exactly [userb]", followers)
	}

	following, err := repo.Following(b.ID)
	if err != nil {
		t.Fatalf("Following returned error: %v", err)
	}
	if len(following) != 1 || following[0].Username != "usera" {
		t.Errorf("Following(b) = %v, want exactly [usera]", following)
	}

	// The ordered pair is unique; a second identical edge must be rejected.
	if err := repo.Follow(b.ID, a.ID); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("duplicate edge: got %v, want ErrDuplicatedKey", err)
	}
}

func TestUnfollow(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	a, _ := repo.Signup("usera", "a@test.com", "password123", "")
	b, _ := repo.Signup("userb", "b@test.com", "password123", "")

	if err := repo.Follow(b.ID, a.ID); err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}
	if err := repo.Unfollow(b.ID, a.ID); err != nil {
		t.Fatalf("Unfollow returned error: %v", err)
	}

	following, err := repo.IsFollowing(b.ID, a.ID)
	if err != nil {
		t.Fatalf("IsFollowing returned error: %v", err)
	}
	if following {
		t.Error("edge still present after Unfollow")
	}
}

func TestDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	messages := NewMessageRepository(db)

	a, _ := users.Signup("usera", "a@test.com", "password123", "")
	b, _ := users.Signup("userb", "b@test.com", "password123", "")

	if err := messages.Create(&models.Message{Text: "owned by a", UserID: a.ID}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := users.Follow(a.ID, b.ID); err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}
	if err := users.Follow(b.ID, a.ID); err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}

	if err := users.Delete(a.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := users.ByID(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("ByID after delete: got %v, want ErrNotFound", err)
	}

	var messageCount, edgeCount int64
	db.Model(&models.Message{}).Count(&messageCount)
	db.Model(&models.Follows{}).Count(&edgeCount)
	if messageCount != 0 {
		t.Errorf("expected owned messages removed, %d remain", messageCount)
	}
	if edgeCount != 0 {
		t.Errorf("expected follow edges removed, %d remain", edgeCount)
	}

	// The other user is untouched.
	if _, err := users.ByID(b.ID); err != nil {
		t.Errorf("unrelated user was affected: %v", err)
	}
}

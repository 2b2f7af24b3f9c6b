package repositories

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "Birdie Bob", "bob@example.com")
	alice := seedUser(t, db, "Ace Alice", "alice@example.com")

	users, err := repo.GetUsers(ctx)
	if err != nil {
		t.Fatalf("GetUsers: %v", err)
	}
	if len(users) != 2 || users[0].ID > users[1].ID {
		t.Fatalf("users not ordered by ID: %+v", users)
	}

	found, err := repo.GetUserByEmail(ctx, "alice@example.com")
	if err != nil || found.ID != alice.ID {
		t.Fatalf("GetUserByEmail = %+v, %v", found, err)
	}

	matches, err := repo.SearchUsers(ctx, "birdie")
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("search matched %d users", len(matches))
	}

	if err := repo.DeleteUser(ctx, alice.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := repo.GetUserByID(ctx, alice.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("deleted user still found: %v", err)
	}
	if err := repo.DeleteUser(ctx, alice.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("second delete = %v, want ErrRecordNotFound", err)
	}
}

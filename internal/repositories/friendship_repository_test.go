package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/discgolf/backend/internal/models"
)

func TestCountAcceptedFriendships(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	ctx := context.Background()

	me := seedUser(t, db, "me", "me@example.com")
	a := seedUser(t, db, "a", "a@example.com")
	b := seedUser(t, db, "b", "b@example.com")
	c := seedUser(t, db, "c", "c@example.com")

	requests := []*models.FriendRequest{
		{SenderID: me.ID, ReceiverID: a.ID},
		{SenderID: b.ID, ReceiverID: me.ID},
		{SenderID: c.ID, ReceiverID: me.ID},
	}
	for _, req := range requests {
		if err := repo.SendFriendRequest(ctx, req); err != nil {
			t.Fatalf("SendFriendRequest: %v", err)
		}
	}
	// accept two; the third stays pending
	for _, req := range requests[:2] {
		if err := repo.UpdateFriendRequestStatus(ctx, req.ID, models.FriendStatusAccepted); err != nil {
			t.Fatalf("UpdateFriendRequestStatus: %v", err)
		}
	}

	count, err := repo.CountAcceptedFriendships(ctx, me.ID)
	if err != nil {
		t.Fatalf("CountAcceptedFriendships: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	friends, err := repo.GetUserFriends(ctx, me.ID)
	if err != nil {
		t.Fatalf("GetUserFriends: %v", err)
	}
	if len(friends) != 2 {
		t.Errorf("friends = %d, want 2", len(friends))
	}

	pending, err := repo.GetUserPendingFriendRequests(ctx, me.ID)
	if err != nil {
		t.Fatalf("GetUserPendingFriendRequests: %v", err)
	}
	if len(pending) != 1 || pending[0].SenderID != c.ID {
		t.Errorf("pending = %+v", pending)
	}
}

func TestSendFriendRequestRejectsDuplicates(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	ctx := context.Background()

	if err := repo.SendFriendRequest(ctx, &models.FriendRequest{SenderID: 1, ReceiverID: 2}); err != nil {
		t.Fatalf("SendFriendRequest: %v", err)
	}
	if err := repo.SendFriendRequest(ctx, &models.FriendRequest{SenderID: 2, ReceiverID: 1}); err == nil {
		t.Fatal("expected error for a reverse request while one is pending")
	}
}

func TestFriendshipDeleteByUserID(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	ctx := context.Background()

	_ = repo.SendFriendRequest(ctx, &models.FriendRequest{SenderID: 1, ReceiverID: 2})
	_ = repo.SendFriendRequest(ctx, &models.FriendRequest{SenderID: 3, ReceiverID: 1})
	_ = repo.SendFriendRequest(ctx, &models.FriendRequest{SenderID: 2, ReceiverID: 3})

	if err := repo.DeleteByUserID(ctx, 1); err != nil {
		t.Fatalf("DeleteByUserID: %v", err)
	}
	var remaining int64
	db.Unscoped().Model(&models.FriendRequest{}).Count(&remaining)
	if remaining != 1 {
		t.Errorf("remaining requests = %d, want 1", remaining)
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/n14-py/tusinitusineli/internal/models"
)

func TestChatPostRequiresParticipant(t *testing.T) {
	ctx := context.Background()
	svc := NewChatService(fakeTxRunner{},
		stubTransactionStore{
			getByIDFn: func(_ context.Context, _ string) (models.Transaction, error) {
				return models.Transaction{ID: "tx-1", BuyerID: "buyer-1", SellerID: "seller-1"}, nil
			},
		},
		&stubMessageStore{}, stubUserStore{}, nil)

	body := "hello"
	if err := svc.Post(ctx, "stranger", "tx-1", &body, nil); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestChatPostPersistsThenBroadcasts(t *testing.T) {
	ctx := context.Background()
	messages := &stubMessageStore{}
	hub := &stubHub{}
	svc := NewChatService(fakeTxRunner{},
		stubTransactionStore{
			getByIDFn: func(_ context.Context, _ string) (models.Transaction, error) {
				return models.Transaction{ID: "tx-1", BuyerID: "buyer-1", SellerID: "seller-1"}, nil
			},
		},
		messages,
		stubUserStore{
			getByIDFn: func(_ context.Context, userID string) (models.User, error) {
				return models.User{ID: userID, Username: "brainlord"}, nil
			},
		}, hub)

	body := "is it still available?"
	if err := svc.Post(ctx, "buyer-1", "tx-1", &body, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages.appended) != 1 {
		t.Fatalf("expected one persisted message, got %d", len(messages.appended))
	}
	if len(hub.events) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(hub.events))
	}
	event := hub.events[0]
	if event.Sender == nil || event.Sender.Username != "brainlord" {
		t.Fatalf("unexpected sender: %#v", event.Sender)
	}
	if event.MessageID != messages.appended[0].ID {
		t.Fatal("broadcast should reference the persisted message")
	}
}

func TestChatPostFailedAppendDoesNotBroadcast(t *testing.T) {
	ctx := context.Background()
	hub := &stubHub{}
	svc := NewChatService(fakeTxRunner{err: errors.New("db down")},
		stubTransactionStore{
			getByIDFn: func(_ context.Context, _ string) (models.Transaction, error) {
				return models.Transaction{ID: "tx-1", BuyerID: "buyer-1"}, nil
			},
		},
		&stubMessageStore{}, stubUserStore{}, hub)

	body := "hello"
	if err := svc.Post(ctx, "buyer-1", "tx-1", &body, nil); err == nil {
		t.Fatal("expected an error")
	}
	if len(hub.events) != 0 {
		t.Fatalf("no broadcast on a failed append: %#v", hub.events)
	}
}

func TestChatHistoryAllowsAdmins(t *testing.T) {
	ctx := context.Background()
	svc := NewChatService(fakeTxRunner{},
		stubTransactionStore{
			getByIDFn: func(_ context.Context, _ string) (models.Transaction, error) {
				return models.Transaction{ID: "tx-1", BuyerID: "buyer-1", SellerID: "seller-1"}, nil
			},
		},
		&stubMessageStore{}, stubUserStore{}, nil)

	if _, err := svc.History(ctx, "mod-1", true, "tx-1"); err != nil {
		t.Fatalf("unexpected error for admin: %v", err)
	}
	if _, err := svc.History(ctx, "stranger", false, "tx-1"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestCanSubscribe(t *testing.T) {
	ctx := context.Background()
	svc := NewChatService(fakeTxRunner{},
		stubTransactionStore{
			getByIDFn: func(_ context.Context, _ string) (models.Transaction, error) {
				return models.Transaction{ID: "tx-1", BuyerID: "buyer-1", SellerID: "seller-1"}, nil
			},
		},
		&stubMessageStore{}, stubUserStore{}, nil)

	for userID, want := range map[string]bool{"buyer-1": true, "seller-1": true, "stranger": false} {
		got, err := svc.CanSubscribe(ctx, userID, "tx-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("%s: expected %t, got %t", userID, want, got)
		}
	}
}

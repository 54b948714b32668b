package services

import (
	"context"
	"time"

	"github.com/n14-py/tusinitusineli/internal/db"
	"github.com/n14-py/tusinitusineli/internal/models"
	"github.com/n14-py/tusinitusineli/internal/store"
	"github.com/n14-py/tusinitusineli/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ChatTransactionStore interface {
	GetByID(ctx context.Context, transactionID string) (models.Transaction, error)
}

type ChatMessageStore interface {
	Append(ctx context.Context, tx store.Execer, input store.MessageInput) error
	ListByTransaction(ctx context.Context, transactionID string) ([]store.MessageWithSender, error)
}

// ChatService is the write path of a transaction's chat channel: validate
// participancy, persist, then fan out. The append is durable before any
// connected client sees the frame.
type ChatService struct {
	txRunner     db.TxRunner
	transactions ChatTransactionStore
	messages     ChatMessageStore
	users        UserStore
	hub          ChatHub
}

func NewChatService(txRunner db.TxRunner, transactions ChatTransactionStore, messages ChatMessageStore, users UserStore, hub ChatHub) *ChatService {
	return &ChatService{
		txRunner:     txRunner,
		transactions: transactions,
		messages:     messages,
		users:        users,
		hub:          hub,
	}
}

// Post appends a participant message. Both body and image may be nil; the
// message is still timestamped and ordered.
func (s *ChatService) Post(ctx context.Context, senderID, transactionID string, body, imageURL *string) error {
	txn, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return translateNoRows(err)
	}
	if txn.BuyerID != senderID && txn.SellerID != senderID {
		return ErrNotParticipant
	}
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return translateNoRows(err)
	}
	msg := store.MessageInput{
		ID:            uuid.NewString(),
		TransactionID: transactionID,
		SenderID:      &senderID,
		Body:          body,
		ImageURL:      imageURL,
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.messages.Append(ctx, tx, msg)
	})
	if err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.BroadcastMessage(transactionID, websocket.MessageEvent{
			Type:          "new_message",
			TransactionID: transactionID,
			MessageID:     msg.ID,
			Sender:        &websocket.Sender{ID: senderID, Username: sender.Username},
			Body:          body,
			ImageURL:      imageURL,
			CreatedAt:     time.Now().UTC(),
		})
	}
	return nil
}

// History reads the persisted log. The socket never replays it; clients fetch
// history here and receive only newer frames over the channel.
func (s *ChatService) History(ctx context.Context, requesterID string, isAdmin bool, transactionID string) ([]store.MessageWithSender, error) {
	txn, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, translateNoRows(err)
	}
	if txn.BuyerID != requesterID && txn.SellerID != requesterID && !isAdmin {
		return nil, ErrNotParticipant
	}
	return s.messages.ListByTransaction(ctx, transactionID)
}

// CanSubscribe reports whether a user may join the transaction's room.
// Non-participants are silently dropped by the caller.
func (s *ChatService) CanSubscribe(ctx context.Context, userID, transactionID string) (bool, error) {
	txn, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return false, translateNoRows(err)
	}
	return txn.BuyerID == userID || txn.SellerID == userID, nil
}

package store

import (
	"context"

	"github.com/n14-py/tusinitusineli/internal/models"
)

type MessageStore struct {
	db DB
}

type MessageInput struct {
	ID            string
	TransactionID string
	SenderID      *string
	Body          *string
	ImageURL      *string
}

// MessageWithSender includes the sender username for fan-out and history;
// system messages leave it nil.
type MessageWithSender struct {
	models.Message
	SenderUsername *string `db:"sender_username"`
}

func NewMessageStore(db DB) *MessageStore {
	return &MessageStore{db: db}
}

// Append persists one chat message. Ordering comes from the seq sequence, not
// timestamps, so two messages in the same millisecond still have a total order.
func (s *MessageStore) Append(ctx context.Context, tx Execer, input MessageInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO messages (id, transaction_id, sender_id, body, image_url)
		VALUES ($1, $2, $3, $4, $5)
	`, input.ID, input.TransactionID, input.SenderID, input.Body, input.ImageURL)
	return err
}

func (s *MessageStore) ListByTransaction(ctx context.Context, transactionID string) ([]MessageWithSender, error) {
	var rows []MessageWithSender
	err := s.db.SelectContext(ctx, &rows, `
		SELECT m.id, m.transaction_id, m.sender_id, m.body, m.image_url, m.seq, m.created_at,
		       u.username AS sender_username
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.transaction_id = $1
		ORDER BY m.seq ASC
	`, transactionID)
	return rows, err
}

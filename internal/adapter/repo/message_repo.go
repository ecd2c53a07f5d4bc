package repo

import (
	"context"

	"github.com/google/uuid"

	"aihelper/internal/domain"
	"aihelper/internal/infra"
	"aihelper/internal/sqlinline"
)

// MessageRepositoryPG implements domain.MessageRepository backed by PostgreSQL.
type MessageRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewMessageRepository creates a new MessageRepositoryPG.
func NewMessageRepository(sql infra.SQLExecutor) *MessageRepositoryPG {
	return &MessageRepositoryPG{sql: sql}
}

// AppendTurn stores the user message and the generated reply as one turn.
func (r *MessageRepositoryPG) AppendTurn(ctx context.Context, userID, userMessage, reply string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertChatTurn,
		uuid.NewString(), uuid.NewString(), userID, userMessage, reply)
	return err
}

var _ domain.MessageRepository = (*MessageRepositoryPG)(nil)

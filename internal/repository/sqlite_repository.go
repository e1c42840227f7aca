package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"claude-chat/backend/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	query := "INSERT INTO conversations (id, title, model, system_prompt, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, conv.ID, conv.Title, conv.Model, nullString(conv.SystemPrompt), conv.CreatedAt, conv.UpdatedAt)
	return err
}

func (r *sqliteRepository) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	query := "SELECT id, title, model, system_prompt, created_at, updated_at FROM conversations WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, conversationID)
	conv, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return conv, nil
}

func (r *sqliteRepository) ListConversations(ctx context.Context) ([]*model.Conversation, error) {
	query := "SELECT id, title, model, system_prompt, created_at, updated_at FROM conversations ORDER BY updated_at DESC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	convs := []*model.Conversation{}
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

func (r *sqliteRepository) UpdateConversationTitle(ctx context.Context, conversationID, newTitle string) error {
	query := "UPDATE conversations SET title = ?, updated_at = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, query, newTitle, time.Now().UTC(), conversationID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *sqliteRepository) UpdateConversationModel(ctx context.Context, conversationID, modelName string) error {
	query := "UPDATE conversations SET model = ?, updated_at = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, query, modelName, time.Now().UTC(), conversationID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *sqliteRepository) DeleteConversation(ctx context.Context, conversationID string) error {
	query := "DELETE FROM conversations WHERE id = ?"
	res, err := r.db.ExecContext(ctx, query, conversationID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// AddMessage inserts the message and bumps the conversation's updated_at in one transaction.
func (r *sqliteRepository) AddMessage(ctx context.Context, message *model.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertMessage(ctx, tx, message); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceMessage deactivates oldMessageID and inserts message in its place. Nothing changes
// unless both succeed.
func (r *sqliteRepository) ReplaceMessage(ctx context.Context, oldMessageID string, message *model.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "UPDATE messages SET is_active = FALSE WHERE id = ? AND conversation_id = ?", oldMessageID, message.ConversationID)
	if err != nil {
		return fmt.Errorf("could not deactivate message: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	if err := insertMessage(ctx, tx, message); err != nil {
		return err
	}
	return tx.Commit()
}

func insertMessage(ctx context.Context, tx *sql.Tx, message *model.Message) error {
	var metadata sql.NullString
	if len(message.Metadata) > 0 && string(message.Metadata) != "null" {
		metadata.String = string(message.Metadata)
		metadata.Valid = true
	}

	insertMsgQuery := `
		INSERT INTO messages (id, conversation_id, parent_id, role, content, model, is_complete, stop_reason, timestamp, metadata, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.ExecContext(ctx, insertMsgQuery,
		message.ID,
		message.ConversationID,
		message.ParentID,
		string(message.Role),
		message.Content,
		message.Model,
		message.IsComplete,
		nullString(message.StopReason),
		message.Timestamp,
		metadata,
		true,
	)
	if err != nil {
		return fmt.Errorf("could not insert message: %w", err)
	}
	message.IsActive = true

	updateQuery := "UPDATE conversations SET updated_at = ? WHERE id = ?"
	if _, err := tx.ExecContext(ctx, updateQuery, time.Now().UTC(), message.ConversationID); err != nil {
		return fmt.Errorf("could not update conversation timestamp: %w", err)
	}
	return nil
}

const messageColumns = "id, conversation_id, parent_id, role, content, model, is_complete, stop_reason, timestamp, metadata, is_active"

func (r *sqliteRepository) GetMessage(ctx context.Context, messageID string) (*model.Message, error) {
	query := "SELECT " + messageColumns + " FROM messages WHERE id = ?"
	msg, err := scanMessage(r.db.QueryRowContext(ctx, query, messageID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return msg, nil
}

func (r *sqliteRepository) GetActiveMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	query := "SELECT " + messageColumns + `
		FROM messages
		WHERE conversation_id = ? AND is_active = TRUE
		ORDER BY timestamp ASC`
	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(s scanner) (*model.Conversation, error) {
	var conv model.Conversation
	var systemPrompt sql.NullString
	if err := s.Scan(&conv.ID, &conv.Title, &conv.Model, &systemPrompt, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		return nil, err
	}
	conv.SystemPrompt = systemPrompt.String
	return &conv, nil
}

func scanMessage(s scanner) (*model.Message, error) {
	var msg model.Message
	var role string
	var parentID, modelName, stopReason, metadata sql.NullString

	err := s.Scan(&msg.ID, &msg.ConversationID, &parentID, &role, &msg.Content, &modelName,
		&msg.IsComplete, &stopReason, &msg.Timestamp, &metadata, &msg.IsActive)
	if err != nil {
		return nil, err
	}

	msg.Role = model.Role(role)
	msg.StopReason = stopReason.String
	if parentID.Valid {
		msg.ParentID = &parentID.String
	}
	if modelName.Valid {
		msg.Model = &modelName.String
	}
	if metadata.Valid {
		msg.Metadata = json.RawMessage(metadata.String)
	}
	return &msg, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/tasktamer/internal/db"
	"github.com/alexanderramin/tasktamer/internal/domain"
)

const conversationColumns = `id, title, phase, task_text, created_at, updated_at`

// SQLiteConversationRepo implements ConversationRepo. Messages and their
// steps are stored in child tables and loaded with the conversation.
type SQLiteConversationRepo struct {
	db db.DBTX
}

// NewSQLiteConversationRepo creates a new SQLiteConversationRepo.
func NewSQLiteConversationRepo(conn db.DBTX) *SQLiteConversationRepo {
	return &SQLiteConversationRepo{db: conn}
}

func (r *SQLiteConversationRepo) Create(ctx context.Context, c *domain.Conversation) error {
	rec := domain.RecordOf(c.CurrentPhase())
	query := `INSERT INTO conversations (` + conversationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Title,
		string(rec.Kind),
		rec.Task,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting conversation: %w", err)
	}
	for i, m := range c.Messages {
		if err := r.upsertMessage(ctx, c.ID, i, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteConversationRepo) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = ?`
	c, err := scanConversation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadMessages(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *SQLiteConversationRepo) List(ctx context.Context) ([]*domain.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations
		ORDER BY updated_at DESC, created_at DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var list []*domain.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}
	return list, nil
}

func (r *SQLiteConversationRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting conversations: %w", err)
	}
	return n, nil
}

// Save writes the conversation header and every message. Message text and
// role are immutable, so existing rows only get their motivation fields and
// steps refreshed.
func (r *SQLiteConversationRepo) Save(ctx context.Context, c *domain.Conversation) error {
	rec := domain.RecordOf(c.CurrentPhase())
	query := `UPDATE conversations
		SET title = ?, phase = ?, task_text = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Title,
		string(rec.Kind),
		rec.Task,
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating conversation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("conversation %s: %w", c.ID, ErrNotFound)
	}

	for i, m := range c.Messages {
		if err := r.upsertMessage(ctx, c.ID, i, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteConversationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteConversationRepo) upsertMessage(ctx context.Context, convID string, seq int, m *domain.Message) error {
	query := `INSERT INTO messages (id, conversation_id, seq, role, text, motivation, last_milestone, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			motivation = excluded.motivation,
			last_milestone = excluded.last_milestone`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		convID,
		seq,
		string(m.Role),
		m.Text,
		m.Motivation,
		m.LastMilestone,
		formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving message %s: %w", m.ID, err)
	}
	if !m.HasSteps() {
		return nil
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM steps WHERE message_id = ?`, m.ID); err != nil {
		return fmt.Errorf("clearing steps for message %s: %w", m.ID, err)
	}
	for i, s := range m.Steps {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO steps (message_id, seq, id, text, done) VALUES (?, ?, ?, ?, ?)`,
			m.ID, i, s.ID, s.Text, boolToInt(s.Done),
		)
		if err != nil {
			return fmt.Errorf("inserting step %s: %w", s.ID, err)
		}
	}
	return nil
}

func (r *SQLiteConversationRepo) loadMessages(ctx context.Context, c *domain.Conversation) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, role, text, motivation, last_milestone, created_at
		FROM messages WHERE conversation_id = ? ORDER BY seq`, c.ID)
	if err != nil {
		return fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.Message)
	for rows.Next() {
		var m domain.Message
		var role, createdAtStr string
		if err := rows.Scan(&m.ID, &role, &m.Text, &m.Motivation, &m.LastMilestone, &createdAtStr); err != nil {
			return fmt.Errorf("scanning message row: %w", err)
		}
		m.Role = domain.Role(role)
		if m.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return fmt.Errorf("parsing message created_at: %w", err)
		}
		c.Messages = append(c.Messages, &m)
		byID[m.ID] = &m
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating messages: %w", err)
	}
	if len(c.Messages) == 0 {
		return nil
	}

	stepRows, err := r.db.QueryContext(ctx,
		`SELECT s.message_id, s.id, s.text, s.done
		FROM steps s JOIN messages m ON s.message_id = m.id
		WHERE m.conversation_id = ?
		ORDER BY m.seq, s.seq`, c.ID)
	if err != nil {
		return fmt.Errorf("listing steps: %w", err)
	}
	defer stepRows.Close()

	for stepRows.Next() {
		var msgID string
		var s domain.Step
		var done int
		if err := stepRows.Scan(&msgID, &s.ID, &s.Text, &done); err != nil {
			return fmt.Errorf("scanning step row: %w", err)
		}
		s.Done = intToBool(done)
		if m, ok := byID[msgID]; ok {
			m.Steps = append(m.Steps, s)
		}
	}
	if err := stepRows.Err(); err != nil {
		return fmt.Errorf("iterating steps: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanConversation reads the header columns and rebuilds the phase variant.
// sql.ErrNoRows is returned unwrapped so callers can map it.
func scanConversation(row rowScanner) (*domain.Conversation, error) {
	var c domain.Conversation
	var phase, createdAtStr, updatedAtStr string
	var rec domain.PhaseRecord

	err := row.Scan(&c.ID, &c.Title, &phase, &rec.Task, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning conversation: %w", err)
	}

	rec.Kind = domain.PhaseKind(phase)
	if c.Phase, err = rec.Phase(); err != nil {
		return nil, fmt.Errorf("conversation %s: %w", c.ID, err)
	}
	if c.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}

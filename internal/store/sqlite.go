package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Jaaziel-Polanco/bot-claro/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS intents (
			intent_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			examples TEXT NOT NULL,
			response TEXT NOT NULL,
			position INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListIntents returns the full catalog in catalog order.
func (s *SQLiteStore) ListIntents(ctx context.Context) ([]domain.Intent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT intent_id, title, description, examples, response FROM intents ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intents []domain.Intent
	for rows.Next() {
		var intent domain.Intent
		var examples string
		if err := rows.Scan(&intent.ID, &intent.Title, &intent.Description, &examples, &intent.Response); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(examples), &intent.Examples); err != nil {
			return nil, fmt.Errorf("failed to decode examples for intent %s: %w", intent.ID, err)
		}
		intents = append(intents, intent)
	}
	return intents, rows.Err()
}

// GetIntent retrieves a single intent by id.
func (s *SQLiteStore) GetIntent(ctx context.Context, intentID string) (*domain.Intent, error) {
	var intent domain.Intent
	var examples string
	err := s.db.QueryRowContext(ctx,
		`SELECT intent_id, title, description, examples, response FROM intents WHERE intent_id = ?`,
		intentID).Scan(&intent.ID, &intent.Title, &intent.Description, &examples, &intent.Response)
	if err == sql.ErrNoRows {
		return nil, ErrIntentNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(examples), &intent.Examples); err != nil {
		return nil, fmt.Errorf("failed to decode examples for intent %s: %w", intent.ID, err)
	}
	return &intent, nil
}

// ReplaceIntents swaps the whole catalog in one transaction, preserving
// the given order as the catalog order.
func (s *SQLiteStore) ReplaceIntents(ctx context.Context, intents []domain.Intent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM intents`); err != nil {
		return fmt.Errorf("failed to clear intents: %w", err)
	}
	for pos, intent := range intents {
		examples, err := json.Marshal(intent.Examples)
		if err != nil {
			return fmt.Errorf("failed to encode examples for intent %s: %w", intent.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO intents (intent_id, title, description, examples, response, position) VALUES (?, ?, ?, ?, ?, ?)`,
			intent.ID, intent.Title, intent.Description, string(examples), intent.Response, pos); err != nil {
			return fmt.Errorf("failed to insert intent %s: %w", intent.ID, err)
		}
	}

	return tx.Commit()
}

// CountIntents returns the number of intents in the catalog.
func (s *SQLiteStore) CountIntents(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM intents`).Scan(&n)
	return n, err
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_id, created_at) VALUES (?, ?, ?)`,
		session.SessionID, session.UserID, session.CreatedAt)
	return err
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, created_at FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.UserID, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetOrCreateSession gets an existing session or creates a new one.
func (s *SQLiteStore) GetOrCreateSession(ctx context.Context, sessionID, userID string) (*domain.Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	session = &domain.Session{
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// CreateMessage appends a message to a session transcript.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		message.MessageID, message.SessionID, message.Role, message.Content, message.CreatedAt)
	return err
}

// GetMessages retrieves a session transcript in chronological order.
func (s *SQLiteStore) GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, session_id, role, content, created_at FROM messages
		 WHERE session_id = ? ORDER BY created_at, message_id LIMIT ?`,
		sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.MessageID, &msg.SessionID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// UpdateMessageContent replaces the content of an existing message. Used
// to finalize the processing placeholder once resolution completes.
func (s *SQLiteStore) UpdateMessageContent(ctx context.Context, messageID, content string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE messages SET content = ? WHERE message_id = ?`, content, messageID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("message %s not found", messageID)
	}
	return nil
}

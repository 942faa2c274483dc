package contentapi

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Contact message workflow states. Any state is reachable from any other;
// there is deliberately no transition graph.
const (
	ContactStatusNew     = "new"
	ContactStatusRead    = "read"
	ContactStatusReplied = "replied"
)

// ValidContactStatus reports whether s is one of the three workflow states.
func ValidContactStatus(s string) bool {
	return s == ContactStatusNew || s == ContactStatusRead || s == ContactStatusReplied
}

// ContactMessage is an inbound message from the public contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// InsertMessage persists a new contact message.
func (s *Store) InsertMessage(ctx context.Context, m ContactMessage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, name, email, subject, message, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Subject, m.Message, m.Status,
		m.CreatedAt.UTC().Format(timeLayout))
	return err
}

// ListMessages returns every contact message, newest first.
func (s *Store) ListMessages(ctx context.Context) ([]ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, subject, message, status, created_at
		FROM messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []ContactMessage
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// GetMessage returns a single contact message by id.
func (s *Store) GetMessage(ctx context.Context, id string) (ContactMessage, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, subject, message, status, created_at
		FROM messages WHERE id = ?`, id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ContactMessage{}, ErrNotFound
	}
	return m, err
}

// UpdateMessageStatus overwrites a message's status and returns the updated
// record. The caller validates the status value; the store only cares that
// the row exists.
func (s *Store) UpdateMessageStatus(ctx context.Context, id, status string) (ContactMessage, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE messages SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return ContactMessage{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return ContactMessage{}, err
	}
	if n == 0 {
		return ContactMessage{}, ErrNotFound
	}
	return s.GetMessage(ctx, id)
}

// DeleteMessage removes a contact message by id.
func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (ContactMessage, error) {
	var m ContactMessage
	var created string
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status, &created); err != nil {
		return ContactMessage{}, err
	}
	var err error
	if m.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return ContactMessage{}, err
	}
	return m, nil
}

// internal/spellbook/store.go
//
// Saved passwords per user ("spellbook"). Every entry is decoded before it is
// stored, so the table only ever holds passwords the codec accepts, along
// with a small summary (hero name, xp, gold) for listing.

package spellbook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/dq1password/internal/password"
)

// ErrNotFound is returned when an entry does not exist or belongs to someone else.
var ErrNotFound = errors.New("spellbook entry not found")

// ErrLabelTooLong is returned by Add for labels over MaxLabel runes.
var ErrLabelTooLong = errors.New("label too long")

// MaxLabel bounds the user-supplied label length (in runes).
const MaxLabel = 64

// Entry is one saved password.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Label     string    `json:"label"`
	Password  string    `json:"password"`
	HeroName  string    `json:"heroName"`
	XP        uint16    `json:"xp"`
	Gold      uint16    `json:"gold"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Add decodes text and saves it for userID. Decode failures are returned
// unchanged so callers can match the password error kinds.
func (s *Store) Add(ctx context.Context, userID, label, text string) (Entry, error) {
	label = strings.TrimSpace(label)
	if n := len([]rune(label)); n > MaxLabel {
		return Entry{}, fmt.Errorf("%w: at most %d characters, got %d", ErrLabelTooLong, MaxLabel, n)
	}
	clean, err := password.NormalizePassword(text)
	if err != nil {
		return Entry{}, err
	}
	st, err := password.Decode(clean)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Label:     label,
		Password:  clean,
		HeroName:  st.Name,
		XP:        st.XP,
		Gold:      st.Gold,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO spellbook(id, user_id, label, password, hero_name, xp, gold, created_at)
		 VALUES(?,?,?,?,?,?,?,?)`,
		e.ID, e.UserID, e.Label, e.Password, e.HeroName, e.XP, e.Gold, e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert spellbook entry: %w", err)
	}
	return e, nil
}

// List returns userID's entries, newest first.
func (s *Store) List(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, label, password, hero_name, xp, gold, created_at
		 FROM spellbook
		 WHERE user_id=?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Label, &e.Password, &e.HeroName, &e.XP, &e.Gold, &created); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes one of userID's entries.
func (s *Store) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM spellbook WHERE id=? AND user_id=?`, id, userID)
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

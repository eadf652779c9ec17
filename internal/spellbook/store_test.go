package spellbook

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robalobadob/dq1password/assets"
	"github.com/robalobadob/dq1password/internal/password"
	"github.com/robalobadob/dq1password/internal/sqlite"
)

const heroPassword = "ざぼちずどぢぎきつたうずせれえむるのぢえ"

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := sqlite.OpenMigrated(context.Background(), filepath.Join(t.TempDir(), "spellbook.db"), assets.Migrations())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	for _, id := range []string{"u1", "u2"} {
		if _, err := db.Exec(`INSERT INTO users(id, username, password_hash, created_at) VALUES(?,?,?,?)`,
			id, "user_"+id, "x", "2024-01-01T00:00:00Z"); err != nil {
			t.Fatalf("insert user: %v", err)
		}
	}
	return NewStore(db), db
}

func TestAddListDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	e, err := s.Add(ctx, "u1", "  before the dragon  ", "ざぼちず どぢぎき つたうず せれえむ るのぢえ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if e.Password != heroPassword {
		t.Fatalf("stored password = %s, want normalised %s", e.Password, heroPassword)
	}
	if e.Label != "before the dragon" || e.HeroName != "しと゛-" || e.XP != 1234 || e.Gold != 5678 {
		t.Fatalf("entry = %+v", e)
	}

	list, err := s.List(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != e.ID {
		t.Fatalf("List = %+v", list)
	}
	if other, _ := s.List(ctx, "u2", 0); len(other) != 0 {
		t.Fatalf("u2 sees %d entries", len(other))
	}

	if err := s.Delete(ctx, "u2", e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete by other user = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "u1", e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "u1", e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete = %v", err)
	}
}

func TestAddRejectsInvalidPasswords(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	cases := []struct {
		text string
		want error
	}{
		{"ざぼちず", password.ErrInvalidLength},
		{"ざぼちずどぢぎきつたうずせれえむるのぢお", password.ErrChecksumMismatch},
		{"どくのばうぼぞそこけばがきもびはめつごび", password.ErrFieldOutOfRange},
	}
	for _, tc := range cases {
		if _, err := s.Add(ctx, "u1", "", tc.text); !errors.Is(err, tc.want) {
			t.Fatalf("Add(%s) = %v, want %v", tc.text, err, tc.want)
		}
	}
	if _, err := s.Add(ctx, "u1", strings.Repeat("x", MaxLabel+1), heroPassword); !errors.Is(err, ErrLabelTooLong) {
		t.Fatal("long label should fail")
	}
	if list, _ := s.List(ctx, "u1", 0); len(list) != 0 {
		t.Fatalf("rejected entries were stored: %+v", list)
	}
}

func TestDeletingUserCascades(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)
	if _, err := s.Add(ctx, "u2", "", heroPassword); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := db.Exec(`DELETE FROM users WHERE id=?`, "u2"); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM spellbook`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("%d orphaned entries", n)
	}
}

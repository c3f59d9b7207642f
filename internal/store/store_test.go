package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/morokoshi/quizlet/internal/bank"
	"github.com/morokoshi/quizlet/internal/quiz"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testBank() *bank.Bank {
	return &bank.Bank{
		Title:   "Swift",
		Version: "v1.0.0",
		Sections: []quiz.Section{
			quiz.NewSection("第1セクション", []quiz.Question{
				quiz.NewQuestion("Q1", []string{"var", "let"}, "var"),
				quiz.NewQuestion("Q2", nil, "仕様や契約"),
			}),
			quiz.NewSection("第2セクション", []quiz.Question{
				quiz.NewQuestion("Q3", []string{"a", "b", "c"}, "c"),
			}),
		},
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWALOnFileDatabase(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "quizlet.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"banks", "sections", "questions"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestBankImportAndLoad(t *testing.T) {
	s := openTestStore(t)
	repo := s.BankRepo()
	ctx := context.Background()

	src := testBank()
	id, err := repo.Import(ctx, src, "swift.yaml")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("expected non-nil bank ID")
	}

	got, err := repo.Load(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ID != id {
		t.Errorf("ID = %s, want %s", got.ID, id)
	}
	if got.Title != "Swift" || got.Version != "v1.0.0" {
		t.Errorf("title/version = %q/%q, want Swift/v1.0.0", got.Title, got.Version)
	}
	if len(got.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(got.Sections))
	}

	first := got.Sections[0]
	if first.Title != "第1セクション" {
		t.Errorf("section title = %q, want 第1セクション", first.Title)
	}
	if first.ID == src.Sections[0].ID {
		t.Error("imported section should get a fresh ID")
	}
	if len(first.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(first.Questions))
	}
	if q := first.Questions[0]; q.Text != "Q1" || len(q.Choices) != 2 || q.CorrectAnswer != "var" {
		t.Errorf("Q1 = %+v", q)
	}
	if q := first.Questions[1]; q.NeedsMultipleChoice() {
		t.Errorf("Q2 should be text-only, choices = %v", q.Choices)
	}
	if q := got.Sections[1].Questions[0]; q.Choices[2] != "c" {
		t.Errorf("Q3 choices = %v", q.Choices)
	}
}

func TestBankImportTwice(t *testing.T) {
	s := openTestStore(t)
	repo := s.BankRepo()
	ctx := context.Background()

	b := testBank()
	id1, err := repo.Import(ctx, b, "a.yaml")
	if err != nil {
		t.Fatalf("import 1: %v", err)
	}
	id2, err := repo.Import(ctx, b, "a.yaml")
	if err != nil {
		t.Fatalf("import 2: %v", err)
	}
	if id1 == id2 {
		t.Error("expected distinct IDs for repeated imports")
	}
}

func TestBankImportEmpty(t *testing.T) {
	s := openTestStore(t)
	_, err := s.BankRepo().Import(context.Background(), &bank.Bank{Version: "v1.0.0"}, "")
	if !errors.Is(err, bank.ErrInvalidBank) {
		t.Errorf("err = %v, want ErrInvalidBank", err)
	}
}

func TestBankList(t *testing.T) {
	s := openTestStore(t)
	repo := s.BankRepo()
	ctx := context.Background()

	infos, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list (empty): %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("banks = %d, want 0", len(infos))
	}

	id, err := repo.Import(ctx, testBank(), "swift.yaml")
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	infos, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("banks = %d, want 1", len(infos))
	}
	info := infos[0]
	if info.ID != id {
		t.Errorf("ID = %s, want %s", info.ID, id)
	}
	if info.Source != "swift.yaml" {
		t.Errorf("Source = %q, want swift.yaml", info.Source)
	}
	if info.Sections != 2 || info.Questions != 3 {
		t.Errorf("counts = %d sections / %d questions, want 2 / 3", info.Sections, info.Questions)
	}
	if info.ImportedAt.IsZero() {
		t.Error("expected ImportedAt to be set")
	}
}

func TestBankDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.BankRepo()
	ctx := context.Background()

	keep, err := repo.Import(ctx, testBank(), "keep.yaml")
	if err != nil {
		t.Fatalf("import keep: %v", err)
	}
	drop, err := repo.Import(ctx, testBank(), "drop.yaml")
	if err != nil {
		t.Fatalf("import drop: %v", err)
	}

	if err := repo.Delete(ctx, drop); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Load(ctx, drop); !errors.Is(err, ErrBankNotFound) {
		t.Errorf("load deleted: err = %v, want ErrBankNotFound", err)
	}

	var orphans int
	err = s.DB().QueryRow(
		"SELECT COUNT(*) FROM questions WHERE section_id NOT IN (SELECT id FROM sections)",
	).Scan(&orphans)
	if err != nil {
		t.Fatalf("count orphans: %v", err)
	}
	if orphans != 0 {
		t.Errorf("orphaned questions = %d, want 0", orphans)
	}

	b, err := repo.Load(ctx, keep)
	if err != nil {
		t.Fatalf("load kept: %v", err)
	}
	if len(b.Sections) != 2 {
		t.Errorf("kept sections = %d, want 2", len(b.Sections))
	}
}

func TestBankNotFound(t *testing.T) {
	s := openTestStore(t)
	repo := s.BankRepo()
	ctx := context.Background()

	if _, err := repo.Load(ctx, uuid.New()); !errors.Is(err, ErrBankNotFound) {
		t.Errorf("load: err = %v, want ErrBankNotFound", err)
	}
	if err := repo.Delete(ctx, uuid.New()); !errors.Is(err, ErrBankNotFound) {
		t.Errorf("delete: err = %v, want ErrBankNotFound", err)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("QUIZLET_DB", filepath.Join(dir, "custom", "q.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if p != filepath.Join(dir, "custom", "q.db") {
		t.Errorf("path = %q", p)
	}

	t.Setenv("QUIZLET_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if want := filepath.Join(dir, "quizlet", "quizlet.db"); p != want {
		t.Errorf("path = %q, want %q", p, want)
	}
}

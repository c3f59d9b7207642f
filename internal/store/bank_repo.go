package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/morokoshi/quizlet/internal/bank"
	"github.com/morokoshi/quizlet/internal/quiz"
)

// bankRepo implements BankRepo with ent's SQL builders.
type bankRepo struct {
	db *sql.DB
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *bankRepo) Import(ctx context.Context, b *bank.Bank, source string) (uuid.UUID, error) {
	if b == nil || len(b.Sections) == 0 {
		return uuid.Nil, fmt.Errorf("import bank: %w", bank.ErrInvalidBank)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New()
	query, args := builder().Insert(banksTableName).
		Columns("id", "title", "version", "source", "imported_at").
		Values(id, b.Title, b.Version, source, time.Now().UTC()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return uuid.Nil, fmt.Errorf("insert bank: %w", err)
	}

	for i, sec := range b.Sections {
		secID := uuid.New()
		query, args := builder().Insert(sectionsTableName).
			Columns("id", "bank_id", "position", "title").
			Values(secID, id, i, sec.Title).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return uuid.Nil, fmt.Errorf("insert section %d: %w", i+1, err)
		}

		if len(sec.Questions) == 0 {
			continue
		}
		ins := builder().Insert(questionsTableName).
			Columns("section_id", "position", "text", "choices", "answer")
		for j, q := range sec.Questions {
			choices, err := encodeChoices(q.Choices)
			if err != nil {
				return uuid.Nil, fmt.Errorf("section %d question %d: %w", i+1, j+1, err)
			}
			ins.Values(secID, j, q.Text, choices, q.CorrectAnswer)
		}
		query, args = ins.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return uuid.Nil, fmt.Errorf("insert questions for section %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit import: %w", err)
	}
	return id, nil
}

func (r *bankRepo) List(ctx context.Context) ([]BankInfo, error) {
	query, args := builder().Select("id", "title", "version", "source", "imported_at").
		From(builder().Table(banksTableName)).
		OrderBy(entsql.Desc("imported_at")).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query banks: %w", err)
	}

	var infos []BankInfo
	for rows.Next() {
		var info BankInfo
		if err := rows.Scan(&info.ID, &info.Title, &info.Version, &info.Source, &info.ImportedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan bank: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("close bank rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate banks: %w", err)
	}

	for i := range infos {
		if err := r.count(ctx, &infos[i]); err != nil {
			return nil, err
		}
	}
	return infos, nil
}

// count fills in the section and question totals for info.
func (r *bankRepo) count(ctx context.Context, info *BankInfo) error {
	query, args := builder().Select(entsql.Count("*")).
		From(builder().Table(sectionsTableName)).
		Where(entsql.EQ("bank_id", info.ID)).
		Query()
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&info.Sections); err != nil {
		return fmt.Errorf("count sections: %w", err)
	}

	s := builder().Table(sectionsTableName)
	q := builder().Table(questionsTableName)
	query, args = builder().Select(entsql.Count(q.C("id"))).
		From(q).
		Join(s).On(q.C("section_id"), s.C("id")).
		Where(entsql.EQ(s.C("bank_id"), info.ID)).
		Query()
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&info.Questions); err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	return nil
}

func (r *bankRepo) Load(ctx context.Context, id uuid.UUID) (*bank.Bank, error) {
	b := &bank.Bank{ID: id}
	query, args := builder().Select("title", "version").
		From(builder().Table(banksTableName)).
		Where(entsql.EQ("id", id)).
		Query()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&b.Title, &b.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load bank %s: %w", id, ErrBankNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load bank %s: %w", id, err)
	}

	type sectionRow struct {
		id    uuid.UUID
		title string
	}
	query, args = builder().Select("id", "title").
		From(builder().Table(sectionsTableName)).
		Where(entsql.EQ("bank_id", id)).
		OrderBy("position").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	var secs []sectionRow
	for rows.Next() {
		var sr sectionRow
		if err := rows.Scan(&sr.id, &sr.title); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan section: %w", err)
		}
		secs = append(secs, sr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sections: %w", err)
	}

	for _, sr := range secs {
		qs, err := r.questions(ctx, sr.id)
		if err != nil {
			return nil, err
		}
		sec := quiz.NewSection(sr.title, qs)
		sec.ID = sr.id
		b.Sections = append(b.Sections, sec)
	}
	return b, nil
}

func (r *bankRepo) questions(ctx context.Context, sectionID uuid.UUID) ([]quiz.Question, error) {
	query, args := builder().Select("text", "choices", "answer").
		From(builder().Table(questionsTableName)).
		Where(entsql.EQ("section_id", sectionID)).
		OrderBy("position").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var qs []quiz.Question
	for rows.Next() {
		var (
			text, answer string
			raw          sql.NullString
		)
		if err := rows.Scan(&text, &raw, &answer); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		choices, err := decodeChoices(raw)
		if err != nil {
			return nil, fmt.Errorf("question %q: %w", text, err)
		}
		qs = append(qs, quiz.NewQuestion(text, choices, answer))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return qs, nil
}

func (r *bankRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	// Children first, so deletion does not depend on foreign_keys.
	sub := builder().Select("id").
		From(builder().Table(sectionsTableName)).
		Where(entsql.EQ("bank_id", id))
	steps := []*entsql.DeleteBuilder{
		builder().Delete(questionsTableName).Where(entsql.In("section_id", sub)),
		builder().Delete(sectionsTableName).Where(entsql.EQ("bank_id", id)),
	}
	for _, d := range steps {
		query, args := d.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete bank contents: %w", err)
		}
	}

	query, args := builder().Delete(banksTableName).Where(entsql.EQ("id", id)).Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete bank: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bank: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete bank %s: %w", id, ErrBankNotFound)
	}
	return tx.Commit()
}

func encodeChoices(choices []string) (any, error) {
	if len(choices) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(choices)
	if err != nil {
		return nil, fmt.Errorf("encode choices: %w", err)
	}
	return string(b), nil
}

func decodeChoices(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var choices []string
	if err := json.Unmarshal([]byte(raw.String), &choices); err != nil {
		return nil, fmt.Errorf("decode choices: %w", err)
	}
	return choices, nil
}

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/morokoshi/quizlet/internal/bank"
)

// ErrBankNotFound is returned when no bank has the requested ID.
var ErrBankNotFound = errors.New("bank not found")

// BankInfo summarizes a catalog entry without loading its questions.
type BankInfo struct {
	ID         uuid.UUID
	Title      string
	Version    string
	Source     string // file the bank was imported from
	Sections   int
	Questions  int
	ImportedAt time.Time
}

// BankRepo manages imported question banks.
type BankRepo interface {
	// Import stores b and returns its new catalog ID. Sections receive
	// fresh IDs so the same file can be imported more than once.
	Import(ctx context.Context, b *bank.Bank, source string) (uuid.UUID, error)

	// List returns all banks, most recently imported first.
	List(ctx context.Context) ([]BankInfo, error)

	// Load returns the full bank with sections and questions in file order.
	Load(ctx context.Context, id uuid.UUID) (*bank.Bank, error)

	// Delete removes a bank and everything it contains.
	Delete(ctx context.Context, id uuid.UUID) error
}

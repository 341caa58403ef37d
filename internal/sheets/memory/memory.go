package memory

import (
	"context"
	"fmt"
	"sync"

	"amlyspay/internal/core"
	"amlyspay/internal/sheets"
)

var _ sheets.SpendWriter = (*Store)(nil)

// Store keeps exported rows in memory, grouped by sheet name.
type Store struct {
	mu        sync.Mutex
	sheetBase string
	rows      map[string][][]any
}

func New(sheetBase string) *Store {
	return &Store{sheetBase: sheetBase, rows: make(map[string][][]any)}
}

// AppendSpend stores the row and returns a synthetic reference.
func (s *Store) AppendSpend(_ context.Context, e core.SpendEvent) (string, error) {
	sheet := sheets.YearPrefixedName(s.sheetBase, e.OccurredAt.Year())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[sheet] = append(s.rows[sheet], sheets.SpendRow(e))
	return fmt.Sprintf("mem:%s!A%d", sheet, len(s.rows[sheet])), nil
}

// Rows returns a copy of the rows written to sheet.
func (s *Store) Rows(sheet string) [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]any(nil), s.rows[sheet]...)
}

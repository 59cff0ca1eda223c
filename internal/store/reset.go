package store

import (
	"context"
	"fmt"
)

// Reset deletes all practice data: sessions, attempts and reports. The LLM
// request log is kept unless includeLLM is set.
func (s *Store) Reset(ctx context.Context, includeLLM bool) error {
	names := []string{tableAttempts, tableReports, tableSessions}
	if includeLLM {
		names = append(names, tableLLMRequests)
	}

	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	for _, name := range names {
		q, args := builder().Delete(name).Query()
		if err := tx.Exec(ctx, q, args, nil); err != nil {
			tx.Rollback()
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/stonefield/radarpipe/internal/database"
)

// sqlStore is the pgx-backed Store. The zero value is not usable; construct
// with NewStore.
type sqlStore struct {
	q database.Querier
}

// NewStore creates a Store over the database connection pool.
func NewStore(db *database.Database) Store {
	return &sqlStore{q: db.Pool}
}

func (s *sqlStore) Properties() PropertyRepository {
	return NewPropertyRepository(s.q)
}

func (s *sqlStore) Contacts() ContactRepository {
	return NewContactRepository(s.q)
}

func (s *sqlStore) Associations() AssociationRepository {
	return NewAssociationRepository(s.q)
}

func (s *sqlStore) Lists() ListRepository {
	return NewListRepository(s.q)
}

func (s *sqlStore) Runs() ImportRunRepository {
	return NewImportRunRepository(s.q)
}

// WithTx binds a store to a transaction scope and runs fn. The scope
// commits when fn returns nil and rolls back otherwise.
//
// Called on the pool-backed store this opens a real transaction; called on
// a transaction-bound store it opens a savepoint, so a failed statement
// inside the nested scope is undone by the rollback instead of leaving the
// enclosing transaction in the aborted state. The batch coordinator nests
// one scope per batch and one per row, and the entity resolver nests one
// more around each create it may need to retry.
func (s *sqlStore) WithTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&sqlStore{q: tx}); err != nil {
		// Rollback failure is secondary to the original error.
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

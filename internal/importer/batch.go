package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/stonefield/radarpipe/internal/logger"
	"github.com/stonefield/radarpipe/internal/models"
	"github.com/stonefield/radarpipe/internal/repository"
)

// ProgressFunc receives import progress. Both values are row counts:
// processed never exceeds total, and total is the CSV row count, never an
// entity count. Implementations must not block for unbounded time; the
// pipeline calls them inline between rows.
type ProgressFunc func(processed, total int)

// Default pipeline tunables, used when CoordinatorOptions leaves them zero.
const (
	DefaultBatchSize        = 100
	DefaultProgressInterval = 25
)

// CoordinatorOptions configures a batch run.
type CoordinatorOptions struct {
	// BatchSize is how many rows are committed per transaction.
	BatchSize int
	// ProgressInterval is how many rows pass between progress callbacks
	// inside a batch. Batch boundaries always report.
	ProgressInterval int
	// MaxErrors caps retained error strings (0 = unbounded).
	MaxErrors int
	// Strategy is the property duplicate strategy (merge or skip).
	Strategy string
	// ListID, when non-zero, adds every resolved contact to that campaign
	// list as an active member.
	ListID uint
	// RunLabel tags list-membership provenance metadata, typically the
	// import run ID.
	RunLabel string
	// Progress is the optional progress sink.
	Progress ProgressFunc
}

// Coordinator partitions the row stream into fixed-size batches and
// processes each batch inside its own transaction. Each row runs in a
// nested scope (a savepoint on the batch transaction), so a single row's
// failure rolls back only that row's writes and is recorded and skipped; a
// batch-level failure rolls the whole batch back and marks all its rows
// failed. Batches run strictly sequentially so later batches observe dedup
// state committed by earlier ones.
type Coordinator struct {
	store      repository.Store
	extractor  *Extractor
	resolver   *Resolver
	associator *Associator
	log        *logger.Logger
	opts       CoordinatorOptions
}

// NewCoordinator creates a Coordinator over the given store.
func NewCoordinator(store repository.Store, log *logger.Logger, opts CoordinatorOptions) *Coordinator {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	return &Coordinator{
		store:      store,
		extractor:  NewExtractor(),
		resolver:   NewResolver(log, opts.Strategy),
		associator: NewAssociator(),
		log:        log.WithComponent("batch_coordinator"),
		opts:       opts,
	}
}

// Process runs every row through the extract-resolve-associate chain and
// returns the aggregated statistics. It fails only when the error is not
// attributable to an individual batch (context cancellation between
// batches); batch and row failures are absorbed into the statistics.
func (c *Coordinator) Process(ctx context.Context, rows []Row) (*Stats, error) {
	stats := NewStats(c.opts.MaxErrors)
	stats.TotalRows = len(rows)

	total := len(rows)
	processed := 0

	for start := 0; start < len(rows); start += c.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			// Batch boundaries are the only safe cancellation points:
			// committed batches stay, the rest never start.
			return stats, fmt.Errorf("import cancelled after %d rows: %w", processed, err)
		}

		end := start + c.opts.BatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		batchStats := NewStats(c.opts.MaxErrors)
		err := c.store.WithTx(ctx, func(tx repository.Store) error {
			for _, row := range batch {
				// The row scope is a savepoint: a failed row's writes are
				// rolled back without aborting the batch transaction, and
				// its entity counts are discarded with them.
				rowStats := NewStats(0)
				rowErr := tx.WithTx(ctx, func(rowTx repository.Store) error {
					return c.processRow(ctx, rowTx, row, rowStats)
				})
				if rowErr != nil {
					batchStats.FailedRows++
					batchStats.AddError("%s: row %d: %v", CodeRowImport, row.Line, rowErr)
					c.log.Warn("Row import failed", map[string]interface{}{
						"line":  row.Line,
						"error": rowErr.Error(),
					})
				} else {
					batchStats.Merge(rowStats)
				}
				processed++
				if processed%c.opts.ProgressInterval == 0 {
					c.reportProgress(processed, total)
				}
			}
			return nil
		})

		if err != nil {
			// The batch rolled back: its entity counts are void but its
			// row errors are still worth reporting.
			stats.mergeErrors(batchStats)
			stats.FailedRows += len(batch)
			stats.AddError("batch rows %d-%d rolled back: %v", batch[0].Line, batch[len(batch)-1].Line, err)
			c.log.Error("Batch rolled back", err, map[string]interface{}{
				"first_line": batch[0].Line,
				"last_line":  batch[len(batch)-1].Line,
				"rows":       len(batch),
			})
		} else {
			stats.Merge(batchStats)
		}

		processed = end
		c.reportProgress(processed, total)
	}

	return stats, nil
}

// processRow runs one CSV row through validation, extraction, entity
// resolution and association building inside the batch transaction.
func (c *Coordinator) processRow(ctx context.Context, tx repository.Store, row Row, stats *Stats) error {
	if errs := c.extractor.Validate(row.Fields); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", joinValidationErrors(errs))
	}

	extracted := c.extractor.Extract(row.Fields)

	property, op, err := c.resolver.ResolveProperty(ctx, tx, extracted.Property)
	if err != nil {
		return err
	}
	stats.RecordProperty(op)

	for _, payload := range []*ContactPayload{extracted.PrimaryContact, extracted.SecondaryContact} {
		if payload == nil {
			continue
		}

		contact, op, err := c.resolver.ResolveContact(ctx, tx, payload)
		if err != nil {
			return err
		}
		stats.RecordContact(op)

		relationshipType := models.RelationshipPrimary
		isPrimary := true
		if payload.Role == RoleSecondary {
			relationshipType = models.RelationshipSecondary
			isPrimary = false
		}
		if _, err := c.associator.Associate(ctx, tx, property, contact, relationshipType, isPrimary); err != nil {
			return err
		}

		if c.opts.ListID != 0 {
			added, err := c.addToList(ctx, tx, contact)
			if err != nil {
				return err
			}
			if added {
				stats.ContactsAddedToList++
			}
		}
	}

	return nil
}

// addToList ensures the contact is an active member of the run's campaign
// list. It reports true when the contact was newly added or reactivated,
// false when it was already an active member.
func (c *Coordinator) addToList(ctx context.Context, tx repository.Store, contact *models.Contact) (bool, error) {
	lists := tx.Lists()

	membership, err := lists.FindMembership(ctx, c.opts.ListID, contact.ID)
	if err != nil {
		return false, err
	}

	if membership == nil {
		membership = &models.ListMembership{
			ListID:    c.opts.ListID,
			ContactID: contact.ID,
			Status:    models.MembershipActive,
			Metadata: map[string]interface{}{
				"source": importSource,
				"run_id": c.opts.RunLabel,
			},
		}
		if err := lists.CreateMembership(ctx, membership); err != nil {
			return false, err
		}
		return true, nil
	}

	if membership.Status == models.MembershipRemoved {
		membership.Status = models.MembershipActive
		if membership.Metadata == nil {
			membership.Metadata = map[string]interface{}{}
		}
		membership.Metadata["reactivated_by_run"] = c.opts.RunLabel
		if err := lists.UpdateMembership(ctx, membership); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}

// reportProgress invokes the optional progress sink with row-based units.
func (c *Coordinator) reportProgress(processed, total int) {
	if c.opts.Progress == nil {
		return
	}
	if processed > total {
		processed = total
	}
	c.opts.Progress(processed, total)
}

// joinValidationErrors renders itemized validation errors as one string.
func joinValidationErrors(errs []ValidationError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

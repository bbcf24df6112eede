package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/0xcoordinator/coordinator/internal/domain"
)

// SeenTransactionArchiveStore provides read and delete access to seen
// transactions for archival purposes. Following the Interface Segregation
// Principle, the archiver only requires the two query methods it actually
// calls, not the full domain.OrderRepository surface.
type SeenTransactionArchiveStore interface {
	// SeenTransactionsBefore returns seen_transactions rows older than the
	// given cutoff, expressed as a Unix timestamp.
	SeenTransactionsBefore(ctx context.Context, beforeUnix int64) ([]domain.SeenTransaction, error)
	// ArchiveSeenTransactions deletes the given rows from the primary store,
	// returning the number actually removed.
	ArchiveSeenTransactions(ctx context.Context, rows []domain.SeenTransaction) (int64, error)
}

// ArchiveImpl implements domain.Archiver by querying seen_transactions rows
// older than the cutoff, serializing them to JSONL, uploading the result to
// S3, and only then deleting them from the primary store. A row is never
// deleted before its upload succeeds.
type ArchiveImpl struct {
	writer domain.BlobWriter
	repo   SeenTransactionArchiveStore
}

// NewArchiver creates a new ArchiveImpl.
func NewArchiver(writer domain.BlobWriter, repo SeenTransactionArchiveStore) *ArchiveImpl {
	return &ArchiveImpl{writer: writer, repo: repo}
}

// ArchiveSeenTransactions queries all seen_transactions rows before the
// cutoff, serializes them to JSONL, uploads the file to S3 at
// archive/seen_transactions/YYYY-MM.jsonl, and deletes the archived rows
// from the primary store. Implements domain.Archiver.
func (a *ArchiveImpl) ArchiveSeenTransactions(ctx context.Context, before time.Time) (int64, error) {
	rows, err := a.repo.SeenTransactionsBefore(ctx, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive seen transactions query: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	buf, err := marshalJSONL(rows)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive seen transactions marshal: %w", err)
	}

	path := archivePath("seen_transactions", before)
	if err := a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson"); err != nil {
		return 0, fmt.Errorf("s3blob: archive seen transactions upload: %w", err)
	}

	deleted, err := a.repo.ArchiveSeenTransactions(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive seen transactions delete: %w", err)
	}

	return deleted, nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// archivePath builds the S3 key for an archive file, partitioned by the
// year-month of the cutoff time.
//
//	archive/seen_transactions/2025-01.jsonl
func archivePath(kind string, before time.Time) string {
	return fmt.Sprintf("archive/%s/%s.jsonl", kind, before.Format("2006-01"))
}

// marshalJSONL serialises a slice of values as newline-delimited JSON (JSONL).
// Each element is marshalled as a single compact JSON line followed by '\n'.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

var _ domain.Archiver = (*ArchiveImpl)(nil)

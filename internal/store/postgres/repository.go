package postgres

import (
	"errors"
	"fmt"
	"math/big"

	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/0xcoordinator/coordinator/internal/domain"
)

// Repository implements domain.OrderRepository over the four coordinator
// tables: soft_cancels, fill_ledger, seen_transactions, fill_approvals.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// IsSoftCancelled implements domain.OrderRepository.
func (r *Repository) IsSoftCancelled(ctx context.Context, orderHash common.Hash) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM soft_cancels WHERE order_hash = $1)`,
		orderHash.Hex(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: is soft cancelled %s: %w", orderHash.Hex(), err)
	}
	return exists, nil
}

// SoftCancelBatch implements domain.OrderRepository.
func (r *Repository) SoftCancelBatch(ctx context.Context, orderHashes []common.Hash) error {
	if len(orderHashes) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: soft cancel batch begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, h := range orderHashes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO soft_cancels (order_hash) VALUES ($1) ON CONFLICT (order_hash) DO NOTHING`,
			h.Hex(),
		); err != nil {
			return fmt.Errorf("postgres: soft cancel %s: %w", h.Hex(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: soft cancel batch commit: %w", err)
	}
	return nil
}

// LedgerCumulative implements domain.OrderRepository.
func (r *Repository) LedgerCumulative(ctx context.Context, orderHash common.Hash, taker common.Address) (*big.Int, error) {
	var cumulativeStr string
	err := r.pool.QueryRow(ctx,
		`SELECT cumulative FROM fill_ledger WHERE order_hash = $1 AND taker = $2`,
		orderHash.Hex(), taker.Hex(),
	).Scan(&cumulativeStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return big.NewInt(0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ledger cumulative %s/%s: %w", orderHash.Hex(), taker.Hex(), err)
	}
	cumulative, ok := new(big.Int).SetString(cumulativeStr, 10)
	if !ok {
		return nil, fmt.Errorf("postgres: ledger cumulative %s/%s: invalid numeric %q", orderHash.Hex(), taker.Hex(), cumulativeStr)
	}
	return cumulative, nil
}

// LedgerTryAdd implements domain.OrderRepository. The UPDATE ... WHERE
// cumulative + delta <= max pattern makes the bound check and the write
// atomic at the database level; a concurrent writer racing for the same
// (orderHash, taker) row serializes behind Postgres's row lock rather than
// the two observing a stale cumulative and both succeeding.
func (r *Repository) LedgerTryAdd(ctx context.Context, orderHash common.Hash, taker common.Address, delta, max *big.Int) (*big.Int, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("postgres: ledger try add begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO fill_ledger (order_hash, taker, cumulative) VALUES ($1, $2, 0)
		 ON CONFLICT (order_hash, taker) DO NOTHING`,
		orderHash.Hex(), taker.Hex(),
	); err != nil {
		return nil, false, fmt.Errorf("postgres: ledger try add seed: %w", err)
	}

	var newCumulativeStr string
	err = tx.QueryRow(ctx,
		`UPDATE fill_ledger
		 SET cumulative = cumulative + $3, updated_at = NOW()
		 WHERE order_hash = $1 AND taker = $2 AND cumulative + $3 <= $4
		 RETURNING cumulative`,
		orderHash.Hex(), taker.Hex(), delta.String(), max.String(),
	).Scan(&newCumulativeStr)
	if errors.Is(err, pgx.ErrNoRows) {
		cumulative, readErr := r.ledgerCumulativeTx(ctx, tx, orderHash, taker)
		if readErr != nil {
			return nil, false, readErr
		}
		return cumulative, false, tx.Commit(ctx)
	}
	if err != nil {
		return nil, false, fmt.Errorf("postgres: ledger try add update: %w", err)
	}

	newCumulative, ok := new(big.Int).SetString(newCumulativeStr, 10)
	if !ok {
		return nil, false, fmt.Errorf("postgres: ledger try add: invalid numeric %q", newCumulativeStr)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("postgres: ledger try add commit: %w", err)
	}
	return newCumulative, true, nil
}

func (r *Repository) ledgerCumulativeTx(ctx context.Context, tx pgx.Tx, orderHash common.Hash, taker common.Address) (*big.Int, error) {
	var cumulativeStr string
	err := tx.QueryRow(ctx,
		`SELECT cumulative FROM fill_ledger WHERE order_hash = $1 AND taker = $2`,
		orderHash.Hex(), taker.Hex(),
	).Scan(&cumulativeStr)
	if err != nil {
		return nil, fmt.Errorf("postgres: ledger cumulative (tx) %s/%s: %w", orderHash.Hex(), taker.Hex(), err)
	}
	cumulative, ok := new(big.Int).SetString(cumulativeStr, 10)
	if !ok {
		return nil, fmt.Errorf("postgres: ledger cumulative (tx): invalid numeric %q", cumulativeStr)
	}
	return cumulative, nil
}

// SeenTransaction implements domain.OrderRepository.
func (r *Repository) SeenTransaction(ctx context.Context, txHash common.Hash) (domain.SeenTransaction, error) {
	var (
		txOrigin, signerAddress           string
		data, signature                   []byte
		expirationTimeSecondsStr          string
		orderHashesText, fillAmountsText  []string
		createdAt                         int64
	)

	err := r.pool.QueryRow(ctx,
		`SELECT tx_origin, signer_address, data, signature, expiration_time_seconds,
		        order_hashes, fill_amounts, EXTRACT(EPOCH FROM created_at)::BIGINT
		 FROM seen_transactions WHERE transaction_hash = $1`,
		txHash.Hex(),
	).Scan(&txOrigin, &signerAddress, &data, &signature, &expirationTimeSecondsStr,
		&orderHashesText, &fillAmountsText, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SeenTransaction{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.SeenTransaction{}, fmt.Errorf("postgres: seen transaction %s: %w", txHash.Hex(), err)
	}

	expiration, ok := new(big.Int).SetString(expirationTimeSecondsStr, 10)
	if !ok {
		return domain.SeenTransaction{}, fmt.Errorf("postgres: seen transaction %s: invalid expiration %q", txHash.Hex(), expirationTimeSecondsStr)
	}

	orderHashes := make([]common.Hash, len(orderHashesText))
	for i, h := range orderHashesText {
		orderHashes[i] = common.HexToHash(h)
	}
	fillAmounts := make([]*big.Int, len(fillAmountsText))
	for i, a := range fillAmountsText {
		amt, ok := new(big.Int).SetString(a, 10)
		if !ok {
			return domain.SeenTransaction{}, fmt.Errorf("postgres: seen transaction %s: invalid fill amount %q", txHash.Hex(), a)
		}
		fillAmounts[i] = amt
	}

	return domain.SeenTransaction{
		TransactionHash:       txHash,
		TxOrigin:              common.HexToAddress(txOrigin),
		SignerAddress:         common.HexToAddress(signerAddress),
		Data:                  data,
		Signature:             signature,
		ExpirationTimeSeconds: expiration,
		OrderHashes:           orderHashes,
		FillAmounts:           fillAmounts,
		CreatedAt:             createdAt,
	}, nil
}

// InsertSeenTransaction implements domain.OrderRepository.
func (r *Repository) InsertSeenTransaction(ctx context.Context, tx domain.SeenTransaction) error {
	orderHashesText := make([]string, len(tx.OrderHashes))
	for i, h := range tx.OrderHashes {
		orderHashesText[i] = h.Hex()
	}
	fillAmountsText := make([]string, len(tx.FillAmounts))
	for i, a := range tx.FillAmounts {
		fillAmountsText[i] = a.String()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO seen_transactions
		   (transaction_hash, tx_origin, signer_address, data, signature,
		    expiration_time_seconds, order_hashes, fill_amounts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (transaction_hash) DO NOTHING`,
		tx.TransactionHash.Hex(), tx.TxOrigin.Hex(), tx.SignerAddress.Hex(),
		tx.Data, tx.Signature, tx.ExpirationTimeSeconds.String(),
		orderHashesText, fillAmountsText,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert seen transaction %s: %w", tx.TransactionHash.Hex(), err)
	}
	return nil
}

// RecordFillApprovals implements domain.OrderRepository.
func (r *Repository) RecordFillApprovals(ctx context.Context, records []domain.FillApprovalRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO fill_approvals (order_hash, transaction_hash, taker_address, fill_amount)
			 VALUES ($1, $2, $3, $4)`,
			rec.OrderHash.Hex(), rec.TransactionHash.Hex(), rec.TakerAddress.Hex(), rec.FillAmount.String(),
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("postgres: record fill approvals: %w", err)
		}
	}
	return nil
}

// FillApprovalsForOrders implements domain.OrderRepository.
func (r *Repository) FillApprovalsForOrders(ctx context.Context, orderHashes []common.Hash) ([]domain.FillApprovalRecord, error) {
	if len(orderHashes) == 0 {
		return nil, nil
	}

	hashesText := make([]string, len(orderHashes))
	for i, h := range orderHashes {
		hashesText[i] = h.Hex()
	}

	rows, err := r.pool.Query(ctx,
		`SELECT order_hash, transaction_hash, taker_address, fill_amount
		 FROM fill_approvals WHERE order_hash = ANY($1)`,
		hashesText,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: fill approvals for orders: %w", err)
	}
	defer rows.Close()

	var out []domain.FillApprovalRecord
	for rows.Next() {
		var orderHash, transactionHash, takerAddress, fillAmountStr string
		if err := rows.Scan(&orderHash, &transactionHash, &takerAddress, &fillAmountStr); err != nil {
			return nil, fmt.Errorf("postgres: fill approvals for orders scan: %w", err)
		}
		fillAmount, ok := new(big.Int).SetString(fillAmountStr, 10)
		if !ok {
			return nil, fmt.Errorf("postgres: fill approvals for orders: invalid fill amount %q", fillAmountStr)
		}
		out = append(out, domain.FillApprovalRecord{
			OrderHash:       common.HexToHash(orderHash),
			TransactionHash: common.HexToHash(transactionHash),
			TakerAddress:    common.HexToAddress(takerAddress),
			FillAmount:      fillAmount,
		})
	}
	return out, rows.Err()
}

// ArchiveSeenTransactions deletes the given seen_transactions rows by
// transaction hash and returns how many were removed; its caller (the S3
// archiver, which implements domain.Archiver) writes them out first.
func (r *Repository) ArchiveSeenTransactions(ctx context.Context, rows []domain.SeenTransaction) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	hashesText := make([]string, len(rows))
	for i, row := range rows {
		hashesText[i] = row.TransactionHash.Hex()
	}
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM seen_transactions WHERE transaction_hash = ANY($1)`,
		hashesText,
	)
	if err != nil {
		return 0, fmt.Errorf("postgres: archive seen transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SeenTransactionsBefore returns seen_transactions rows older than before,
// for the S3 archiver to read and write out prior to deletion.
func (r *Repository) SeenTransactionsBefore(ctx context.Context, beforeUnix int64) ([]domain.SeenTransaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT transaction_hash, tx_origin, signer_address, data, signature,
		        expiration_time_seconds, order_hashes, fill_amounts, EXTRACT(EPOCH FROM created_at)::BIGINT
		 FROM seen_transactions WHERE created_at < TO_TIMESTAMP($1)`,
		beforeUnix,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: seen transactions before: %w", err)
	}
	defer rows.Close()

	var out []domain.SeenTransaction
	for rows.Next() {
		var (
			transactionHash, txOrigin, signerAddress string
			data, signature                          []byte
			expirationTimeSecondsStr                 string
			orderHashesText, fillAmountsText          []string
			createdAt                                int64
		)
		if err := rows.Scan(&transactionHash, &txOrigin, &signerAddress, &data, &signature,
			&expirationTimeSecondsStr, &orderHashesText, &fillAmountsText, &createdAt); err != nil {
			return nil, fmt.Errorf("postgres: seen transactions before scan: %w", err)
		}
		expiration, ok := new(big.Int).SetString(expirationTimeSecondsStr, 10)
		if !ok {
			return nil, fmt.Errorf("postgres: seen transactions before: invalid expiration %q", expirationTimeSecondsStr)
		}
		orderHashes := make([]common.Hash, len(orderHashesText))
		for i, h := range orderHashesText {
			orderHashes[i] = common.HexToHash(h)
		}
		fillAmounts := make([]*big.Int, len(fillAmountsText))
		for i, a := range fillAmountsText {
			amt, ok := new(big.Int).SetString(a, 10)
			if !ok {
				return nil, fmt.Errorf("postgres: seen transactions before: invalid fill amount %q", a)
			}
			fillAmounts[i] = amt
		}
		out = append(out, domain.SeenTransaction{
			TransactionHash:       common.HexToHash(transactionHash),
			TxOrigin:              common.HexToAddress(txOrigin),
			SignerAddress:         common.HexToAddress(signerAddress),
			Data:                  data,
			Signature:             signature,
			ExpirationTimeSeconds: expiration,
			OrderHashes:           orderHashes,
			FillAmounts:           fillAmounts,
			CreatedAt:             createdAt,
		})
	}
	return out, rows.Err()
}

var _ domain.OrderRepository = (*Repository)(nil)

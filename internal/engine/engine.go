// Package engine implements the approval-request state machine: decode,
// classify, validate, delay, re-validate, sign, persist, broadcast.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xcoordinator/coordinator/internal/domain"
	"github.com/0xcoordinator/coordinator/internal/eip712"
	"github.com/0xcoordinator/coordinator/internal/exchangeabi"
	"github.com/0xcoordinator/coordinator/internal/feerecipient"
	"github.com/0xcoordinator/coordinator/internal/oracle"
)

// ChainConfig bundles everything the engine needs for one chain id: the
// calldata classifier bound to that chain's Exchange ABI and address, the
// chain oracle for fillable-amount reads, the fee-recipient signing
// registry, and the EIP-712 domain for this coordinator's approvals on that
// chain.
type ChainConfig struct {
	ChainID            *big.Int
	ExchangeAddress    common.Address
	ZRXTokenAddress    common.Address
	AssetProxyAddress  common.Address
	Classifier         *exchangeabi.Classifier
	Oracle             oracle.ChainOracle
	FeeRecipients      *feerecipient.Registry
	ApprovalDomain     eip712.Domain
	TransactionDomain  eip712.Domain
}

// Engine is the per-process approval-request state machine. One Engine
// serves every configured chain; ChainConfig keyed by chain id provides the
// per-chain wiring.
type Engine struct {
	chains             map[string]*ChainConfig
	repo               domain.OrderRepository
	locks              domain.LockManager
	broadcaster        domain.Broadcaster
	alerts             domain.AlertNotifier
	selectiveDelay     time.Duration
	expirationDuration time.Duration
	logger             *slog.Logger
}

// New builds an Engine over the given chain configurations. alerts may be
// nil, in which case internal faults (missing chain config, missing
// fee-recipient keys) send no alert.
func New(chains map[string]*ChainConfig, repo domain.OrderRepository, locks domain.LockManager, broadcaster domain.Broadcaster, alerts domain.AlertNotifier, selectiveDelay, expirationDuration time.Duration, logger *slog.Logger) *Engine {
	return &Engine{
		chains:             chains,
		repo:               repo,
		locks:              locks,
		broadcaster:        broadcaster,
		alerts:             alerts,
		selectiveDelay:     selectiveDelay,
		expirationDuration: expirationDuration,
		logger:             logger,
	}
}

func (e *Engine) chainConfig(ctx context.Context, chainID *big.Int) (*ChainConfig, error) {
	cfg, ok := e.chains[chainID.String()]
	if !ok {
		e.alert(ctx, "config_error", "chain configuration missing",
			"no coordinator configuration for chain id "+chainID.String())
		return nil, domain.ErrConfigMissing
	}
	return cfg, nil
}

// alert pages operators about an internal fault. It never returns an error
// to the caller — a notifier outage must not block the request pipeline —
// and logs the notifier's own failure instead.
func (e *Engine) alert(ctx context.Context, event, title, message string) {
	if e.alerts == nil {
		return
	}
	if err := e.alerts.Notify(ctx, event, title, message); err != nil {
		e.logger.WarnContext(ctx, "alert notifier failed", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// MethodFor peeks at a meta-transaction's calldata selector and returns the
// classified method name, letting a caller dispatch to HandleFill or
// HandleCancel before running the full request pipeline.
func (e *Engine) MethodFor(ctx context.Context, chainID *big.Int, data []byte) (exchangeabi.Method, error) {
	cfg, err := e.chainConfig(ctx, chainID)
	if err != nil {
		return "", err
	}
	return cfg.Classifier.MethodByID(data)
}

// FillResult is the response shape for an accepted (possibly partially
// refused) fill request.
type FillResult struct {
	ApprovalHash          common.Hash
	ApprovedOrderHashes   []common.Hash
	OrdersRefusedApproval []OrderRefusal
	Signatures            []string
	ExpirationTimeSeconds *big.Int
}

// OrderRefusal is the wire shape of a single per-order refusal.
type OrderRefusal struct {
	OrderHash common.Hash
	Reason    string
}

// CancelResult is the response shape for an accepted cancellation.
type CancelResult struct {
	OutstandingFillSignatures []domain.OutstandingFillSignature
	ZeroExOrderHashes         []common.Hash
}

// HandleFill runs the full fill-request state machine: decode, classify,
// dedup, validate, delay, re-validate, sign, persist, broadcast.
func (e *Engine) HandleFill(ctx context.Context, tx domain.SignedMetaTransaction) (*FillResult, error) {
	cfg, err := e.chainConfig(ctx, tx.ChainID)
	if err != nil {
		return nil, err
	}

	// DECODED
	txHash, err := decodeAndVerify(cfg, tx)
	if err != nil {
		return nil, err
	}

	// CLASSIFIED
	classified, err := e.classify(ctx, cfg, tx)
	if err != nil {
		return nil, err
	}

	orderHashes := make([]common.Hash, len(classified.Orders))
	for i, order := range classified.Orders {
		orderHashes[i] = orderHash(cfg, order)
	}

	// DEDUPED
	if _, err := e.repo.SeenTransaction(ctx, txHash); err == nil {
		return nil, domain.NewCoordinatorError(domain.CodeTransactionAlreadyUsed, "transaction hash already processed")
	} else if err != domain.ErrNotFound {
		return nil, err
	}

	if err := e.broadcaster.BroadcastFillRequestReceived(ctx, cfg.ChainID, domain.FillRequestReceivedEvent{
		TransactionHash: txHash,
		OrderHashes:     orderHashes,
	}); err != nil {
		e.logger.Warn("broadcast fill_request_received failed", "error", err)
	}

	// VALIDATED₁
	refusals, err := e.validateOnce(ctx, cfg, classified, orderHashes, tx.SignerAddress)
	if err != nil {
		return nil, err
	}

	// DELAYED — detached from client cancellation: a dropped connection
	// must not abort signing/persistence once the delay has begun, so every
	// call from here on uses a context with the process lifetime as its
	// only deadline rather than the inbound request's.
	detached := context.WithoutCancel(ctx)
	if e.selectiveDelay > 0 {
		time.Sleep(e.selectiveDelay)

		// VALIDATED₂ — re-run against committed state, union refusals.
		second, err := e.validateOnce(detached, cfg, classified, orderHashes, tx.SignerAddress)
		if err != nil {
			return nil, err
		}
		refusals = mergeRefusals(refusals, second)
	}
	ctx = detached

	approvedHashes, approvedOrders := approvedSet(classified.Orders, orderHashes, refusals)

	// Expiration bounds check
	now := time.Now()
	approvalExpiration := big.NewInt(now.Add(e.expirationDuration).Unix())
	if approvalExpiration.Cmp(tx.ExpirationTimeSeconds) < 0 {
		return nil, domain.NewCoordinatorError(domain.CodeTransactionExpirationTooHigh,
			"approval would expire before the meta-transaction's own expiration")
	}

	approvalHash := eip712.ApprovalDigest(cfg.ApprovalDomain, eip712.ApprovalValue{
		ZeroExOrderHashes:             approvedHashes,
		TxOrigin:                      tx.SignerAddress,
		ApprovalExpirationTimeSeconds: approvalExpiration,
	})

	// SIGNED
	var signatures []string
	if len(approvedHashes) > 0 {
		signatures, err = signApprovals(ctx, cfg, approvedOrders, approvedHashes, tx.SignerAddress, approvalExpiration)
		if err != nil {
			if errors.Is(err, domain.ErrSigningFailed) {
				e.alert(ctx, "config_error", "fee recipient signing failed",
					"chain "+cfg.ChainID.String()+": "+err.Error())
			}
			return nil, err
		}
	}

	// PERSISTED
	if err := e.persist(ctx, cfg, txHash, tx, orderHashes, classified, approvedOrders, approvedHashes); err != nil {
		return nil, err
	}

	// BROADCAST
	fillAmountsByHash := make(map[common.Hash]*big.Int, len(orderHashes))
	for i, h := range orderHashes {
		fillAmountsByHash[h] = classified.FillAmounts[i]
	}
	approvedFillAmounts := make([]*big.Int, len(approvedHashes))
	for i, h := range approvedHashes {
		approvedFillAmounts[i] = fillAmountsByHash[h]
	}
	approvals := make([]domain.OutstandingFillSignature, len(approvedHashes))
	for i, h := range approvedHashes {
		approvals[i] = domain.OutstandingFillSignature{
			OrderHash:    h,
			TakerAddress: tx.SignerAddress,
			FillAmount:   approvedFillAmounts[i],
		}
	}
	if err := e.broadcaster.BroadcastFillRequestAccepted(ctx, cfg.ChainID, domain.FillRequestAcceptedEvent{
		TransactionHash: txHash,
		OrderHashes:     approvedHashes,
		FillAmounts:     approvedFillAmounts,
		Approvals:       approvals,
	}); err != nil {
		e.logger.Warn("broadcast fill_request_accepted failed", "error", err)
	}

	wireRefusals := make([]OrderRefusal, len(refusals))
	for i, r := range refusals {
		wireRefusals[i] = OrderRefusal{OrderHash: r.OrderHash, Reason: string(r.Reason)}
	}

	return &FillResult{
		ApprovalHash:          approvalHash,
		ApprovedOrderHashes:   approvedHashes,
		OrdersRefusedApproval: wireRefusals,
		Signatures:            signatures,
		ExpirationTimeSeconds: approvalExpiration,
	}, nil
}

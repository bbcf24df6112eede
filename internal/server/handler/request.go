package handler

import (
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/0xcoordinator/coordinator/internal/domain"
	"github.com/0xcoordinator/coordinator/internal/engine"
)

// RequestHandler serves the coordinator's single fill/cancel endpoint. Which
// path runs is determined by peeking at the decoded method name before
// running the full pipeline: one endpoint, the ABI method decides fill vs
// cancel.
type RequestHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewRequestHandler creates a RequestHandler bound to the given engine.
func NewRequestHandler(eng *engine.Engine, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{engine: eng, logger: logHandler(logger, "request")}
}

// signedTransactionBody is the wire shape of a client's signed meta-transaction.
type signedTransactionBody struct {
	Salt                  string `json:"salt"`
	SignerAddress         string `json:"signerAddress"`
	Data                  string `json:"data"`
	Signature             string `json:"signature"`
	ExpirationTimeSeconds string `json:"expirationTimeSeconds"`
}

func (b signedTransactionBody) decode(chainID *big.Int) (domain.SignedMetaTransaction, error) {
	salt, ok := new(big.Int).SetString(b.Salt, 10)
	if !ok {
		return domain.SignedMetaTransaction{}, domain.NewCoordinatorError(domain.CodeSchemaInvalid, "salt must be a decimal integer", "salt")
	}
	expiration, ok := new(big.Int).SetString(b.ExpirationTimeSeconds, 10)
	if !ok {
		return domain.SignedMetaTransaction{}, domain.NewCoordinatorError(domain.CodeSchemaInvalid, "expirationTimeSeconds must be a decimal integer", "expirationTimeSeconds")
	}
	if !common.IsHexAddress(b.SignerAddress) {
		return domain.SignedMetaTransaction{}, domain.NewCoordinatorError(domain.CodeSchemaInvalid, "signerAddress must be a hex address", "signerAddress")
	}
	data, err := hexutil.Decode(b.Data)
	if err != nil {
		return domain.SignedMetaTransaction{}, domain.NewCoordinatorError(domain.CodeSchemaInvalid, "data must be 0x-prefixed hex", "data")
	}
	signature, err := hexutil.Decode(b.Signature)
	if err != nil {
		return domain.SignedMetaTransaction{}, domain.NewCoordinatorError(domain.CodeSchemaInvalid, "signature must be 0x-prefixed hex", "signature")
	}

	return domain.SignedMetaTransaction{
		Salt:                  salt,
		SignerAddress:         common.HexToAddress(b.SignerAddress),
		Data:                  data,
		Signature:             signature,
		ExpirationTimeSeconds: expiration,
		ChainID:               chainID,
	}, nil
}

type orderRefusalWire struct {
	OrderHash string `json:"orderHash"`
	Reason    string `json:"reason"`
}

type fillResponseWire struct {
	ApprovalHash          string             `json:"approvalHash"`
	ApprovedOrderHashes   []string           `json:"approvedOrderHashes"`
	OrdersRefusedApproval []orderRefusalWire `json:"ordersRefusedApproval"`
	Signatures            []string           `json:"signatures"`
	ExpirationTimeSeconds string             `json:"expirationTimeSeconds"`
}

type outstandingFillSignatureWire struct {
	OrderHash    string `json:"orderHash"`
	TakerAddress string `json:"takerAddress"`
	FillAmount   string `json:"fillAmount"`
}

type cancelResponseWire struct {
	OutstandingFillSignatures []outstandingFillSignatureWire `json:"outstandingFillSignatures"`
	ZeroExOrderHashes         []string                        `json:"zeroxOrderHashes"`
}

// RequestTransaction handles POST /v2/{chainId}/request_transaction.
func (h *RequestHandler) RequestTransaction(w http.ResponseWriter, r *http.Request) {
	chainID, ok := new(big.Int).SetString(pathParam(r, "chainId"), 10)
	if !ok {
		writeError(w, http.StatusBadRequest, "chainId path parameter must be a decimal integer")
		return
	}

	var body signedTransactionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeCoordinatorError(w, domain.NewCoordinatorError(domain.CodeSchemaInvalid, "malformed JSON body"))
		return
	}

	tx, err := body.decode(chainID)
	if err != nil {
		writeCoordinatorError(w, err)
		return
	}

	method, err := h.engine.MethodFor(r.Context(), chainID, tx.Data)
	if err != nil {
		writeCoordinatorError(w, err)
		return
	}

	if method.IsCancel() {
		h.handleCancel(w, r, tx)
		return
	}
	h.handleFill(w, r, tx)
}

func (h *RequestHandler) handleFill(w http.ResponseWriter, r *http.Request, tx domain.SignedMetaTransaction) {
	result, err := h.engine.HandleFill(r.Context(), tx)
	if err != nil {
		h.logger.WarnContext(r.Context(), "fill request refused", slog.String("error", err.Error()))
		writeCoordinatorError(w, err)
		return
	}

	refusals := make([]orderRefusalWire, len(result.OrdersRefusedApproval))
	for i, ref := range result.OrdersRefusedApproval {
		refusals[i] = orderRefusalWire{OrderHash: ref.OrderHash.Hex(), Reason: ref.Reason}
	}
	approved := make([]string, len(result.ApprovedOrderHashes))
	for i, h := range result.ApprovedOrderHashes {
		approved[i] = h.Hex()
	}

	writeJSON(w, http.StatusOK, fillResponseWire{
		ApprovalHash:          result.ApprovalHash.Hex(),
		ApprovedOrderHashes:   approved,
		OrdersRefusedApproval: refusals,
		Signatures:            result.Signatures,
		ExpirationTimeSeconds: result.ExpirationTimeSeconds.String(),
	})
}

func (h *RequestHandler) handleCancel(w http.ResponseWriter, r *http.Request, tx domain.SignedMetaTransaction) {
	result, err := h.engine.HandleCancel(r.Context(), tx)
	if err != nil {
		h.logger.WarnContext(r.Context(), "cancel request refused", slog.String("error", err.Error()))
		writeCoordinatorError(w, err)
		return
	}

	outstanding := make([]outstandingFillSignatureWire, len(result.OutstandingFillSignatures))
	for i, o := range result.OutstandingFillSignatures {
		outstanding[i] = outstandingFillSignatureWire{
			OrderHash:    o.OrderHash.Hex(),
			TakerAddress: o.TakerAddress.Hex(),
			FillAmount:   o.FillAmount.String(),
		}
	}
	hashes := make([]string, len(result.ZeroExOrderHashes))
	for i, h := range result.ZeroExOrderHashes {
		hashes[i] = h.Hex()
	}

	writeJSON(w, http.StatusOK, cancelResponseWire{
		OutstandingFillSignatures: outstanding,
		ZeroExOrderHashes:         hashes,
	})
}

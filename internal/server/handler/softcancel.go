package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xcoordinator/coordinator/internal/domain"
)

// SoftCancelHandler serves the read-only soft-cancel lookup: no
// authentication, no state change, just a filter over an already-recorded
// set of off-chain cancellations.
type SoftCancelHandler struct {
	repo   domain.OrderRepository
	logger *slog.Logger
}

// NewSoftCancelHandler creates a SoftCancelHandler bound to the given repository.
func NewSoftCancelHandler(repo domain.OrderRepository, logger *slog.Logger) *SoftCancelHandler {
	return &SoftCancelHandler{repo: repo, logger: logHandler(logger, "soft_cancel")}
}

type softCancelRequest struct {
	OrderHashes []string `json:"orderHashes"`
}

type softCancelResponse struct {
	OrderHashes []string `json:"orderHashes"`
}

// SoftCancels handles POST /v2/{chainId}/soft_cancels. It reports the subset
// of the requested order hashes that have been soft-cancelled; chain id is
// part of the route for symmetry with the other endpoints but soft-cancel
// state is not chain-scoped.
func (h *SoftCancelHandler) SoftCancels(w http.ResponseWriter, r *http.Request) {
	var req softCancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	cancelled := make([]string, 0, len(req.OrderHashes))
	for _, raw := range req.OrderHashes {
		if len(raw) != 66 || raw[:2] != "0x" {
			writeError(w, http.StatusBadRequest, "orderHashes must be 32-byte hex hashes")
			return
		}
		hash := common.HexToHash(raw)
		ok, err := h.repo.IsSoftCancelled(r.Context(), hash)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "soft-cancel lookup failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if ok {
			cancelled = append(cancelled, raw)
		}
	}

	writeJSON(w, http.StatusOK, softCancelResponse{OrderHashes: cancelled})
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/solvault/engine/pkg/vaulterr"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// statusFor maps a vaulterr.Kind to the HTTP status cmd/vaultd reports —
// the one place protocol error kinds are translated into transport
// semantics, so the engine packages stay transport-agnostic.
func statusFor(kind vaulterr.Kind) int {
	switch kind {
	case vaulterr.KindUnauthorized, vaulterr.KindCrossProgramCallRejected:
		return http.StatusForbidden
	case vaulterr.KindNotFound, vaulterr.KindNoOpenRedemption, vaulterr.KindNoTicket, vaulterr.KindEpochMissing:
		return http.StatusNotFound
	case vaulterr.KindAlreadyExists, vaulterr.KindRedemptionAlreadyOpen, vaulterr.KindTicketAlreadyOpen,
		vaulterr.KindAlreadyClaimed, vaulterr.KindDuplicateRewardID, vaulterr.KindAlreadyInitialized:
		return http.StatusConflict
	case vaulterr.KindProtocolPaused, vaulterr.KindAccountFrozen, vaulterr.KindNotUnbonded:
		return http.StatusLocked
	case vaulterr.KindZeroAmount, vaulterr.KindInvalidProof, vaulterr.KindInvalidMint,
		vaulterr.KindInvalidVaultTokenAccount, vaulterr.KindAdminListTooLong:
		return http.StatusBadRequest
	case vaulterr.KindInsufficientBalance, vaulterr.KindInsufficientRedeemReserve, vaulterr.KindOverflow:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := vaulterr.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		// Only genuinely unexpected failures are worth an error-tracking
		// event; protocol-level rejections (paused, unauthorized, ...) are
		// normal traffic, not bugs.
		sentry.CaptureException(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error(), Kind: kind.String()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

package api

import (
	"errors"
	"net/http"

	"github.com/gagliardetto/solana-go"
)

// callerHeader is the HTTP-layer stand-in for host-chain signature
// verification (explicitly out of scope, spec.md §1): the caller's claimed
// identity is trusted from this header rather than a verified signature.
// Production deployment of cmd/vaultd sits behind a signature-verifying
// proxy that sets this header after checking a real signature.
const callerHeader = "X-Vault-Caller"

func callerFromRequest(r *http.Request) (solana.PublicKey, error) {
	raw := r.Header.Get(callerHeader)
	if raw == "" {
		return solana.PublicKey{}, errors.New("missing " + callerHeader + " header")
	}
	return solana.PublicKeyFromBase58(raw)
}

// callerKey is the rate-limit key function: the claimed caller identity
// when present, falling back to the remote address (as resolved by
// chimw.RealIP) for requests that never reach a caller-aware handler, such
// as an unauthenticated probe or /healthz.
func callerKey(r *http.Request) string {
	if raw := r.Header.Get(callerHeader); raw != "" {
		return raw
	}
	return r.RemoteAddr
}

func pubkeyField(raw string) (solana.PublicKey, error) {
	if raw == "" {
		return solana.PublicKey{}, errors.New("empty public key")
	}
	return solana.PublicKeyFromBase58(raw)
}

func pubkeyFields(raw []string) ([]solana.PublicKey, error) {
	out := make([]solana.PublicKey, 0, len(raw))
	for _, s := range raw {
		pk, err := pubkeyField(s)
		if err != nil {
			return nil, err
		}
		out = append(out, pk)
	}
	return out, nil
}

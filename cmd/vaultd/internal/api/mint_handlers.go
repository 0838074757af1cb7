package api

import (
	"net/http"
	"time"

	mintvault "github.com/solvault/engine/mint/vault"
	"github.com/solvault/engine/pkg/merkle"
)

type mintInitializeRequest struct {
	ReserveMint                string   `json:"reserve_mint"`
	DerivativeMint             string   `json:"derivative_mint"`
	ReserveAccount             string   `json:"reserve_account"`
	RedeemReserveAccount       string   `json:"redeem_reserve_account"`
	FreezeAdministrators       []string `json:"freeze_administrators"`
	RewardsAdministrators      []string `json:"rewards_administrators"`
	AllowedExternalMintProgram string   `json:"allowed_external_mint_program"`
}

func (s *Server) handleMintInitialize(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req mintInitializeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	reserveMint, err := pubkeyField(req.ReserveMint)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	derivativeMint, err := pubkeyField(req.DerivativeMint)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	reserveAccount, err := pubkeyField(req.ReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	redeemReserveAccount, err := pubkeyField(req.RedeemReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	allowedExternalMintProgram, err := pubkeyField(req.AllowedExternalMintProgram)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	freezeAdmins, err := pubkeyFields(req.FreezeAdministrators)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	rewardsAdmins, err := pubkeyFields(req.RewardsAdministrators)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	err = s.Mint.Initialize(r.Context(), mintvault.InitializeParams{
		Caller:                     caller,
		ReserveMint:                reserveMint,
		DerivativeMint:             derivativeMint,
		ReserveAccount:             reserveAccount,
		RedeemReserveAccount:       redeemReserveAccount,
		FreezeAdministrators:       freezeAdmins,
		RewardsAdministrators:      rewardsAdmins,
		AllowedExternalMintProgram: allowedExternalMintProgram,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type pauseRequest struct {
	Paused bool `json:"paused"`
}

func (s *Server) handleMintPause(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req pauseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Mint.Pause(r.Context(), caller, req.Paused); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type adminListRequest struct {
	Administrators []string `json:"administrators"`
}

func (s *Server) handleMintUpdateFreezeAdministrators(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req adminListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	admins, err := pubkeyFields(req.Administrators)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Mint.UpdateFreezeAdministrators(r.Context(), caller, admins); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMintUpdateRewardsAdministrators(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req adminListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	admins, err := pubkeyFields(req.Administrators)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Mint.UpdateRewardsAdministrators(r.Context(), caller, admins); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type vaultTokenAccountRequest struct {
	ReserveAccount       string `json:"reserve_account"`
	RedeemReserveAccount string `json:"redeem_reserve_account"`
}

func (s *Server) handleMintUpdateVaultTokenAccount(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req vaultTokenAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	reserveAccount, err := pubkeyField(req.ReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Mint.UpdateVaultTokenAccount(r.Context(), caller, reserveAccount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMintSetVaultTokenAccountConfig(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req vaultTokenAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	reserveAccount, err := pubkeyField(req.ReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	redeemReserveAccount, err := pubkeyField(req.RedeemReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Mint.SetVaultTokenAccountConfig(r.Context(), caller, reserveAccount, redeemReserveAccount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type mintDepositRequest struct {
	UserReserveAccount    string `json:"user_reserve_account"`
	UserDerivativeAccount string `json:"user_derivative_account"`
	ReserveAccount        string `json:"reserve_account"`
	Amount                uint64 `json:"amount"`
}

func (s *Server) handleMintDeposit(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req mintDepositRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	userReserveAccount, err := pubkeyField(req.UserReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	userDerivativeAccount, err := pubkeyField(req.UserDerivativeAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	reserveAccount, err := pubkeyField(req.ReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Mint.Deposit(r.Context(), caller, userReserveAccount, userDerivativeAccount, reserveAccount, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type requestRedeemRequest struct {
	UserDerivativeAccount string `json:"user_derivative_account"`
	Amount                uint64 `json:"amount"`
}

func (s *Server) handleMintRequestRedeem(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req requestRedeemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	userDerivativeAccount, err := pubkeyField(req.UserDerivativeAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Mint.RequestRedeem(r.Context(), caller, userDerivativeAccount, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type completeRedeemRequest struct {
	User                  string `json:"user"`
	UserReserveAccount    string `json:"user_reserve_account"`
	UserDerivativeAccount string `json:"user_derivative_account"`
}

func (s *Server) handleMintCompleteRedeem(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req completeRedeemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	user, err := pubkeyField(req.User)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	userReserveAccount, err := pubkeyField(req.UserReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	userDerivativeAccount, err := pubkeyField(req.UserDerivativeAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Mint.CompleteRedeem(r.Context(), caller, user, userReserveAccount, userDerivativeAccount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type sweepRequest struct {
	Destination string `json:"destination"`
	Amount      uint64 `json:"amount"`
}

func (s *Server) handleMintSweepRedeemVaultFunds(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req sweepRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	destination, err := pubkeyField(req.Destination)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Mint.SweepRedeemVaultFunds(r.Context(), caller, destination, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createRewardsEpochRequest struct {
	Index      uint64 `json:"index"`
	MerkleRoot string `json:"merkle_root_hex"`
	Total      uint64 `json:"total"`
}

func (s *Server) handleMintCreateRewardsEpoch(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req createRewardsEpochRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	root, err := decodeHex32(req.MerkleRoot)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Mint.CreateRewardsEpoch(r.Context(), caller, req.Index, root, req.Total, time.Now().Unix()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type claimRewardsRequest struct {
	UserDerivativeAccount string          `json:"user_derivative_account"`
	EpochIndex            uint64          `json:"epoch_index"`
	Amount                uint64          `json:"amount"`
	Proof                 []proofStepJSON `json:"proof"`
}

type proofStepJSON struct {
	Sibling string `json:"sibling_hex"`
	IsLeft  bool   `json:"is_left"`
}

func (s *Server) handleMintClaimRewards(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req claimRewardsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	userDerivativeAccount, err := pubkeyField(req.UserDerivativeAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	proof := make([]merkle.ProofStep, 0, len(req.Proof))
	for _, p := range req.Proof {
		sib, err := decodeHex32(p.Sibling)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		proof = append(proof, merkle.ProofStep{Sibling: sib, IsLeft: p.IsLeft})
	}
	if err := s.Mint.ClaimRewards(r.Context(), caller, userDerivativeAccount, req.EpochIndex, req.Amount, proof); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type tokenAccountRequest struct {
	Account string `json:"account"`
}

func (s *Server) handleMintFreezeTokenAccount(w http.ResponseWriter, r *http.Request) {
	s.mintToggleFreeze(w, r, true)
}

func (s *Server) handleMintThawTokenAccount(w http.ResponseWriter, r *http.Request) {
	s.mintToggleFreeze(w, r, false)
}

func (s *Server) mintToggleFreeze(w http.ResponseWriter, r *http.Request, freeze bool) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req tokenAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	account, err := pubkeyField(req.Account)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if freeze {
		err = s.Mint.FreezeTokenAccount(r.Context(), caller, account)
	} else {
		err = s.Mint.ThawTokenAccount(r.Context(), caller, account)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

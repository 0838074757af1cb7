package api

import (
	"net/http"
	"strconv"
	"time"

	stakevault "github.com/solvault/engine/stake/vault"
)

type stakeInitializeRequest struct {
	UnbondingPeriodSeconds int64    `json:"unbonding_period_seconds"`
	ReserveMint            string   `json:"reserve_mint"`
	ShareMint              string   `json:"share_mint"`
	ReserveAccount         string   `json:"reserve_account"`
	FreezeAdministrators   []string `json:"freeze_administrators"`
	RewardsAdministrators  []string `json:"rewards_administrators"`
}

func (s *Server) handleStakeInitialize(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req stakeInitializeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	reserveMint, err := pubkeyField(req.ReserveMint)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	shareMint, err := pubkeyField(req.ShareMint)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	reserveAccount, err := pubkeyField(req.ReserveAccount)
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

	err = s.Stake.Initialize(r.Context(), stakevault.InitializeParams{
		Caller:                 caller,
		UnbondingPeriodSeconds: req.UnbondingPeriodSeconds,
		ReserveMint:            reserveMint,
		ShareMint:              shareMint,
		ReserveAccount:         reserveAccount,
		FreezeAdministrators:   freezeAdmins,
		RewardsAdministrators:  rewardsAdmins,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStakePause(w http.ResponseWriter, r *http.Request) {
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
	if err := s.Stake.Pause(r.Context(), caller, req.Paused); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type updateConfigRequest struct {
	UnbondingPeriodSeconds int64 `json:"unbonding_period_seconds"`
}

func (s *Server) handleStakeUpdateConfig(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req updateConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Stake.UpdateConfig(r.Context(), caller, req.UnbondingPeriodSeconds); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStakeUpdateFreezeAdministrators(w http.ResponseWriter, r *http.Request) {
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
	if err := s.Stake.UpdateFreezeAdministrators(r.Context(), caller, admins); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStakeUpdateRewardsAdministrators(w http.ResponseWriter, r *http.Request) {
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
	if err := s.Stake.UpdateRewardsAdministrators(r.Context(), caller, admins); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type stakeVaultTokenAccountRequest struct {
	ReserveAccount string `json:"reserve_account"`
	VaultAuthority string `json:"vault_authority"`
}

func (s *Server) handleStakeSetVaultTokenAccountConfig(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req stakeVaultTokenAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	reserveAccount, err := pubkeyField(req.ReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	vaultAuthority, err := pubkeyField(req.VaultAuthority)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Stake.SetStakeVaultTokenAccountConfig(r.Context(), caller, reserveAccount, vaultAuthority); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type stakeDepositRequest struct {
	UserReserveAccount string `json:"user_reserve_account"`
	UserShareAccount   string `json:"user_share_account"`
	ReserveAccount     string `json:"reserve_account"`
	Amount             uint64 `json:"amount"`
}

func (s *Server) handleStakeDeposit(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req stakeDepositRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	userReserveAccount, err := pubkeyField(req.UserReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	userShareAccount, err := pubkeyField(req.UserShareAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	reserveAccount, err := pubkeyField(req.ReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Stake.Deposit(r.Context(), caller, userReserveAccount, userShareAccount, reserveAccount, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type unbondRequest struct {
	UserShareAccount string `json:"user_share_account"`
	ReserveAccount   string `json:"reserve_account"`
	Shares           uint64 `json:"shares"`
}

func (s *Server) handleStakeUnbond(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req unbondRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	userShareAccount, err := pubkeyField(req.UserShareAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	reserveAccount, err := pubkeyField(req.ReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Stake.Unbond(r.Context(), caller, userShareAccount, reserveAccount, req.Shares); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type stakeRedeemRequest struct {
	UserReserveAccount string `json:"user_reserve_account"`
	ReserveAccount     string `json:"reserve_account"`
}

func (s *Server) handleStakeRedeem(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req stakeRedeemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	userReserveAccount, err := pubkeyField(req.UserReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	reserveAccount, err := pubkeyField(req.ReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Stake.Redeem(r.Context(), caller, userReserveAccount, reserveAccount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type publishRewardsRequest struct {
	ReserveAccount string `json:"reserve_account"`
	ID             uint32 `json:"id"`
	Amount         uint64 `json:"amount"`
}

func (s *Server) handleStakePublishRewards(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req publishRewardsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	reserveAccount, err := pubkeyField(req.ReserveAccount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := s.Stake.PublishRewards(r.Context(), caller, reserveAccount, req.ID, req.Amount, time.Now().Unix()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStakeSharesToAssets(w http.ResponseWriter, r *http.Request) {
	shares, err := strconv.ParseUint(r.URL.Query().Get("shares"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid shares"})
		return
	}
	assets, err := s.Stake.SharesToAssets(r.Context(), shares)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"assets": assets})
}

func (s *Server) handleStakeAssetsToShares(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.ParseUint(r.URL.Query().Get("amount"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid amount"})
		return
	}
	shares, err := s.Stake.AssetsToShares(r.Context(), amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"shares": shares})
}

func (s *Server) handleStakeExchangeRate(w http.ResponseWriter, r *http.Request) {
	rate, err := s.Stake.ExchangeRate(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"rate": rate})
}

func (s *Server) handleStakeFreezeTokenAccount(w http.ResponseWriter, r *http.Request) {
	s.stakeToggleFreeze(w, r, true)
}

func (s *Server) handleStakeThawTokenAccount(w http.ResponseWriter, r *http.Request) {
	s.stakeToggleFreeze(w, r, false)
}

func (s *Server) stakeToggleFreeze(w http.ResponseWriter, r *http.Request, freeze bool) {
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
		err = s.Stake.FreezeTokenAccount(r.Context(), caller, account)
	} else {
		err = s.Stake.ThawTokenAccount(r.Context(), caller, account)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Package vaulterr defines the error-kind contract shared by the mint and
// stake vault engines. Engine methods report protocol-level rejections as a
// *vaulterr.Error so callers can classify them instead of matching on
// strings; infrastructure errors (store decoding, PDA derivation) are
// returned as they are and classify as KindUnknown.
package vaulterr

import (
	"errors"
	"fmt"
)

// Kind enumerates the named failure modes of the protocol.
type Kind int

const (
	KindUnknown Kind = iota
	KindProtocolPaused
	KindUnauthorized
	KindZeroAmount
	KindOverflow
	KindInsufficientBalance
	KindInsufficientRedeemReserve
	KindRedemptionAlreadyOpen
	KindNoOpenRedemption
	KindTicketAlreadyOpen
	KindNoTicket
	KindNotUnbonded
	KindInvalidVaultTokenAccount
	KindInvalidMint
	KindInvalidProof
	KindAlreadyClaimed
	KindDuplicateRewardID
	KindEpochMissing
	KindCrossProgramCallRejected
	KindAdminListTooLong
	KindAlreadyInitialized
	KindAccountFrozen
	// KindAlreadyExists is the generic PDA-collision primitive that backs
	// RedemptionAlreadyOpen, TicketAlreadyOpen, AlreadyClaimed and
	// DuplicateRewardID at the store layer (see pkg/store).
	KindAlreadyExists
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindProtocolPaused:
		return "ProtocolPaused"
	case KindUnauthorized:
		return "Unauthorized"
	case KindZeroAmount:
		return "ZeroAmount"
	case KindOverflow:
		return "Overflow"
	case KindInsufficientBalance:
		return "InsufficientBalance"
	case KindInsufficientRedeemReserve:
		return "InsufficientRedeemReserve"
	case KindRedemptionAlreadyOpen:
		return "RedemptionAlreadyOpen"
	case KindNoOpenRedemption:
		return "NoOpenRedemption"
	case KindTicketAlreadyOpen:
		return "TicketAlreadyOpen"
	case KindNoTicket:
		return "NoTicket"
	case KindNotUnbonded:
		return "NotUnbonded"
	case KindInvalidVaultTokenAccount:
		return "InvalidVaultTokenAccount"
	case KindInvalidMint:
		return "InvalidMint"
	case KindInvalidProof:
		return "InvalidProof"
	case KindAlreadyClaimed:
		return "AlreadyClaimed"
	case KindDuplicateRewardID:
		return "DuplicateRewardId"
	case KindEpochMissing:
		return "EpochMissing"
	case KindCrossProgramCallRejected:
		return "CrossProgramCallRejected"
	case KindAdminListTooLong:
		return "AdminListTooLong"
	case KindAlreadyInitialized:
		return "AlreadyInitialized"
	case KindAccountFrozen:
		return "AccountFrozen"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindNotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type every engine entry point returns.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an *Error for the given op/kind, optionally wrapping err.
func New(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Is reports whether err is a *vaulterr.Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind carried by err, or KindUnknown if err is not a
// *vaulterr.Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

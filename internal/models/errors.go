package models

import "errors"

// Domain errors surfaced by the selection and escrow state machines.
// Handlers map these to HTTP status codes; services never coerce a bad
// state transition into a silent no-op.
var (
	ErrWeightsInvalid     = errors.New("criteria weights must be non-negative and sum to exactly 100")
	ErrSelectionFrozen    = errors.New("selection is completed and can no longer be modified")
	ErrSelectionCancelled = errors.New("selection has been cancelled")
	ErrNoBidForUser       = errors.New("user has no bid for this project")
	ErrSlotsExceeded      = errors.New("selection would exceed the required contributor count")

	ErrPoolNotFunded       = errors.New("bonus pool has not been funded")
	ErrPoolAlreadyFunded   = errors.New("bonus pool is already funded")
	ErrSelectionIncomplete = errors.New("contributor selection is not completed")

	ErrFundAlreadyLocked = errors.New("funds are already locked for this user and bid")
	ErrFundNotFound      = errors.New("no locked fund exists for this user and bid")
	ErrFundNotLocked     = errors.New("fund is not in locked state")
	ErrFundNotReleased   = errors.New("fund is not in released state")
	ErrFundAlreadyMoved  = errors.New("fund has already been moved to balance")
	ErrWalletNotActive   = errors.New("escrow wallet is not accepting this operation")

	ErrWithdrawalBounds       = errors.New("withdrawal amount is outside the allowed bounds")
	ErrInsufficientBalance    = errors.New("insufficient available balance")
	ErrProjectAlreadyComplete = errors.New("project is already marked as completed")
)

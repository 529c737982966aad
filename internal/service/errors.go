package service

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP codes
// with errors.Is; none of them is retried internally.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrItemNotFound     = errors.New("item not found")
	ErrNotItemOwner     = errors.New("you do not own this item")
	ErrItemNotApproved  = errors.New("item is not approved")
	ErrItemUnavailable  = errors.New("item is not available")
	ErrNoStateChange    = errors.New("item is already in the requested state")
	ErrAlreadyModerated = errors.New("item has already been moderated")

	ErrProposalNotFound     = errors.New("proposal not found")
	ErrSelfProposal         = errors.New("cannot open a proposal for your own item")
	ErrOfferedNotOwned      = errors.New("offered item does not belong to you")
	ErrOfferedItemRequired  = errors.New("swap proposals require an offered item")
	ErrOfferedItemForbidden = errors.New("redeem proposals must not include an offered item")
	ErrProposalResolved     = errors.New("proposal has already been resolved")
	ErrStaleProposal        = errors.New("proposal is stale: item or balance changed, proposal rejected")
	ErrNotRequester         = errors.New("only the requester may cancel a proposal")

	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInsufficientPoints = errors.New("insufficient point balance")
)

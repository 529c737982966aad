package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codedpool/ReWear-Odoo/internal/service"
)

// respondError maps service sentinel errors onto the HTTP taxonomy:
// 400 validation, 403 authorization, 404 missing, 409 concurrent conflict.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrProposalNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotItemOwner),
		errors.Is(err, service.ErrSelfProposal),
		errors.Is(err, service.ErrNotRequester),
		errors.Is(err, service.ErrOfferedNotOwned):
		return http.StatusForbidden
	case errors.Is(err, service.ErrItemUnavailable),
		errors.Is(err, service.ErrItemNotApproved),
		errors.Is(err, service.ErrNoStateChange),
		errors.Is(err, service.ErrAlreadyModerated),
		errors.Is(err, service.ErrProposalResolved),
		errors.Is(err, service.ErrStaleProposal),
		errors.Is(err, service.ErrInsufficientPoints),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrOfferedItemRequired),
		errors.Is(err, service.ErrOfferedItemForbidden):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// currentUser reads the identity that AuthRequired stored in the context.
func currentUser(c *gin.Context) uuid.UUID {
	return c.MustGet("user_id").(uuid.UUID)
}

func isAdmin(c *gin.Context) bool {
	v, ok := c.Get("is_admin")
	return ok && v.(bool)
}

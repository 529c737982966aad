package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	entity "github.com/codedpool/ReWear-Odoo/internal/domain"
	"github.com/codedpool/ReWear-Odoo/internal/service"
)

type AdminHandler struct {
	moderationService *service.ModerationService
	authService       *service.AuthService
	ledgerService     *service.LedgerService
}

func NewAdminHandler(moderationService *service.ModerationService, authService *service.AuthService, ledgerService *service.LedgerService) *AdminHandler {
	return &AdminHandler{
		moderationService: moderationService,
		authService:       authService,
		ledgerService:     ledgerService,
	}
}

// @Summary      List items awaiting moderation
// @Tags         Admin
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {array}   entity.Item
// @Router       /admin/items/pending [get]
func (h *AdminHandler) ListPendingItems(c *gin.Context) {
	items, err := h.moderationService.ListPending()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *AdminHandler) ApproveItem(c *gin.Context) {
	h.moderate(c, h.moderationService.Approve)
}

func (h *AdminHandler) RejectItem(c *gin.Context) {
	h.moderate(c, h.moderationService.Reject)
}

func (h *AdminHandler) moderate(c *gin.Context, decide func(adminID, itemID uuid.UUID) (*entity.Item, error)) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id format"})
		return
	}

	item, err := decide(currentUser(c), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// @Summary      Remove an item
// @Description  Hard delete. Pending proposals referencing the item are
// @Description  rejected in the same transaction.
// @Tags         Admin
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Item ID"
// @Success      204
// @Failure      404  {object}  map[string]interface{}
// @Router       /admin/items/{id} [delete]
func (h *AdminHandler) RemoveItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id format"})
		return
	}

	if err := h.moderationService.Remove(currentUser(c), itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// AdjustPoints credits (positive amount) or debits (negative amount) a
// user's balance through the ledger.
func (h *AdminHandler) AdjustPoints(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id format"})
		return
	}

	var input entity.AdjustPointsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input body", "detail": err.Error()})
		return
	}

	if input.Amount > 0 {
		err = h.ledgerService.Credit(userID, input.Amount)
	} else {
		err = h.ledgerService.Debit(userID, -input.Amount)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	balance, err := h.ledgerService.Balance(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID, "points": balance})
}

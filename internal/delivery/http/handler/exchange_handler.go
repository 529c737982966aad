package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	entity "github.com/codedpool/ReWear-Odoo/internal/domain"
	"github.com/codedpool/ReWear-Odoo/internal/service"
)

type ExchangeHandler struct {
	exchangeService *service.ExchangeService
}

func NewExchangeHandler(exchangeService *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeService: exchangeService}
}

// @Summary      Open a proposal
// @Description  Proposes a swap (item for item) or a point redemption for a
// @Description  target item. Nothing is reserved until the owner accepts.
// @Tags         Swaps
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Success      201  {object}  entity.SwapProposal
// @Failure      400  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /swaps [post]
func (h *ExchangeHandler) CreateProposal(c *gin.Context) {
	var input entity.CreateProposalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input body", "detail": err.Error()})
		return
	}

	proposal, err := h.exchangeService.Propose(currentUser(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"proposal": proposal})
}

// @Summary      Resolve a proposal
// @Description  The target item's owner accepts or rejects a pending
// @Description  proposal. Acceptance settles atomically; a stale proposal is
// @Description  rejected instead and reported as a conflict.
// @Tags         Swaps
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Proposal ID"
// @Success      200  {object}  entity.SwapProposal
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /swaps/{id} [patch]
func (h *ExchangeHandler) ResolveProposal(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id format"})
		return
	}

	var input entity.ResolveProposalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input body", "detail": err.Error()})
		return
	}

	proposal, err := h.exchangeService.Resolve(currentUser(c), proposalID, input.Decision)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposal": proposal})
}

func (h *ExchangeHandler) CancelProposal(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id format"})
		return
	}

	proposal, err := h.exchangeService.Cancel(currentUser(c), proposalID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposal": proposal})
}

func (h *ExchangeHandler) ListOutgoing(c *gin.Context) {
	proposals, err := h.exchangeService.ListOutgoing(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": proposals})
}

func (h *ExchangeHandler) ListIncoming(c *gin.Context) {
	proposals, err := h.exchangeService.ListIncoming(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": proposals})
}

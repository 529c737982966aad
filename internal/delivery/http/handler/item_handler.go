package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	entity "github.com/codedpool/ReWear-Odoo/internal/domain"
	"github.com/codedpool/ReWear-Odoo/internal/service"
)

type ItemHandler struct {
	itemService *service.ItemService
}

func NewItemHandler(itemService *service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// @Summary      List a new garment
// @Description  Creates a listing in the moderation queue. The item becomes
// @Description  publicly visible once an admin approves it.
// @Tags         Items
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Success      201  {object}  entity.Item
// @Failure      400  {object}  map[string]interface{}
// @Router       /items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var input entity.CreateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input body", "detail": err.Error()})
		return
	}

	item, err := h.itemService.CreateItem(currentUser(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// ListCatalog is the public browse endpoint: approved, available items only.
func (h *ItemHandler) ListCatalog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := entity.ItemFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    limit,
		Offset:   offset,
	}

	items, err := h.itemService.ListCatalog(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id format"})
		return
	}

	// Anonymous viewers get uuid.Nil: they only ever see approved items.
	viewerID := uuid.Nil
	admin := false
	if v, ok := c.Get("user_id"); ok {
		viewerID = v.(uuid.UUID)
		admin = isAdmin(c)
	}

	item, err := h.itemService.GetItem(viewerID, admin, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *ItemHandler) ListMine(c *gin.Context) {
	items, err := h.itemService.ListMine(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Withdraw takes the caller's item out of the open pool.
func (h *ItemHandler) Withdraw(c *gin.Context) {
	h.setAvailability(c, false)
}

// Relist puts the caller's approved item back into the open pool.
func (h *ItemHandler) Relist(c *gin.Context) {
	h.setAvailability(c, true)
}

func (h *ItemHandler) setAvailability(c *gin.Context, available bool) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id format"})
		return
	}

	var item *entity.Item
	if available {
		item, err = h.itemService.Relist(currentUser(c), itemID)
	} else {
		item, err = h.itemService.Withdraw(currentUser(c), itemID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

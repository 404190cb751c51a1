package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kutbudev/todolists/internal/models"
)

// CreateItemInput DTO for creating a new item
type CreateItemInput struct {
	ListID   int             `json:"listId"`
	Title    string          `json:"title"`
	Priority models.Priority `json:"priority"`
	Color    models.Color    `json:"color"`
}

// UpdateItemInput DTO for the inline title and done fields
type UpdateItemInput struct {
	ID    *int   `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// UpdateItemDetailsInput DTO for the details editor
type UpdateItemDetailsInput struct {
	ID       *int            `json:"id"`
	ListID   int             `json:"listId"`
	Priority models.Priority `json:"priority"`
	Color    models.Color    `json:"color"`
	Tags     string          `json:"tags"`
	Note     string          `json:"note"`
}

// CreateItem creates an item and answers with its id.
func (h *Handler) CreateItem(c *gin.Context) {
	var input CreateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.Store.CreateItem(c.Request.Context(), input.ListID, input.Title, input.Priority, input.Color)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, id)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var input UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !checkBodyID(c, id, input.ID) {
		return
	}

	if err := h.Store.UpdateItem(c.Request.Context(), id, input.Title, input.Done); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UpdateItemDetails(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var input UpdateItemDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !checkBodyID(c, id, input.ID) {
		return
	}

	d := models.ItemDetails{
		ListID:   input.ListID,
		Priority: input.Priority,
		Color:    input.Color,
		Tags:     input.Tags,
		Note:     input.Note,
	}
	if err := h.Store.UpdateItemDetails(c.Request.Context(), id, d); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SoftDeleteItem flags an item as deleted; it is still returned by the list endpoint.
func (h *Handler) SoftDeleteItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Store.SoftDeleteItem(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteItem(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

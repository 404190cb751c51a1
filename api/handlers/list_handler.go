package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateListInput DTO for creating a new list
type CreateListInput struct {
	Title string `json:"title"`
}

// UpdateListInput DTO for renaming a list
type UpdateListInput struct {
	ID    *int   `json:"id"`
	Title string `json:"title"`
}

// ListTodoLists returns every list with its items and the lookup tables.
func (h *Handler) ListTodoLists(c *gin.Context) {
	snap, err := h.Store.LoadAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// CreateList creates a list and answers with its id.
func (h *Handler) CreateList(c *gin.Context) {
	var input CreateListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.Store.CreateList(c.Request.Context(), input.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, id)
}

func (h *Handler) UpdateList(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var input UpdateListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !checkBodyID(c, id, input.ID) {
		return
	}

	if err := h.Store.UpdateList(c.Request.Context(), id, input.Title); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteList deletes a list together with its items.
func (h *Handler) DeleteList(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteList(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

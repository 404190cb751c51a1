// Package api wires the todolists HTTP routes onto gin.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kutbudev/todolists/api/handlers"
	"github.com/kutbudev/todolists/internal/store"
)

// NewRouter returns a gin engine with logging, recovery and every route.
func NewRouter(s store.Store) *gin.Engine {
	r := gin.Default()
	Register(r, s)
	return r
}

// Register mounts the routes on r.
func Register(r gin.IRouter, s store.Store) {
	h := handlers.New(s)

	// Ping endpoint for health check
	r.GET("/ping", func(c *gin.Context) {
		if err := s.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	v := r.Group("/api")
	{
		v.GET("/TodoLists", h.ListTodoLists)
		v.POST("/TodoLists", h.CreateList)
		v.PUT("/TodoLists/:id", h.UpdateList)
		v.DELETE("/TodoLists/:id", h.DeleteList)

		v.POST("/TodoItems", h.CreateItem)
		v.PUT("/TodoItems/:id", h.UpdateItem)
		v.PUT("/TodoItems/:id/details", h.UpdateItemDetails)
		v.PUT("/TodoItems/:id/soft-delete", h.SoftDeleteItem)
		v.DELETE("/TodoItems/:id", h.DeleteItem)
	}
}

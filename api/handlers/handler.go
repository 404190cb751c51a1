package handlers

import "github.com/kutbudev/todolists/internal/store"

// Handler serves the todolists API from a Store.
type Handler struct {
	Store store.Store
}

func New(s store.Store) *Handler {
	return &Handler{Store: s}
}

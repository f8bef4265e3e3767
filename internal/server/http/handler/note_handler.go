package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/parleychat/authcore/internal/server/http/middleware"
	"github.com/parleychat/authcore/internal/server/services"
	"github.com/parleychat/authcore/internal/server/wire"
)

// NoteHandler serves the caller's annotations on other users.
type NoteHandler struct {
	Notes *services.NoteService
}

func NewNoteHandler(notes *services.NoteService) *NoteHandler {
	return &NoteHandler{Notes: notes}
}

// List returns every note the caller has written.
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.Notes.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]map[string]any, 0, len(notes))
	for i := range notes {
		out = append(out, wire.Normalize(notes[i].Record()))
	}
	c.JSON(http.StatusOK, gin.H{"notes": out})
}

// Get returns the caller's note on one target user.
func (h *NoteHandler) Get(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	note, err := h.Notes.Get(c.Request.Context(), middleware.UserID(c), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, wire.Normalize(note.Record()))
}

// Put creates or replaces the caller's note on the target user.
func (h *NoteHandler) Put(c *gin.Context) {
	var req struct {
		UserID  int64  `json:"user_id,string" binding:"required"`
		Content string `json:"content" binding:"required,max=256"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Notes.Put(c.Request.Context(), middleware.UserID(c), req.UserID, req.Content); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashokgiriii/tweet-nepal/config"
	"github.com/ashokgiriii/tweet-nepal/models"
	"github.com/ashokgiriii/tweet-nepal/repos"
	"github.com/ashokgiriii/tweet-nepal/utils"
)

// NoteController manages the ephemeral one-per-user notes.
type NoteController struct {
	notes repos.NoteRepo
}

// NewNoteController creates a new NoteController instance.
func NewNoteController(notes repos.NoteRepo) *NoteController {
	return &NoteController{notes: notes}
}

// ShareNote creates or replaces the caller's note. Replacing a live note
// keeps its original expiry, so the 24 hour window cannot be extended by
// re-sharing.
func (n *NoteController) ShareNote(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Body string `form:"note" json:"note"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "note cannot be empty")
		return
	}
	if len(strings.Fields(body)) > models.NoteMaxWords {
		utils.Error(ctx, http.StatusBadRequest, 40042, "note cannot exceed 20 words")
		return
	}

	ttl := time.Duration(config.Get().NoteTTLHours) * time.Hour
	note, err := n.notes.Share(userID, utils.Sanitize(body), ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to share note")
		return
	}

	utils.Success(ctx, gin.H{"note": note})
}

// DeleteNote removes a note ahead of its expiry. Deleting an already absent
// note succeeds, since expiry may have raced the request.
func (n *NoteController) DeleteNote(ctx *gin.Context) {
	if _, ok := currentUserID(ctx); !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	id, ok := uintParam(ctx, "noteId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40043, "invalid note id")
		return
	}

	if err := n.notes.DeleteByID(id); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to delete note")
		return
	}

	ctx.Status(http.StatusNoContent)
}

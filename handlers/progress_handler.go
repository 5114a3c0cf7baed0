package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"museumCompanionAPI/middleware"
	"museumCompanionAPI/services"
)

type ProgressHandler struct {
	progressService *services.ProgressService
}

func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
	}
}

func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	progress, err := h.progressService.ProgressRatio(ctx, userID)
	if err != nil {
		log.Printf("GetProgress Handler: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to compute progress")
		return
	}

	respondWithJSON(w, http.StatusOK, progress)
}

package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"museumCompanionAPI/middleware"
	"museumCompanionAPI/services"
)

type AchievementHandler struct {
	achievementService *services.AchievementService
}

func NewAchievementHandler(achievementService *services.AchievementService) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
	}
}

// GetAchievements returns the user's full album: every configured
// achievement, locked entries included.
func (h *AchievementHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	album, err := h.achievementService.GetUserAlbum(ctx, userID)
	if err != nil {
		log.Printf("GetAchievements Handler: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load achievements")
		return
	}

	respondWithJSON(w, http.StatusOK, album)
}

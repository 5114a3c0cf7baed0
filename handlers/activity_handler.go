package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"museumCompanionAPI/internal/docstore"
	"museumCompanionAPI/internal/zones"
	"museumCompanionAPI/services"
)

const defaultRandomCount = 5

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

func (h *ActivityHandler) GetRandomActivities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count := defaultRandomCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "count must be a positive integer")
			return
		}
		count = parsed
	}

	activities, err := h.activityService.GetRandomActivities(ctx, count)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch activities")
		return
	}

	respondWithJSON(w, http.StatusOK, activities)
}

func (h *ActivityHandler) GetActivityByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := mux.Vars(r)["id"]

	act, err := h.activityService.GetActivityByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Activity not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch activity")
		return
	}

	respondWithJSON(w, http.StatusOK, act)
}

func (h *ActivityHandler) GetZones(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, zones.All())
}

func (h *ActivityHandler) GetActivitiesByZone(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	zoneID := mux.Vars(r)["zoneId"]

	activities, err := h.activityService.GetActivitiesByZone(ctx, zoneID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch activities")
		return
	}

	respondWithJSON(w, http.StatusOK, activities)
}

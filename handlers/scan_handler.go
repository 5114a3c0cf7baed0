package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"museumCompanionAPI/middleware"
	"museumCompanionAPI/services"
)

type ScanHandler struct {
	scanService *services.ScanService
}

func NewScanHandler(scanService *services.ScanService) *ScanHandler {
	return &ScanHandler{
		scanService: scanService,
	}
}

// ProcessScan registers a scanned QR code for the authenticated user and
// reports the terminal outcome. The payload is required but not interpreted;
// activity selection is random among the user's remaining activities.
func (h *ScanHandler) ProcessScan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var body struct {
		QRContent string `json:"qrContent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.QRContent == "" {
		respondWithError(w, http.StatusBadRequest, "qrContent is required")
		return
	}

	result, err := h.scanService.ProcessScan(ctx, body.QRContent, userID)
	if err != nil {
		log.Printf("ProcessScan Handler: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Could not complete scan, try again")
		return
	}

	middleware.RecordScanOutcome(string(result.Status))
	respondWithJSON(w, http.StatusOK, result)
}

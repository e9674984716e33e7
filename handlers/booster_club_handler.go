package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"boosterClubAPI/services"

	"go.uber.org/zap"
)

type BoosterClubHandler struct {
	paymentService *services.PaymentSettingsService
	logger         *zap.SugaredLogger
}

func NewBoosterClubHandler(paymentService *services.PaymentSettingsService, logger *zap.SugaredLogger) *BoosterClubHandler {
	return &BoosterClubHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

func (h *BoosterClubHandler) GetBoosterClub(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	raw := r.URL.Query().Get("id")
	if raw == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'id' is required")
		return
	}
	clubID, ok := parseClubID(raw)
	if !ok {
		respondWithError(w, http.StatusNotFound, clubNotFound)
		return
	}

	record, err := h.paymentService.GetClub(ctx, clubID)
	if err != nil {
		respondWithServiceError(w, h.logger, "get booster club", err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// GetQRCode streams the club's Zelle QR code as a PNG. The image tracks the
// club's current settings, so it must never be cached.
func (h *BoosterClubHandler) GetQRCode(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	raw := r.URL.Query().Get("clubId")
	if raw == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'clubId' is required")
		return
	}
	clubID, ok := parseClubID(raw)
	if !ok {
		respondWithError(w, http.StatusNotFound, clubNotFound)
		return
	}

	png, err := h.paymentService.GenerateQR(ctx, clubID)
	if err != nil {
		respondWithServiceError(w, h.logger, "generate qr code", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"boosterClubAPI/internal/club"
	"boosterClubAPI/middleware"
	"boosterClubAPI/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AdminHandler struct {
	paymentService *services.PaymentSettingsService
	logger         *zap.SugaredLogger
}

func NewAdminHandler(paymentService *services.PaymentSettingsService, logger *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

func (h *AdminHandler) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, err := h.paymentService.PaymentStatus(ctx)
	if err != nil {
		respondWithServiceError(w, h.logger, "payment status", err)
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

func (h *AdminHandler) ListClubs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clubs, err := h.paymentService.ListClubs(ctx)
	if err != nil {
		respondWithServiceError(w, h.logger, "list clubs", err)
		return
	}

	respondWithJSON(w, http.StatusOK, clubs)
}

func (h *AdminHandler) GetPaymentSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clubID, ok := parseClubID(mux.Vars(r)["id"])
	if !ok {
		respondWithError(w, http.StatusNotFound, clubNotFound)
		return
	}

	view, err := h.paymentService.GetPaymentConfig(ctx, clubID)
	if err != nil {
		respondWithServiceError(w, h.logger, "get payment settings", err)
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

func (h *AdminHandler) UpdatePaymentSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	actor, ok := middleware.GetActor(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Admin not authenticated")
		return
	}

	clubID, ok := parseClubID(mux.Vars(r)["id"])
	if !ok {
		respondWithError(w, http.StatusNotFound, clubNotFound)
		return
	}

	var req club.UpdatePaymentSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := h.paymentService.UpdatePaymentSettings(ctx, clubID, actor, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, "update payment settings", err)
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

func (h *AdminHandler) ListPaymentAudit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clubID, ok := parseClubID(mux.Vars(r)["id"])
	if !ok {
		respondWithError(w, http.StatusNotFound, clubNotFound)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'limit' must be a number")
			return
		}
		limit = n
	}

	entries, err := h.paymentService.ListPaymentAudit(ctx, clubID, limit)
	if err != nil {
		respondWithServiceError(w, h.logger, "list payment audit", err)
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

func (h *AdminHandler) BuildPaymentLink(w http.ResponseWriter, r *http.Request) {
	var req club.BuildPaymentLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	link, err := h.paymentService.BuildZelleLink(&req)
	if err != nil {
		respondWithServiceError(w, h.logger, "build payment link", err)
		return
	}

	respondWithJSON(w, http.StatusOK, link)
}

func (h *AdminHandler) DecodePaymentLink(w http.ResponseWriter, r *http.Request) {
	var req club.DecodePaymentLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	link, err := h.paymentService.DecodeZelleLink(&req)
	if err != nil {
		respondWithServiceError(w, h.logger, "decode payment link", err)
		return
	}

	respondWithJSON(w, http.StatusOK, link)
}

package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/SydAsim/Visaguardai-Upwork/internal/services"
)

// AnalysisHandler handles HTTP requests for running and fetching risk
// analyses.
type AnalysisHandler struct {
	accounts services.AccountServiceProvider
	analysis services.AnalysisServiceProvider
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(accounts services.AccountServiceProvider, analysis services.AnalysisServiceProvider) *AnalysisHandler {
	return &AnalysisHandler{accounts: accounts, analysis: analysis}
}

// Run generates a fresh report for the current user and caches it on the
// record.
func (h *AnalysisHandler) Run(w http.ResponseWriter, r *http.Request) {
	if _, err := resolveSessionUser(h.accounts, r); err != nil {
		respondError(w, err)
		return
	}

	snapshot, err := h.analysis.RunAnalysis()
	if err != nil {
		log.Warn().Err(err).Msg("Analysis run failed")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, snapshot)
}

// Latest returns the cached snapshot from the most recent run.
func (h *AnalysisHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if _, err := resolveSessionUser(h.accounts, r); err != nil {
		respondError(w, err)
		return
	}

	snapshot, err := h.analysis.LatestReport()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

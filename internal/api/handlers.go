package api

import (
	"net/http"
	"strconv"
	"time"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/storage"
)

// Default and maximum page sizes for list endpoints.
const (
	defaultTradesLimit = 50
	defaultScansLimit  = 20
	maxListLimit       = 500
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// BalanceResponse is the JSON shape of the balance endpoints.
type BalanceResponse struct {
	Balance float64 `json:"balance"`
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.balances.Get(r.Context())
	if err != nil {
		s.logger.Errorw("get balance failed", "error", err)
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, BalanceResponse{Balance: balance})
}

// DepositRequest tops up the simulated balance.
type DepositRequest struct {
	Amount float64 `json:"amount"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid JSON body")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "amount must be positive")
		return
	}

	balance, err := s.balances.Adjust(r.Context(), req.Amount)
	if err != nil {
		s.logger.Errorw("deposit failed", "amount", req.Amount, "error", err)
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, BalanceResponse{Balance: balance})
}

func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.positions.List(r.Context())
	if err != nil {
		s.logger.Errorw("list positions failed", "error", err)
		respondStoreError(w, err)
		return
	}
	if positions == nil {
		positions = []*domain.Position{}
	}
	respondJSON(w, http.StatusOK, positions)
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, defaultTradesLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
		return
	}

	trades, err := s.trades.ListRecent(r.Context(), limit)
	if err != nil {
		s.logger.Errorw("list trades failed", "error", err)
		respondStoreError(w, err)
		return
	}
	if trades == nil {
		trades = []*domain.TradeRecord{}
	}
	respondJSON(w, http.StatusOK, trades)
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, defaultScansLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
		return
	}

	scans, err := s.scans.ListRecent(r.Context(), limit)
	if err != nil {
		s.logger.Errorw("list scans failed", "error", err)
		respondStoreError(w, err)
		return
	}
	if scans == nil {
		scans = []*domain.ScanEntry{}
	}
	respondJSON(w, http.StatusOK, scans)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		s.logger.Errorw("get settings failed", "error", err)
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := parseJSONBody(r, &settings); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid JSON body")
		return
	}
	if err := storage.ValidateSettings(settings); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
		return
	}

	if err := s.settings.Update(r.Context(), settings); err != nil {
		s.logger.Errorw("update settings failed", "error", err)
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// StatusResponse is the JSON response for the status endpoint.
type StatusResponse struct {
	Status         string  `json:"status"`
	ScannerRunning bool    `json:"scanner_running"`
	Balance        float64 `json:"balance"`
	OpenPositions  int     `json:"open_positions"`
	FeedClients    int     `json:"feed_clients"`
	Uptime         string  `json:"uptime"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	balance, err := s.balances.Get(r.Context())
	if err != nil {
		s.logger.Errorw("get balance failed", "error", err)
		respondStoreError(w, err)
		return
	}
	positions, err := s.positions.List(r.Context())
	if err != nil {
		s.logger.Errorw("list positions failed", "error", err)
		respondStoreError(w, err)
		return
	}

	resp := StatusResponse{
		Status:         "running",
		ScannerRunning: s.scanner != nil && s.scanner.Running(),
		Balance:        balance,
		OpenPositions:  len(positions),
		Uptime:         time.Since(s.started).String(),
	}
	if s.hub != nil {
		resp.FeedClients = s.hub.ClientCount()
	}
	respondJSON(w, http.StatusOK, resp)
}

// ScannerStateResponse reports the loop state after a control call.
type ScannerStateResponse struct {
	Running bool `json:"running"`
}

func (s *Server) handleScannerStart(w http.ResponseWriter, r *http.Request) {
	if s.scanner == nil {
		respondError(w, http.StatusConflict, ErrCodeConflict, "no scanner configured")
		return
	}
	if err := s.scanner.Start(s.baseCtx); err != nil {
		respondError(w, http.StatusConflict, ErrCodeConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, ScannerStateResponse{Running: true})
}

func (s *Server) handleScannerStop(w http.ResponseWriter, r *http.Request) {
	if s.scanner == nil {
		respondError(w, http.StatusConflict, ErrCodeConflict, "no scanner configured")
		return
	}
	s.scanner.Stop()
	respondJSON(w, http.StatusOK, ScannerStateResponse{Running: false})
}

// parseLimit reads the optional ?limit query parameter.
func parseLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, errLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit, nil
}

var errLimit = &limitError{}

type limitError struct{}

func (e *limitError) Error() string { return "limit must be a positive integer" }

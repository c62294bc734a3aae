package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wavebreak/wavebreak-site/internal/api/request"
	"github.com/wavebreak/wavebreak-site/internal/api/response"
	"github.com/wavebreak/wavebreak-site/internal/model"
	"github.com/wavebreak/wavebreak-site/internal/services/verification"
	"github.com/wavebreak/wavebreak-site/internal/session"
)

// VerificationHandler handles the code issue and redeem endpoints
type VerificationHandler struct {
	verificationService *verification.Service
	sessionCodec        *session.Codec
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(verificationService *verification.Service, sessionCodec *session.Codec) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
		sessionCodec:        sessionCodec,
	}
}

// Issue handles POST /api/verification
// The game client calls this with its player id and shows the returned
// code to the player.
func (h *VerificationHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req request.IssueCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("playerId is required"))
		return
	}

	code, err := h.verificationService.Issue(r.Context(), model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.IssueCodeResponse{Code: code})
}

// Redeem handles POST /api/verify
// A successful redemption sets the player_session cookie.
func (h *VerificationHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req request.RedeemCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Code == "" {
		WriteError(w, NewInvalidRequestError("code is required"))
		return
	}

	sess, err := h.verificationService.Redeem(r.Context(), req.Code)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.sessionCodec.SetCookie(w, sess); err != nil {
		WriteError(w, NewInternalError())
		return
	}

	response.JSON(w, http.StatusOK, response.RedeemCodeResponse{
		Success:  true,
		PlayerID: string(sess.PlayerID),
	})
}

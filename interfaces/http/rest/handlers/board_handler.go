package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"boardcore/application/ports"
	"boardcore/application/services"
	"boardcore/pkg/common"
	pkgerrors "boardcore/pkg/errors"
	"boardcore/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BoardHandler handles board-related HTTP requests
type BoardHandler struct {
	boardService *services.BoardService
	logger       *zap.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardService *services.BoardService, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		logger:       logger,
	}
}

// CreateBoardRequest represents the request body for creating a board
type CreateBoardRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// UpdateBoardRequest is the full board document sent by the client. Unknown
// fields are rejected rather than silently dropped.
type UpdateBoardRequest struct {
	Title       string             `json:"title" validate:"required,min=1,max=200"`
	Description string             `json:"description,omitempty" validate:"omitempty,max=1000"`
	Cards       []ports.CardRecord `json:"cards"`
	Edges       []ports.EdgeRecord `json:"edges"`
}

// ListBoards handles GET /boards
func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	records, err := h.boardService.ListBoards(r.Context(), userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, records)
}

// CreateBoard handles POST /boards
func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req CreateBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	record, err := h.boardService.CreateBoard(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		h.respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, record)
}

// GetBoard handles GET /boards/{boardID}
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}
	boardID := chi.URLParam(r, "boardID")

	record, err := h.boardService.GetBoard(r.Context(), boardID, userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, record)
}

// UpdateBoard handles PUT /boards/{boardID}
func (h *BoardHandler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}
	boardID := chi.URLParam(r, "boardID")

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	var req UpdateBoardRequest
	if err := decoder.Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	record := &ports.BoardRecord{
		ID:          boardID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Cards:       req.Cards,
		Edges:       req.Edges,
	}

	stored, err := h.boardService.UpdateBoard(r.Context(), boardID, userID, record)
	if err != nil {
		h.respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, stored)
}

// DeleteBoard handles DELETE /boards/{boardID}
func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.GetUserID(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}
	boardID := chi.URLParam(r, "boardID")

	if err := h.boardService.DeleteBoard(r.Context(), boardID, userID); err != nil {
		h.respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Board deleted"})
}

// GetLinkMetadata handles GET /link-metadata?url=
func (h *BoardHandler) GetLinkMetadata(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		common.RespondError(w, http.StatusBadRequest, "BAD_REQUEST", "URL parameter is required")
		return
	}

	meta, err := h.boardService.FetchLinkMetadata(r.Context(), url)
	if err != nil {
		h.respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, meta)
}

// respondError maps application errors onto HTTP responses
func (h *BoardHandler) respondError(w http.ResponseWriter, err error) {
	var appErr *pkgerrors.AppError
	if errors.As(err, &appErr) {
		common.RespondError(w, appErr.HTTPStatus, string(appErr.Type), appErr.Message)
		return
	}

	h.logger.Error("unhandled error", zap.Error(err))
	common.RespondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
}

package services

import (
	"context"
	"time"

	"boardcore/application/ports"
	"boardcore/domain/config"
	"boardcore/domain/core/aggregates"
	pkgerrors "boardcore/pkg/errors"

	"go.uber.org/zap"
)

// BoardService provides board document CRUD for the REST surface. The live
// canvas session is owned by the canvas controller; this service handles the
// before-and-after: creating boards, listing them, and tearing them down.
type BoardService struct {
	repo    ports.BoardRepository
	cache   ports.LocalCache
	fetcher ports.LinkMetadataFetcher
	cfg     *config.DomainConfig
	logger  *zap.Logger
}

// NewBoardService creates a new board service
func NewBoardService(
	repo ports.BoardRepository,
	cache ports.LocalCache,
	fetcher ports.LinkMetadataFetcher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *BoardService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &BoardService{
		repo:    repo,
		cache:   cache,
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// CreateBoard creates an empty board owned by the user
func (s *BoardService) CreateBoard(ctx context.Context, userID, title, description string) (*ports.BoardRecord, error) {
	if len(title) > s.cfg.MaxTitleLength {
		return nil, pkgerrors.NewValidationError("board title exceeds maximum length")
	}

	board, err := aggregates.NewBoard(userID, title, description, s.cfg)
	if err != nil {
		return nil, err
	}

	record := ports.EncodeSnapshot(board.Snapshot())
	stored, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create board")
	}

	s.logger.Info("board created",
		zap.String("boardID", stored.ID),
		zap.String("userID", userID),
	)
	return stored, nil
}

// GetBoard fetches a board document for its owner
func (s *BoardService) GetBoard(ctx context.Context, boardID, userID string) (*ports.BoardRecord, error) {
	return s.repo.Get(ctx, boardID, userID)
}

// ListBoards returns every board owned by the user
func (s *BoardService) ListBoards(ctx context.Context, userID string) ([]*ports.BoardRecord, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateBoard replaces the full board document. The stored representation is
// returned so callers can adopt the server's updatedAt.
func (s *BoardService) UpdateBoard(ctx context.Context, boardID, userID string, record *ports.BoardRecord) (*ports.BoardRecord, error) {
	// Round-trip through the aggregate so a malformed document never reaches
	// the repository. The aggregate's re-encoded form is what gets stored:
	// decode drops edges whose endpoints are missing, and persisting the
	// incoming record as-is would let those dangling edges through.
	record.ID = boardID
	record.UserID = userID
	board, err := ports.DecodeBoard(record, s.cfg)
	if err != nil {
		return nil, err
	}
	if err := board.Validate(); err != nil {
		return nil, err
	}

	return s.repo.Put(ctx, boardID, userID, ports.EncodeSnapshot(board.Snapshot()))
}

// DeleteBoard removes a board from both persistence tiers
func (s *BoardService) DeleteBoard(ctx context.Context, boardID, userID string) error {
	if err := s.repo.Delete(ctx, boardID, userID); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, "board:snapshot:"+boardID); err != nil {
			// Cache eviction is best effort; the remote delete already stuck.
			s.logger.Warn("failed to evict board snapshot from cache",
				zap.String("boardID", boardID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("board deleted",
		zap.String("boardID", boardID),
		zap.String("userID", userID),
	)
	return nil
}

// FetchLinkMetadata resolves a preview for a link card's URL, bounded by the
// configured timeout. Errors surface to the caller; the card falls back to
// showing the raw URL.
func (s *BoardService) FetchLinkMetadata(ctx context.Context, url string) (*ports.LinkMetadata, error) {
	if s.fetcher == nil {
		return nil, pkgerrors.NewInternalError("link metadata fetcher not configured")
	}
	if url == "" {
		return nil, pkgerrors.NewValidationError("url required")
	}

	timeout := s.cfg.MetadataFetchTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	meta, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, pkgerrors.NewExternalError("failed to fetch link metadata", err)
	}
	return meta, nil
}

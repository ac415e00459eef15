// Package service implements the domain logic sitting between the HTTP
// layer / import pipeline and the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adamaq01/Tachi/internal/domain"
	"github.com/Adamaq01/Tachi/internal/id"
	"github.com/Adamaq01/Tachi/internal/importing"
	"github.com/Adamaq01/Tachi/internal/store"
)

// SessionService groups imported scores into play sessions. Scores
// landing within the configured gap of the user's last session for the
// same game:playtype extend it; anything later starts a new session.
type SessionService struct {
	store  *store.Store
	gap    time.Duration
	logger *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(store *store.Store, gap time.Duration, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:  store,
		gap:    gap,
		logger: logger,
	}
}

// BuildSessions materializes sessions for every playtype group of an
// import, preserving group order so session chronology matches input
// order.
func (s *SessionService) BuildSessions(ctx context.Context, userID string, _ domain.ImportType, game domain.Game, groups *importing.PlaytypeGroups, log *slog.Logger) ([]domain.SessionInfoReturn, error) {
	results := []domain.SessionInfoReturn{}

	for _, playtype := range groups.Playtypes() {
		info, err := s.buildForPlaytype(ctx, userID, game, playtype, groups.Scores(playtype), log)
		if err != nil {
			return nil, fmt.Errorf("build sessions for %s: %w", domain.FormatGPT(game, playtype), err)
		}
		results = append(results, info...)
	}

	return results, nil
}

func (s *SessionService) buildForPlaytype(ctx context.Context, userID string, game domain.Game, playtype domain.Playtype, scores []*domain.ScoreDocument, log *slog.Logger) ([]domain.SessionInfoReturn, error) {
	if len(scores) == 0 {
		return nil, nil
	}

	current, err := s.store.GetLastSession(ctx, userID, game, playtype)
	if err != nil && !errors.Is(err, store.ErrSessionNotFound) {
		return nil, err
	}

	var touched []string // session IDs in the order this import touched them
	added := map[string]int{}
	created := map[string]bool{}

	now := time.Now().UnixMilli()
	for _, score := range scores {
		at := score.TimeAchieved
		if at == 0 {
			// Untimed scores are treated as achieved at import time.
			at = now
		}

		if current == nil || at-current.TimeEnded > s.gap.Milliseconds() || at < current.TimeStarted {
			current = &domain.SessionDocument{
				SessionID:   id.MustGenerate(id.PrefixSession),
				UserID:      userID,
				Game:        game,
				Playtype:    playtype,
				Name:        fmt.Sprintf("%s Session %s", domain.FormatGPT(game, playtype), time.UnixMilli(at).Format("2006-01-02")),
				TimeStarted: at,
				TimeEnded:   at,
			}
			created[current.SessionID] = true
		}

		current.ScoreIDs = append(current.ScoreIDs, score.ScoreID)
		if at > current.TimeEnded {
			current.TimeEnded = at
		}
		if added[current.SessionID] == 0 {
			touched = append(touched, current.SessionID)
		}
		added[current.SessionID]++

		if err := s.store.UpsertSession(ctx, current); err != nil {
			return nil, err
		}
	}

	results := make([]domain.SessionInfoReturn, 0, len(touched))
	for _, sessionID := range touched {
		infoType := domain.SessionInfoAppended
		if created[sessionID] {
			infoType = domain.SessionInfoCreated
		}
		results = append(results, domain.SessionInfoReturn{
			SessionID:   sessionID,
			Type:        infoType,
			ScoresAdded: added[sessionID],
		})
	}

	log.Debug("built sessions",
		"game", string(game),
		"playtype", string(playtype),
		"sessions", len(results),
	)

	return results, nil
}

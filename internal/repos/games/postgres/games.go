package games

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/juanwalsh/backendtest/internal/repos/games"
)

var _ games.Games = (*gamesRepo)(nil)

type gamesRepo struct{ db *sql.DB }

func New(db *sql.DB) *gamesRepo {
	return &gamesRepo{db: db}
}

func (r *gamesRepo) GetByID(ctx context.Context, id int64) (*games.Game, error) {
	var g games.Game

	err := r.db.QueryRowContext(ctx, `
		SELECT g.id, g.name, g.provider_id, p.code, g.provider_game_id, g.is_active
		FROM games g
		JOIN game_providers p ON p.id = g.provider_id
		WHERE g.id = $1
	`, id).Scan(&g.ID, &g.Name, &g.ProviderID, &g.ProviderCode, &g.ProviderGameID, &g.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, games.ErrGameNotFound
		}

		return nil, fmt.Errorf("get game: %w", err)
	}

	return &g, nil
}

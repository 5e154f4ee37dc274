package postgres

import (
	"context"
	"fmt"

	"github.com/notifyhq/notify-api/internal/model"
	"github.com/notifyhq/notify-api/internal/repository"
)

type agentRepository struct {
	BaseRepository
}

func NewAgentRepository(base BaseRepository) repository.AgentRepository {
	return &agentRepository{base}
}

func (r *agentRepository) GetByToken(ctx context.Context, token string) (*model.Agent, error) {
	query := `SELECT * FROM agents WHERE api_token = $1`
	var agent model.Agent
	if err := r.GetDB().GetContext(ctx, &agent, query, token); err != nil {
		return nil, fmt.Errorf("failed to get agent by token: %w", err)
	}
	return &agent, nil
}

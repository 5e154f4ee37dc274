package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/notifyhq/notify-api/internal/model"
	"github.com/notifyhq/notify-api/internal/repository"
)

type clientRepository struct {
	BaseRepository
}

func NewClientRepository(base BaseRepository) repository.ClientRepository {
	return &clientRepository{base}
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	query := `
		INSERT INTO clients (id, first_name, last_name, email, phone_number)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.GetDB().ExecContext(ctx, query,
		client.ID,
		client.FirstName,
		client.LastName,
		client.Email,
		client.PhoneNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	query := `SELECT * FROM clients WHERE id = $1`
	var client model.Client
	if err := r.GetDB().GetContext(ctx, &client, query, id); err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, limit, offset int) ([]*model.Client, error) {
	query := `SELECT * FROM clients ORDER BY id LIMIT $1 OFFSET $2`
	clients := []*model.Client{}
	if err := r.GetDB().SelectContext(ctx, &clients, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	query := `
		UPDATE clients
		SET first_name = $1, last_name = $2, email = $3, phone_number = $4
		WHERE id = $5
	`
	_, err := r.GetDB().ExecContext(ctx, query,
		client.FirstName,
		client.LastName,
		client.Email,
		client.PhoneNumber,
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM clients WHERE id = $1`
	_, err := r.GetDB().ExecContext(ctx, query, id)
	return err
}

func (r *clientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM clients WHERE email = $1)`
	var exists bool
	if err := r.GetDB().GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (r *clientRepository) ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM clients WHERE phone_number = $1)`
	var exists bool
	if err := r.GetDB().GetContext(ctx, &exists, query, phone); err != nil {
		return false, fmt.Errorf("failed to check phone number: %w", err)
	}
	return exists, nil
}

// GetByIDs fetches the given clients with a single IN query. Ids with
// no matching row are simply absent from the result map.
func (r *clientRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Client, error) {
	found := make(map[uuid.UUID]*model.Client, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := `SELECT * FROM clients WHERE id = ANY($1)`
	var rows []*model.Client
	if err := r.GetDB().SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to look up client ids: %w", err)
	}

	for _, c := range rows {
		found[c.ID] = c
	}
	return found, nil
}

package client

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifyhq/notify-api/internal/model"
	"github.com/notifyhq/notify-api/pkg/apierror"
	"github.com/notifyhq/notify-api/pkg/validator"
)

type fakeClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (r *fakeClientRepo) Create(_ context.Context, c *model.Client) error {
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *fakeClientRepo) Get(_ context.Context, id uuid.UUID) (*model.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClientRepo) List(_ context.Context, limit, offset int) ([]*model.Client, error) {
	out := []*model.Client{}
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeClientRepo) Update(_ context.Context, c *model.Client) error {
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *fakeClientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.clients, id)
	return nil
}

func (r *fakeClientRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, c := range r.clients {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeClientRepo) ExistsByPhoneNumber(_ context.Context, phone string) (bool, error) {
	for _, c := range r.clients {
		if c.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeClientRepo) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Client, error) {
	found := make(map[uuid.UUID]*model.Client)
	for _, id := range ids {
		if c, ok := r.clients[id]; ok {
			found[id] = c
		}
	}
	return found, nil
}

func validCreateRequest() *model.CreateClientRequest {
	return &model.CreateClientRequest{
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john.doe@mail.com",
		PhoneNumber: "+37126081337",
	}
}

func setupService() (Service, *fakeClientRepo) {
	repo := newFakeClientRepo()
	return NewService(repo, validator.New()), repo
}

func TestCreateClient_GeneratesID(t *testing.T) {
	svc, repo := setupService()

	client, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, client.ID)
	assert.Equal(t, "John", client.FirstName)
	assert.Len(t, repo.clients, 1)
}

func TestCreateClient_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*model.CreateClientRequest)
		wantMsg   string
		wantField string
	}{
		{
			name:      "blank first name",
			mutate:    func(r *model.CreateClientRequest) { r.FirstName = "" },
			wantMsg:   model.ErrorBlank,
			wantField: "firstName",
		},
		{
			name:      "first name too short",
			mutate:    func(r *model.CreateClientRequest) { r.FirstName = "J" },
			wantMsg:   model.ErrorTooShort,
			wantField: "firstName",
		},
		{
			name:      "first name with digits",
			mutate:    func(r *model.CreateClientRequest) { r.FirstName = "John2" },
			wantMsg:   model.ErrorFirstNameLatin,
			wantField: "firstName",
		},
		{
			name:      "last name with spaces",
			mutate:    func(r *model.CreateClientRequest) { r.LastName = "van Dam" },
			wantMsg:   model.ErrorLastNameLatin,
			wantField: "lastName",
		},
		{
			name:      "bad email format",
			mutate:    func(r *model.CreateClientRequest) { r.Email = "not-an-email" },
			wantMsg:   model.ErrorEmailFormat,
			wantField: "email",
		},
		{
			name:      "bad phone format",
			mutate:    func(r *model.CreateClientRequest) { r.PhoneNumber = "abc123" },
			wantMsg:   model.ErrorPhoneNumberFormat,
			wantField: "phoneNumber",
		},
		{
			name:      "blank phone",
			mutate:    func(r *model.CreateClientRequest) { r.PhoneNumber = "" },
			wantMsg:   model.ErrorBlank,
			wantField: "phoneNumber",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := setupService()

			req := validCreateRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)

			var aerr *apierror.AppError
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, http.StatusNotAcceptable, aerr.Code)
			assert.Equal(t, tt.wantMsg, aerr.Message)
			assert.Equal(t, tt.wantField, aerr.Field)
			assert.Empty(t, repo.clients)
		})
	}
}

func TestCreateClient_DuplicateEmail(t *testing.T) {
	svc, _ := setupService()

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	second := validCreateRequest()
	second.PhoneNumber = "+37126081338"

	_, err = svc.Create(context.Background(), second)
	var aerr *apierror.AppError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, model.ErrorEmailUnique, aerr.Message)
	assert.Equal(t, "email", aerr.Field)
}

func TestCreateClient_DuplicatePhone(t *testing.T) {
	svc, _ := setupService()

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	second := validCreateRequest()
	second.Email = "jane.doe@mail.com"

	_, err = svc.Create(context.Background(), second)
	var aerr *apierror.AppError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, model.ErrorPhoneNumberUnique, aerr.Message)
	assert.Equal(t, "phoneNumber", aerr.Field)
}

func TestUpdateClient_OwnValuesIdempotent(t *testing.T) {
	svc, _ := setupService()

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	// Resubmitting the client's own email and phone must not trip the
	// uniqueness check.
	updated, err := svc.Update(context.Background(), created.ID, &model.UpdateClientRequest{
		Email:       created.Email,
		PhoneNumber: created.PhoneNumber,
	})
	require.NoError(t, err)
	assert.Equal(t, created.Email, updated.Email)
}

func TestUpdateClient_TakenEmailRejected(t *testing.T) {
	svc, _ := setupService()

	first, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	second := validCreateRequest()
	second.Email = "jane.doe@mail.com"
	second.PhoneNumber = "+37126081338"
	_, err = svc.Create(context.Background(), second)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), first.ID, &model.UpdateClientRequest{
		Email: "jane.doe@mail.com",
	})
	var aerr *apierror.AppError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, model.ErrorEmailUnique, aerr.Message)
}

func TestUpdateClient_PartialFields(t *testing.T) {
	svc, _ := setupService()

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, &model.UpdateClientRequest{
		FirstName: "Jane",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane", updated.FirstName)
	assert.Equal(t, created.LastName, updated.LastName)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.PhoneNumber, updated.PhoneNumber)
}

func TestUpdateClient_InvalidName(t *testing.T) {
	svc, _ := setupService()

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, &model.UpdateClientRequest{
		LastName: "D",
	})
	var aerr *apierror.AppError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, model.ErrorTooShort, aerr.Message)
	assert.Equal(t, "lastName", aerr.Field)
}

func TestUpdateClient_NotFound(t *testing.T) {
	svc, _ := setupService()

	_, err := svc.Update(context.Background(), uuid.New(), &model.UpdateClientRequest{FirstName: "Jane"})
	var aerr *apierror.AppError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, http.StatusNotFound, aerr.Code)
	assert.Equal(t, ErrorNotFound, aerr.Message)
}

func TestDeleteClient(t *testing.T) {
	svc, repo := setupService()

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.clients)

	err = svc.Delete(context.Background(), created.ID)
	var aerr *apierror.AppError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, http.StatusNotFound, aerr.Code)
}

func TestGetClient_NotFound(t *testing.T) {
	svc, _ := setupService()

	_, err := svc.Get(context.Background(), uuid.New())
	var aerr *apierror.AppError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, http.StatusNotFound, aerr.Code)
}

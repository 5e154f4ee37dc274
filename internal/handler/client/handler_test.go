package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifyhq/notify-api/internal/model"
	clientsvc "github.com/notifyhq/notify-api/internal/service/client"
	"github.com/notifyhq/notify-api/pkg/apierror"
)

type fakeService struct {
	client  *model.Client
	clients []*model.Client
	err     error
	calls   int
}

func (s *fakeService) List(_ context.Context, page, limit int) ([]*model.Client, error) {
	s.calls++
	return s.clients, s.err
}

func (s *fakeService) Create(_ context.Context, req *model.CreateClientRequest) (*model.Client, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.client, nil
}

func (s *fakeService) Get(_ context.Context, id uuid.UUID) (*model.Client, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.client, nil
}

func (s *fakeService) Update(_ context.Context, id uuid.UUID, req *model.UpdateClientRequest) (*model.Client, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.client, nil
}

func (s *fakeService) Delete(_ context.Context, id uuid.UUID) error {
	s.calls++
	return s.err
}

type envelope struct {
	Status  bool            `json:"status"`
	Content json.RawMessage `json:"content"`
}

type errorContent struct {
	ErrorMsg     string  `json:"error_msg"`
	ErrorCode    int     `json:"error_code"`
	InvalidField *string `json:"invalid_field"`
}

func setupRouter(svc clientsvc.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewHandler(svc)
	h.RegisterRoutes(engine.Group("/api"))
	h.RegisterPrivateRoutes(engine.Group("/api"))
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorContent {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.False(t, env.Status)
	var ec errorContent
	require.NoError(t, json.Unmarshal(env.Content, &ec))
	return ec
}

func TestCreate_ReturnsClient(t *testing.T) {
	created := &model.Client{
		ID:          uuid.New(),
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john.doe@mail.com",
		PhoneNumber: "+37126081337",
	}
	svc := &fakeService{client: created}
	engine := setupRouter(svc)

	rec := doRequest(t, engine, http.MethodPost, "/api/client",
		`{"firstName":"John","lastName":"Doe","email":"john.doe@mail.com","phoneNumber":"+37126081337"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Status)

	var got model.Client
	require.NoError(t, json.Unmarshal(env.Content, &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "john.doe@mail.com", got.Email)
}

func TestCreate_WrongJSON(t *testing.T) {
	svc := &fakeService{}
	engine := setupRouter(svc)

	rec := doRequest(t, engine, http.MethodPost, "/api/client", `{"firstName":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	ec := decodeError(t, rec)
	assert.Equal(t, "Wrong JSON format provided", ec.ErrorMsg)
	assert.Equal(t, http.StatusBadRequest, ec.ErrorCode)
	assert.Nil(t, ec.InvalidField)
	assert.Zero(t, svc.calls)
}

func TestCreate_ValidationEnvelope(t *testing.T) {
	svc := &fakeService{err: apierror.Validation(model.ErrorBlank, "firstName")}
	engine := setupRouter(svc)

	rec := doRequest(t, engine, http.MethodPost, "/api/client",
		`{"firstName":"","lastName":"Doe","email":"john.doe@mail.com","phoneNumber":"+37126081337"}`)

	require.Equal(t, http.StatusNotAcceptable, rec.Code)
	ec := decodeError(t, rec)
	assert.Equal(t, model.ErrorBlank, ec.ErrorMsg)
	assert.Equal(t, http.StatusNotAcceptable, ec.ErrorCode)
	require.NotNil(t, ec.InvalidField)
	assert.Equal(t, "firstName", *ec.InvalidField)
}

func TestGet_MalformedIDRejectedBeforeService(t *testing.T) {
	svc := &fakeService{}
	engine := setupRouter(svc)

	rec := doRequest(t, engine, http.MethodGet, "/api/client/not-a-uuid", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	ec := decodeError(t, rec)
	assert.Equal(t, ErrorWrongIDFormat, ec.ErrorMsg)
	assert.Nil(t, ec.InvalidField)
	assert.Zero(t, svc.calls)
}

func TestGet_NotFound(t *testing.T) {
	svc := &fakeService{err: apierror.NotFound(clientsvc.ErrorNotFound)}
	engine := setupRouter(svc)

	rec := doRequest(t, engine, http.MethodGet, "/api/client/"+uuid.NewString(), "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	ec := decodeError(t, rec)
	assert.Equal(t, clientsvc.ErrorNotFound, ec.ErrorMsg)
	assert.Equal(t, http.StatusNotFound, ec.ErrorCode)
}

func TestUpdate_MalformedID(t *testing.T) {
	svc := &fakeService{}
	engine := setupRouter(svc)

	rec := doRequest(t, engine, http.MethodPatch, "/api/client/123", `{"email":"new@mail.com"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls)
}

func TestDelete_ReturnsNullContent(t *testing.T) {
	svc := &fakeService{}
	engine := setupRouter(svc)

	rec := doRequest(t, engine, http.MethodDelete, "/api/client/"+uuid.NewString(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Status)
	assert.Equal(t, "null", string(env.Content))
	assert.Equal(t, 1, svc.calls)
}

func TestList_ReturnsClients(t *testing.T) {
	svc := &fakeService{clients: []*model.Client{
		{ID: uuid.New(), FirstName: "John", LastName: "Doe", Email: "john.doe@mail.com", PhoneNumber: "+37126081337"},
		{ID: uuid.New(), FirstName: "Jane", LastName: "Doe", Email: "jane.doe@mail.com", PhoneNumber: "+37126081338"},
	}}
	engine := setupRouter(svc)

	rec := doRequest(t, engine, http.MethodGet, "/api/clients?page=2&limit=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Status)

	var got []*model.Client
	require.NoError(t, json.Unmarshal(env.Content, &got))
	assert.Len(t, got, 2)
}

package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundseekers/discovery-backend/internal/adapters/memory"
	"github.com/soundseekers/discovery-backend/internal/api/handlers"
	"github.com/soundseekers/discovery-backend/internal/application/services"
	"github.com/soundseekers/discovery-backend/internal/domain/entities"
)

func TestCreateUserAndGet(t *testing.T) {
	handler := handlers.NewUserHandler(memory.NewUserStore())

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"name":"Ana","email":"ana@example.com"}`))
	rec := httptest.NewRecorder()
	handler.CreateUser(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created entities.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ana", created.Name)

	req = httptest.NewRequest(http.MethodGet, "/api/users/"+created.ID, nil)
	req.SetPathValue("id", created.ID)
	rec = httptest.NewRecorder()
	handler.GetUser(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var fetched entities.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&fetched))
	assert.Equal(t, created.ID, fetched.ID)
}

func TestCreateUserRequiresNameAndEmail(t *testing.T) {
	handler := handlers.NewUserHandler(memory.NewUserStore())

	for _, body := range []string{`{}`, `{"name":"Ana"}`, `{"email":"ana@example.com"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.CreateUser(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestGetUserNotFound(t *testing.T) {
	handler := handlers.NewUserHandler(memory.NewUserStore())

	req := httptest.NewRequest(http.MethodGet, "/api/users/ghost", nil)
	req.SetPathValue("id", "ghost")
	rec := httptest.NewRecorder()
	handler.GetUser(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLocalities(t *testing.T) {
	store := memory.NewLocalityStore(
		&entities.Locality{ID: "loc-1", Name: "Palermo"},
		&entities.Locality{ID: "loc-2", Name: "La Plata"},
	)
	handler := handlers.NewLocalityHandler(services.NewLocalityService(store))

	req := httptest.NewRequest(http.MethodGet, "/api/localities", nil)
	rec := httptest.NewRecorder()
	handler.ListLocalities(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Localities []*entities.Locality `json:"localities"`
		Count      int                  `json:"count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)
}

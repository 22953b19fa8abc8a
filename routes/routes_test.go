package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vacancy-backend/services"
	"vacancy-backend/store"
)

type testServer struct {
	t        *testing.T
	router   *gin.Engine
	registry *services.Registry
	dataFile string
	dir      string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	dataFile := filepath.Join(dir, "data.json")
	persister := store.NewPersister(store.NewFileStore(dataFile, dir), zap.NewNop())
	registry := services.NewRegistry(context.Background(), persister, zap.NewNop())

	return &testServer{
		t:        t,
		router:   SetupRouter(registry, []string{"*"}, zap.NewNop()),
		registry: registry,
		dataFile: dataFile,
		dir:      dir,
	}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeArray(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestRoomCustomerScenario(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/Rooms", map[string]interface{}{"name": "101", "type": "studio"})
	require.Equal(t, http.StatusCreated, w.Code)
	room := decodeObject(t, w)
	assert.Equal(t, float64(1), room["id"])
	assert.Equal(t, "101", room["name"])
	assert.Equal(t, "studio", room["type"])
	assert.NotEmpty(t, room["createdAt"])
	assert.NotContains(t, room, "updatedAt")

	w = s.do(http.MethodPost, "/Customers", map[string]interface{}{"name": "Ann", "phone": "555", "roomId": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	customer := decodeObject(t, w)
	assert.Equal(t, float64(1), customer["id"])
	assert.Equal(t, "101", customer["roomName"])
	assert.Equal(t, "studio", customer["roomType"])

	w = s.do(http.MethodDelete, "/Rooms/1", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, float64(1), decodeObject(t, w)["customersCount"])

	w = s.do(http.MethodGet, "/Rooms/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalRooms":1,"totalCustomers":1,"occupiedRooms":1,"emptyRooms":0,"customersWithoutRoom":0}`, w.Body.String())
}

func TestMutationsAreWrittenThrough(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/Rooms", map[string]interface{}{"name": "101"}).Code)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/Customers", map[string]interface{}{"name": "Ann", "phone": "555"}).Code)

	data, err := os.ReadFile(s.dataFile)
	require.NoError(t, err)
	var doc map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc["rooms"], 1)
	require.Len(t, doc["customers"], 1)
	assert.Equal(t, "101", doc["rooms"][0]["name"])
	assert.Equal(t, "Ann", doc["customers"][0]["name"])
	assert.NotContains(t, doc["customers"][0], "roomName", "derived fields are not persisted")

	reloaded := services.NewRegistry(context.Background(),
		store.NewPersister(store.NewFileStore(s.dataFile, s.dir), zap.NewNop()), zap.NewNop())
	assert.Equal(t, s.registry.Rooms().List(), reloaded.Rooms().List())
	assert.Equal(t, s.registry.Customers().List(), reloaded.Customers().List())
}

func TestRoomEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/Rooms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	s.do(http.MethodPost, "/Rooms", map[string]interface{}{"name": "101", "type": "studio"})

	w = s.do(http.MethodPut, "/Rooms/1", map[string]interface{}{"name": "101A"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeObject(t, w)
	assert.Equal(t, "101A", updated["name"])
	assert.NotContains(t, updated, "type")
	assert.NotEmpty(t, updated["updatedAt"])

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/Rooms/9", map[string]interface{}{}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/Rooms/9", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/Rooms/abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/Rooms", "{broken").Code)

	w = s.do(http.MethodDelete, "/Rooms/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "101A", decodeObject(t, w)["name"])
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/Rooms/1", nil).Code)
}

func TestCustomerEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/Rooms", map[string]interface{}{"name": "101", "type": "studio"})

	w := s.do(http.MethodPost, "/Customers", map[string]interface{}{"phone": "555"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeObject(t, w), "error")

	w = s.do(http.MethodPost, "/Customers", map[string]interface{}{"name": "Ann", "phone": "555", "roomId": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/Customers", map[string]interface{}{"name": "Ann", "phone": "555"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeObject(t, w)
	assert.Nil(t, created["roomName"])
	assert.Nil(t, created["roomType"])

	w = s.do(http.MethodPut, "/Customers/1", map[string]interface{}{"name": "Ann", "phone": "555", "roomId": 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "101", decodeObject(t, w)["roomName"])

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/Customers/1", map[string]interface{}{"roomId": 3}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/Customers/7", map[string]interface{}{}).Code)

	w = s.do(http.MethodGet, "/Customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeArray(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "studio", list[0]["roomType"])

	w = s.do(http.MethodGet, "/Customers/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "101", decodeObject(t, w)["roomName"])
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/Customers/2", nil).Code)

	w = s.do(http.MethodGet, "/Rooms/1/Customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeArray(t, w), 1)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/Rooms/4/Customers", nil).Code)

	w = s.do(http.MethodDelete, "/Customers/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	deleted := decodeObject(t, w)
	assert.Equal(t, "Ann", deleted["name"])
	assert.NotContains(t, deleted, "roomName")
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/Customers/1", nil).Code)
}

func TestCreateCustomerRequiresNameAndPhone(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []interface{}{
		map[string]interface{}{"phone": "555"},
		map[string]interface{}{"name": "", "phone": "555"},
		map[string]interface{}{"name": "Ann", "phone": 555},
		map[string]interface{}{"name": "Ann"},
	} {
		w := s.do(http.MethodPost, "/Customers", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "%v", body)
		assert.Equal(t, "name and phone are required", decodeObject(t, w)["error"])
	}

	w := s.do(http.MethodPost, "/Customers", "{broken")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeObject(t, w)["error"], "Invalid input")

	w = s.do(http.MethodPost, "/Customers", map[string]interface{}{"name": "Ann", "phone": "555", "roomId": false, "vip": true})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeObject(t, w)
	assert.Equal(t, true, created["vip"])
	assert.NotContains(t, created, "roomId")
	assert.Nil(t, s.registry.Customers().List()[0].RoomID)
}

func TestCustomerSearch(t *testing.T) {
	s := newTestServer(t)
	for _, name := range []string{"Anna", "Nathan", "Bob"} {
		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/Customers", map[string]interface{}{"name": name, "phone": "1"}).Code)
	}

	w := s.do(http.MethodGet, "/Customers/search/an", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decodeArray(t, w)
	require.Len(t, found, 2)
	assert.Equal(t, "Anna", found[0]["name"])
	assert.Equal(t, "Nathan", found[1]["name"])

	w = s.do(http.MethodGet, "/Customers/search/nobody", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestBackupEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/Rooms", map[string]interface{}{"name": "101"})

	w := s.do(http.MethodPost, "/backup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeObject(t, w)
	assert.Equal(t, float64(1), body["totalRooms"])
	assert.Equal(t, float64(0), body["totalCustomers"])
	assert.NotEmpty(t, body["message"])

	file, _ := body["file"].(string)
	require.NotEmpty(t, file)
	data, err := os.ReadFile(filepath.Join(s.dir, file))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backupDate")
}

func TestBackupFailureReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	fileStore := store.NewFileStore(filepath.Join(dir, "data.json"), filepath.Join(blocker, "sub"))
	registry := services.NewRegistry(context.Background(), store.NewPersister(fileStore, zap.NewNop()), zap.NewNop())
	router := SetupRouter(registry, nil, zap.NewNop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/backup", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/Rooms", map[string]interface{}{"name": "101"})

	w := s.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeObject(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.NotNil(t, body["lastSavedAt"])
	assert.Equal(t, float64(1), body["totalRooms"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMalformedRecordDoesNotWipeStoredData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(dataFile, []byte(`{
  "rooms": [
    {"id": 1, "name": "101", "createdAt": "2024-05-01T09:30:00.000Z"},
    {"id": 2, "name": "102", "createdAt": "2024-05-01"}
  ],
  "customers": [{"id": 1, "name": "Ann", "phone": "555", "roomId": 2}]
}`), 0o644))

	registry := services.NewRegistry(context.Background(),
		store.NewPersister(store.NewFileStore(dataFile, dir), zap.NewNop()), zap.NewNop())
	router := SetupRouter(registry, nil, zap.NewNop())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/Rooms", bytes.NewReader([]byte(`{"name":"103"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(3), decodeObject(t, w)["id"])

	data, err := os.ReadFile(dataFile)
	require.NoError(t, err)
	var doc map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc["rooms"], 3)
	assert.Equal(t, "2024-05-01", doc["rooms"][1]["createdAt"])
	require.Len(t, doc["customers"], 1)
	assert.Equal(t, float64(2), doc["customers"][0]["roomId"])
}

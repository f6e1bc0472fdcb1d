package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/retain/internal/journal"
)

func newTestServer(t *testing.T) (*httptest.Server, *journal.Service, journal.Entry) {
	t.Helper()

	created := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.Local)
	service := journal.NewService(journal.NewYAMLEntryRepository(t.TempDir()), journal.DefaultLadder()).
		WithClock(func() time.Time { return created })
	entry, err := service.CreateEntry(context.Background(), "http.ServeMux supports method patterns", "since Go 1.22", []string{"go", "http"})
	require.NoError(t, err)

	server := httptest.NewServer(NewEntryHandler(service).NewMux())
	t.Cleanup(server.Close)
	return server, service, entry
}

func decodeBody(t *testing.T, res *http.Response, into any) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(into))
}

func TestEntryHandler_Health(t *testing.T) {
	server, _, _ := newTestServer(t)

	res, err := http.Get(server.URL + "/health")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	var body map[string]string
	decodeBody(t, res, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestEntryHandler_CreateEntry(t *testing.T) {
	t.Run("creates an entry at step 0", func(t *testing.T) {
		server, service, _ := newTestServer(t)

		res, err := http.Post(server.URL+"/entries", "application/json",
			strings.NewReader(`{"content": "sqlmock matches queries by regexp", "tags": ["go", "test"]}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, res.StatusCode)
		var body entryResponse
		decodeBody(t, res, &body)
		assert.Equal(t, "sqlmock matches queries by regexp", body.Content)
		assert.Equal(t, "#0002", body.Label)
		assert.Equal(t, 0, body.Step)
		assert.Len(t, service.ListEntries(), 2)
	})

	t.Run("blank content is rejected", func(t *testing.T) {
		server, _, _ := newTestServer(t)

		res, err := http.Post(server.URL+"/entries", "application/json", strings.NewReader(`{"content": "   "}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		var body map[string]string
		decodeBody(t, res, &body)
		assert.Equal(t, "content is required", body["error"])
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		server, _, _ := newTestServer(t)

		res, err := http.Post(server.URL+"/entries", "application/json", strings.NewReader(`{`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestEntryHandler_ListEntries(t *testing.T) {
	server, _, entry := newTestServer(t)

	res, err := http.Get(server.URL + "/entries")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	var body struct {
		Entries []entryResponse `json:"entries"`
	}
	decodeBody(t, res, &body)
	require.Len(t, body.Entries, 1)
	assert.Equal(t, entry.ID, body.Entries[0].ID)
	assert.Equal(t, []string{"go", "http"}, body.Entries[0].Tags)
}

func TestEntryHandler_DueEntries(t *testing.T) {
	listDue := func(t *testing.T, server *httptest.Server, date string) []entryResponse {
		t.Helper()
		res, err := http.Get(server.URL + "/entries/due?date=" + date)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)
		var body struct {
			Entries []entryResponse `json:"entries"`
		}
		decodeBody(t, res, &body)
		return body.Entries
	}

	t.Run("entry is due after its first threshold", func(t *testing.T) {
		server, _, _ := newTestServer(t)
		assert.Empty(t, listDue(t, server, "2026-03-01"))
		assert.Len(t, listDue(t, server, "2026-03-02"), 1)
	})

	t.Run("invalid date is rejected", func(t *testing.T) {
		server, _, _ := newTestServer(t)
		res, err := http.Get(server.URL + "/entries/due?date=yesterday")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestEntryHandler_GetEntry(t *testing.T) {
	server, _, entry := newTestServer(t)

	t.Run("returns the entry", func(t *testing.T) {
		res, err := http.Get(server.URL + "/entries/" + entry.ID)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		var body entryResponse
		decodeBody(t, res, &body)
		assert.Equal(t, entry.Content, body.Content)
	})

	t.Run("unknown ID returns 404", func(t *testing.T) {
		res, err := http.Get(server.URL + "/entries/missing")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestEntryHandler_CompleteReview(t *testing.T) {
	t.Run("advances the entry and records the review", func(t *testing.T) {
		server, service, entry := newTestServer(t)

		res, err := http.Post(server.URL+"/entries/"+entry.ID+"/reviews", "application/json",
			strings.NewReader(`{"difficulty": "hard", "questions": ["what changed in 1.22?"], "answers": ["method patterns"]}`))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		var body entryResponse
		decodeBody(t, res, &body)
		assert.Equal(t, 1, body.Step)
		require.Len(t, body.Reviews, 1)
		assert.Equal(t, "hard", body.Reviews[0].Difficulty)

		stored, err := service.Entry(entry.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Step)
	})

	t.Run("unknown difficulty returns 400", func(t *testing.T) {
		server, _, entry := newTestServer(t)

		res, err := http.Post(server.URL+"/entries/"+entry.ID+"/reviews", "application/json",
			strings.NewReader(`{"difficulty": "brutal"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("unknown entry returns 404", func(t *testing.T) {
		server, _, _ := newTestServer(t)

		res, err := http.Post(server.URL+"/entries/missing/reviews", "application/json",
			strings.NewReader(`{"difficulty": "easy"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestEntryHandler_DeleteEntry(t *testing.T) {
	server, service, entry := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/entries/"+entry.ID, nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Empty(t, service.ListEntries())

	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), []string{"http://localhost:3000"})

	t.Run("allowed origin is echoed back", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/entries", nil)
		req.Header.Set("Origin", "http://localhost:3000")

		handler.ServeHTTP(recorder, req)

		assert.Equal(t, "http://localhost:3000", recorder.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/entries", nil)
		req.Header.Set("Origin", "https://evil.example")

		handler.ServeHTTP(recorder, req)

		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/entries", nil)

		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})
}

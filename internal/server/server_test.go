package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"translatebot/internal/domain"
	"translatebot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata() domain.Metadata {
	return domain.Metadata{
		BotIdentity: domain.BotIdentity{
			UserID:   "1000",
			Username: "translate_bot",
		},
		Platform: "telegram",
		Version:  "test",
		Commands: []domain.CommandSpec{
			{Name: "status", Description: "Check translation status"},
		},
	}
}

func TestServer_Metadata(t *testing.T) {
	srv := httptest.NewServer(New(":0", testMetadata(), testutil.NewTestLogger()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + MetadataPath)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got domain.Metadata
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, testMetadata(), got)
}

func TestServer_Health(t *testing.T) {
	srv := httptest.NewServer(New(":0", testMetadata(), testutil.NewTestLogger()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + HealthPath)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestServer_RejectsWrites(t *testing.T) {
	s := New(":0", testMetadata(), testutil.NewTestLogger())

	for _, path := range []string{MetadataPath, HealthPath} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}
}

func TestServer_Mount(t *testing.T) {
	s := New(":0", testMetadata(), testutil.NewTestLogger())
	s.Mount("/mattermost/command", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodPost, "/mattermost/command", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

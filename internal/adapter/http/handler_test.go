package httpadapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billboard-escrow/internal/adapter/memory"
	"billboard-escrow/internal/adapter/usecase"
	"billboard-escrow/internal/token"
)

const (
	testSponsor  = "sponsor-1"
	testCreator  = "creator-1"
	testPlatform = "platform-authority"
)

func newTestServer(t *testing.T) (*httptest.Server, *token.Service) {
	t.Helper()
	repo := memory.NewEscrowRepository()
	repo.SetAccountBalance(testSponsor, 10_000)
	repo.SetAccountBalance(testCreator, 0)

	svc := usecase.NewEscrowService(repo, testPlatform, 0, nil)
	tokens := token.NewService("test-secret", "billboard-escrow", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(NewHandler(svc, tokens, logger).Router())
	t.Cleanup(srv.Close)
	return srv, tokens
}

func doJSON(t *testing.T, srv *httptest.Server, tokens *token.Service, method, path, as string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	if as != "" {
		signed, err := tokens.Issue(as)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+signed)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createCampaign(t *testing.T, srv *httptest.Server, tokens *token.Service, id, amount uint64) {
	t.Helper()
	resp := doJSON(t, srv, tokens, http.MethodPost, "/api/v1/campaigns", testSponsor, map[string]any{
		"campaign_id": id,
		"creator":     testCreator,
		"amount":      amount,
		"duration":    86400,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateCampaign(t *testing.T) {
	srv, tokens := newTestServer(t)

	resp := doJSON(t, srv, tokens, http.MethodPost, "/api/v1/campaigns", testSponsor, map[string]any{
		"campaign_id": 1,
		"creator":     testCreator,
		"amount":      1000,
		"duration":    86400,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.EqualValues(t, 1, body["campaign_id"])
	assert.Equal(t, "deposited", body["state"])

	resp = doJSON(t, srv, tokens, http.MethodGet, "/api/v1/campaigns/1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, testSponsor, body["sponsor"])
	vault := body["vault"].(map[string]any)
	assert.EqualValues(t, 1000, vault["balance"])
	assert.EqualValues(t, 1000, vault["releasable"])
}

func TestMissingTokenIsRejected(t *testing.T) {
	srv, tokens := newTestServer(t)

	resp := doJSON(t, srv, tokens, http.MethodPost, "/api/v1/campaigns", "", map[string]any{
		"campaign_id": 1,
		"creator":     testCreator,
		"amount":      1000,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "missing_token", decodeBody(t, resp)["error"])
}

func TestBadTokenIsRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/campaigns/1/accept", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer bogus")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_token", decodeBody(t, resp)["error"])
}

func TestWrongRoleGetsForbidden(t *testing.T) {
	srv, tokens := newTestServer(t)
	createCampaign(t, srv, tokens, 1, 1000)

	// the sponsor cannot accept on the creator's behalf
	resp := doJSON(t, srv, tokens, http.MethodPost, "/api/v1/campaigns/1/accept", testSponsor, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "unauthorized", decodeBody(t, resp)["error"])

	// the creator cannot run platform actions
	resp = doJSON(t, srv, tokens, http.MethodPost, "/api/v1/campaigns/1/verifying", testCreator, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "unauthorized", decodeBody(t, resp)["error"])
}

func TestLifecycleOverHTTP(t *testing.T) {
	srv, tokens := newTestServer(t)
	createCampaign(t, srv, tokens, 1, 1000)

	steps := []struct {
		path string
		as   string
		body any
	}{
		{"/api/v1/campaigns/1/accept", testCreator, nil},
		{"/api/v1/campaigns/1/verifying", testPlatform, nil},
		{"/api/v1/campaigns/1/live", testPlatform, map[string]any{"start_ts": 100, "end_ts": 200}},
		{"/api/v1/campaigns/1/expired", testPlatform, nil},
		{"/api/v1/campaigns/1/claim", testCreator, nil},
	}
	for _, step := range steps {
		resp := doJSON(t, srv, tokens, http.MethodPost, step.path, step.as, step.body)
		require.Equal(t, http.StatusOK, resp.StatusCode, "step %s", step.path)
		resp.Body.Close()
	}

	resp := doJSON(t, srv, tokens, http.MethodGet, "/api/v1/campaigns/1", "", nil)
	body := decodeBody(t, resp)
	assert.Equal(t, "claimed", body["state"])

	resp = doJSON(t, srv, tokens, http.MethodGet, "/api/v1/campaigns/1/events", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	var events []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	require.Len(t, events, 6)
	assert.Equal(t, "campaign.created", events[0]["type"])
	assert.Equal(t, "campaign.claimed", events[5]["type"])
}

func TestErrorCodeMapping(t *testing.T) {
	srv, tokens := newTestServer(t)
	createCampaign(t, srv, tokens, 1, 1000)

	tests := []struct {
		name   string
		method string
		path   string
		as     string
		body   any
		status int
		code   string
	}{
		{"double create", http.MethodPost, "/api/v1/campaigns", testSponsor,
			map[string]any{"campaign_id": 1, "creator": testCreator, "amount": 10}, http.StatusConflict, "campaign_exists"},
		{"insufficient funds", http.MethodPost, "/api/v1/campaigns", testSponsor,
			map[string]any{"campaign_id": 2, "creator": testCreator, "amount": 99_999}, http.StatusUnprocessableEntity, "insufficient_funds"},
		{"missing creator", http.MethodPost, "/api/v1/campaigns", testSponsor,
			map[string]any{"campaign_id": 2, "amount": 10}, http.StatusBadRequest, "missing_creator"},
		{"claim before expiry", http.MethodPost, "/api/v1/campaigns/1/claim", testCreator,
			nil, http.StatusConflict, "invalid_state"},
		{"reject to wrong recipient", http.MethodPost, "/api/v1/campaigns/1/reject", testCreator,
			map[string]any{"recipient": "mallory"}, http.StatusForbidden, "invalid_recipient"},
		{"unknown campaign", http.MethodPost, "/api/v1/campaigns/999/accept", testCreator,
			nil, http.StatusNotFound, "campaign_not_found"},
		{"bad campaign id", http.MethodPost, "/api/v1/campaigns/abc/accept", testCreator,
			nil, http.StatusBadRequest, "invalid_campaign_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, srv, tokens, tt.method, tt.path, tt.as, tt.body)
			require.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decodeBody(t, resp)["error"])
		})
	}
}

func TestInvalidTimestampsOverHTTP(t *testing.T) {
	srv, tokens := newTestServer(t)
	createCampaign(t, srv, tokens, 1, 1000)

	for _, step := range []string{"accept", "verifying"} {
		as := testCreator
		if step == "verifying" {
			as = testPlatform
		}
		resp := doJSON(t, srv, tokens, http.MethodPost, fmt.Sprintf("/api/v1/campaigns/1/%s", step), as, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, srv, tokens, http.MethodPost, "/api/v1/campaigns/1/live", testPlatform,
		map[string]any{"start_ts": 200, "end_ts": 100})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "invalid_timestamps", decodeBody(t, resp)["error"])

	// the campaign stays in verifying
	resp = doJSON(t, srv, tokens, http.MethodGet, "/api/v1/campaigns/1", "", nil)
	assert.Equal(t, "verifying", decodeBody(t, resp)["state"])
}

package cluster

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tlindner/cdmctl/internal/models"
)

type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return jsonResponse(http.StatusOK, "{}"), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func loggedInClient(httpClient HTTPClient) *Impl {
	svc := NewWithClient(testLogger(), httpClient, "https://cdm.example.com")
	svc.token = "token-abc"
	return svc
}

func TestLogin_StoresToken(t *testing.T) {
	var captured *http.Request
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			captured = req
			return jsonResponse(http.StatusOK, `{"id":"session-1","token":"token-abc"}`), nil
		},
	}

	svc := NewWithClient(testLogger(), httpClient, "https://cdm.example.com")
	svc.username = "admin"
	svc.password = "secret"

	err := svc.Login(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "token-abc", svc.token)

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "https://cdm.example.com/api/v1/session", captured.URL.String())
	user, pass, ok := captured.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "admin", user)
	assert.Equal(t, "secret", pass)
	assert.NotEmpty(t, captured.Header.Get("X-Request-Id"))
}

func TestLogin_RejectedCredentials(t *testing.T) {
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusUnauthorized, `{"message":"incorrect username/password"}`), nil
		},
	}

	svc := NewWithClient(testLogger(), httpClient, "https://cdm.example.com")

	err := svc.Login(context.Background())

	assert.Error(t, err)
	assert.Empty(t, svc.token)
}

func TestLogin_EmptyToken(t *testing.T) {
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"id":"session-1"}`), nil
		},
	}

	svc := NewWithClient(testLogger(), httpClient, "https://cdm.example.com")

	err := svc.Login(context.Background())

	assert.Error(t, err)
}

func TestClose_DeletesSession(t *testing.T) {
	var captured *http.Request
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			captured = req
			return jsonResponse(http.StatusNoContent, ""), nil
		},
	}

	svc := loggedInClient(httpClient)

	err := svc.Close(context.Background())

	require.NoError(t, err)
	assert.Empty(t, svc.token)
	require.NotNil(t, captured)
	assert.Equal(t, http.MethodDelete, captured.Method)
	assert.Equal(t, "/api/v1/session/me", captured.URL.Path)
	assert.Equal(t, "Bearer token-abc", captured.Header.Get("Authorization"))
}

func TestClose_WithoutLoginIsNoop(t *testing.T) {
	called := false
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			called = true
			return jsonResponse(http.StatusOK, "{}"), nil
		},
	}

	svc := NewWithClient(testLogger(), httpClient, "https://cdm.example.com")

	err := svc.Close(context.Background())

	assert.NoError(t, err)
	assert.False(t, called)
}

func TestLatestEvents_ParsesEnvelope(t *testing.T) {
	var captured *http.Request
	body := `{
		"total": 2,
		"data": [
			{"latestEvent": {"eventSeriesId": "series-1", "eventType": "Backup", "objectName": "fs-a"}},
			{"latestEvent": {"eventSeriesId": "series-2", "eventType": "Backup", "objectName": "fs-b"}}
		]
	}`
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			captured = req
			return jsonResponse(http.StatusOK, body), nil
		},
	}

	svc := loggedInClient(httpClient)

	events, err := svc.LatestEvents(context.Background(), 25, "Backup")

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "series-1", events[0].EventSeriesID)
	assert.Equal(t, "fs-b", events[1].ObjectName)

	require.NotNil(t, captured)
	assert.Equal(t, "/api/v1/event/latest", captured.URL.Path)
	assert.Equal(t, "25", captured.URL.Query().Get("limit"))
	assert.Equal(t, "Backup", captured.URL.Query().Get("event_type"))
}

func TestEventSeries_ParsesDetail(t *testing.T) {
	body := `{
		"objectName": "fs-projects",
		"status": "Success",
		"duration": "1 hour 30 minutes",
		"logicalSize": 2500000000,
		"eventDetailList": [
			{"eventName": "Fileset.BackupFetchComplete", "eventInfo": "{\"params\":{\"fetchDuration\":\"45 minutes\"}}"}
		]
	}`
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "/api/v1/event_series/series-1", req.URL.Path)
			return jsonResponse(http.StatusOK, body), nil
		},
	}

	svc := loggedInClient(httpClient)

	detail, err := svc.EventSeries(context.Background(), "series-1")

	require.NoError(t, err)
	assert.Equal(t, "fs-projects", detail.ObjectName)
	assert.Equal(t, "1 hour 30 minutes", detail.Duration)
	assert.Equal(t, int64(2_500_000_000), detail.LogicalSize)
	require.Len(t, detail.EventDetailList, 1)
	assert.Equal(t, "Fileset.BackupFetchComplete", detail.EventDetailList[0].EventName)
}

func TestHostByName(t *testing.T) {
	body := `{"data": [{"id": "Host:::h1", "hostname": "nas01"}, {"id": "Host:::h2", "hostname": "nas02"}]}`
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, body), nil
		},
	}

	svc := loggedInClient(httpClient)

	id, err := svc.HostByName(context.Background(), "nas02")
	require.NoError(t, err)
	assert.Equal(t, "Host:::h2", id)

	_, err = svc.HostByName(context.Background(), "nas03")
	assert.Error(t, err)
}

func TestAddShare_SendsRequestBody(t *testing.T) {
	var capturedBody models.ShareRequest
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "/internal/host/share", req.URL.Path)
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			raw, _ := io.ReadAll(req.Body)
			_ = json.Unmarshal(raw, &capturedBody)
			return jsonResponse(http.StatusCreated, `{"id": "Share:::s1"}`), nil
		},
	}

	svc := loggedInClient(httpClient)

	id, err := svc.AddShare(context.Background(), models.ShareRequest{
		HostID:      "Host:::h1",
		ShareType:   models.ShareTypeNFS,
		ExportPoint: "/export/projects",
	})

	require.NoError(t, err)
	assert.Equal(t, "Share:::s1", id)
	assert.Equal(t, "Host:::h1", capturedBody.HostID)
	assert.Equal(t, "NFS", capturedBody.ShareType)
	assert.Equal(t, "/export/projects", capturedBody.ExportPoint)
}

func TestAssignSLA(t *testing.T) {
	var capturedPath string
	var capturedBody assignSLARequest
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			capturedPath = req.URL.Path
			raw, _ := io.ReadAll(req.Body)
			_ = json.Unmarshal(raw, &capturedBody)
			return jsonResponse(http.StatusOK, "{}"), nil
		},
	}

	svc := loggedInClient(httpClient)

	err := svc.AssignSLA(context.Background(), "SLA:::gold", []string{"Fileset:::f1"})

	require.NoError(t, err)
	assert.Equal(t, "/internal/sla_domain/SLA:::gold/assign", capturedPath)
	assert.Equal(t, []string{"Fileset:::f1"}, capturedBody.ManagedIDs)
}

func TestSQLDatabaseByName_MatchesInstance(t *testing.T) {
	body := `{"data": [
		{"id": "Mssql:::d1", "name": "Sales", "instanceName": "MSSQLSERVER", "latestRecoveryPoint": "2026-08-29T02:00:00Z"},
		{"id": "Mssql:::d2", "name": "Sales", "instanceName": "REPORTING"}
	]}`
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, body), nil
		},
	}

	svc := loggedInClient(httpClient)

	db, err := svc.SQLDatabaseByName(context.Background(), "REPORTING", "Sales")

	require.NoError(t, err)
	assert.Equal(t, "Mssql:::d2", db.ID)
}

func TestDo_TransportErrorIsWrapped(t *testing.T) {
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		},
	}

	svc := loggedInClient(httpClient)

	_, err := svc.LatestEvents(context.Background(), 5, "Backup")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDo_NonSuccessStatusIsError(t *testing.T) {
	httpClient := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusInternalServerError, `{"message":"boom"}`), nil
		},
	}

	svc := loggedInClient(httpClient)

	_, err := svc.EventSeries(context.Background(), "series-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

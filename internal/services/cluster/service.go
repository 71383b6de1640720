// Package cluster provides the authenticated client for the CDM cluster
// management API.
package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tlindner/cdmctl/internal/models"
)

// Service defines the operations the automation flows need from the cluster.
type Service interface {
	Login(ctx context.Context) error
	Close(ctx context.Context) error

	LatestEvents(ctx context.Context, limit int, eventType string) ([]models.EventSummary, error)
	EventSeries(ctx context.Context, seriesID string) (*models.EventDetail, error)

	HostByName(ctx context.Context, hostname string) (string, error)
	AddShare(ctx context.Context, req models.ShareRequest) (string, error)
	FilesetTemplateByName(ctx context.Context, name string) (string, error)
	SLADomainByName(ctx context.Context, name string) (string, error)
	CreateFileset(ctx context.Context, shareID, templateID string) (string, error)
	AssignSLA(ctx context.Context, slaID string, filesetIDs []string) error

	SQLDatabaseByName(ctx context.Context, instance, name string) (*models.SQLDatabase, error)
	RestoreSQLDatabase(ctx context.Context, databaseID, recoveryTime string) (string, error)
	RequestStatus(ctx context.Context, requestID string) (*models.AsyncRequest, error)
}

// HTTPClient allows mocking HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Impl implements the cluster Service interface. One Impl holds one API
// session: Login opens it, Close deletes it. There is no ambient shared
// session, callers own the handle for the duration of a run.
type Impl struct {
	httpClient HTTPClient
	logger     zerolog.Logger
	baseURL    string
	username   string
	password   string
	token      string
}

// New creates a cluster client from the cluster configuration.
func New(logger zerolog.Logger, cfg models.ClusterConfig) *Impl {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	return &Impl{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		baseURL:    cfg.Address,
		username:   cfg.Username,
		password:   cfg.Password,
	}
}

// NewWithClient creates a cluster client with a custom HTTP client (for testing).
func NewWithClient(logger zerolog.Logger, httpClient HTTPClient, baseURL string) *Impl {
	return &Impl{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    baseURL,
	}
}

type sessionResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// Login opens an API session and stores its token for subsequent calls.
func (s *Impl) Login(ctx context.Context) error {
	s.logger.Info().Str("cluster", s.baseURL).Str("username", s.username).Msg("opening API session")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/session", nil)
	if err != nil {
		return fmt.Errorf("creating session request: %w", err)
	}
	req.SetBasicAuth(s.username, s.password)
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("opening session: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading session response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("session request returned status %d: %s", resp.StatusCode, body)
	}

	var session sessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return fmt.Errorf("parsing session response: %w", err)
	}
	if session.Token == "" {
		return fmt.Errorf("session response contains no token")
	}

	s.token = session.Token
	s.logger.Debug().Str("session_id", session.ID).Msg("API session opened")
	return nil
}

// Close deletes the API session. It is safe to call without a prior Login.
func (s *Impl) Close(ctx context.Context) error {
	if s.token == "" {
		return nil
	}
	if err := s.do(ctx, http.MethodDelete, "/api/v1/session/me", nil, nil); err != nil {
		return fmt.Errorf("closing session: %w", err)
	}
	s.token = ""
	s.logger.Debug().Msg("API session closed")
	return nil
}

// do performs one authenticated API call, encoding in as the JSON request
// body when non-nil and decoding the JSON response into out when non-nil.
func (s *Impl) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: reading response: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s returned status %d: %s", method, path, resp.StatusCode, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%s %s: parsing response: %w", method, path, err)
		}
	}
	return nil
}

// listResponse is the envelope the cluster wraps collection results in.
type listResponse[T any] struct {
	Total int `json:"total"`
	Data  []T `json:"data"`
}

// LatestEvents returns the most recent events of the given type, newest
// first, up to limit entries.
func (s *Impl) LatestEvents(ctx context.Context, limit int, eventType string) ([]models.EventSummary, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if eventType != "" {
		q.Set("event_type", eventType)
	}

	var out listResponse[struct {
		LatestEvent models.EventSummary `json:"latestEvent"`
	}]
	if err := s.do(ctx, http.MethodGet, "/api/v1/event/latest?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}

	events := make([]models.EventSummary, 0, len(out.Data))
	for _, entry := range out.Data {
		events = append(events, entry.LatestEvent)
	}

	s.logger.Debug().Int("count", len(events)).Str("event_type", eventType).Msg("latest events fetched")
	return events, nil
}

// EventSeries returns the full detail record for one event series.
func (s *Impl) EventSeries(ctx context.Context, seriesID string) (*models.EventDetail, error) {
	var detail models.EventDetail
	if err := s.do(ctx, http.MethodGet, "/api/v1/event_series/"+url.PathEscape(seriesID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

type hostSummary struct {
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
}

// HostByName resolves a registered host's ID by its hostname. Exactly one
// match is required.
func (s *Impl) HostByName(ctx context.Context, hostname string) (string, error) {
	q := url.Values{}
	q.Set("hostname", hostname)

	var out listResponse[hostSummary]
	if err := s.do(ctx, http.MethodGet, "/api/v1/host?"+q.Encode(), nil, &out); err != nil {
		return "", err
	}

	for _, h := range out.Data {
		if h.Hostname == hostname {
			return h.ID, nil
		}
	}
	return "", fmt.Errorf("host %q not registered on the cluster", hostname)
}

type idResponse struct {
	ID string `json:"id"`
}

// AddShare registers a NAS share on the cluster and returns its ID.
func (s *Impl) AddShare(ctx context.Context, req models.ShareRequest) (string, error) {
	var out idResponse
	if err := s.do(ctx, http.MethodPost, "/internal/host/share", req, &out); err != nil {
		return "", err
	}
	s.logger.Info().
		Str("host_id", req.HostID).
		Str("export_point", req.ExportPoint).
		Str("share_id", out.ID).
		Msg("share registered")
	return out.ID, nil
}

type namedSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FilesetTemplateByName resolves a fileset template ID by its exact name.
func (s *Impl) FilesetTemplateByName(ctx context.Context, name string) (string, error) {
	q := url.Values{}
	q.Set("name", name)

	var out listResponse[namedSummary]
	if err := s.do(ctx, http.MethodGet, "/api/v1/fileset_template?"+q.Encode(), nil, &out); err != nil {
		return "", err
	}
	for _, t := range out.Data {
		if t.Name == name {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("fileset template %q not found", name)
}

// SLADomainByName resolves an SLA domain ID by its exact name.
func (s *Impl) SLADomainByName(ctx context.Context, name string) (string, error) {
	q := url.Values{}
	q.Set("name", name)

	var out listResponse[namedSummary]
	if err := s.do(ctx, http.MethodGet, "/api/v2/sla_domain?"+q.Encode(), nil, &out); err != nil {
		return "", err
	}
	for _, d := range out.Data {
		if d.Name == name {
			return d.ID, nil
		}
	}
	return "", fmt.Errorf("SLA domain %q not found", name)
}

type createFilesetRequest struct {
	ShareID    string `json:"shareId"`
	TemplateID string `json:"templateId"`
}

// CreateFileset creates a fileset on a share from a template and returns the
// fileset ID.
func (s *Impl) CreateFileset(ctx context.Context, shareID, templateID string) (string, error) {
	req := createFilesetRequest{ShareID: shareID, TemplateID: templateID}
	var out idResponse
	if err := s.do(ctx, http.MethodPost, "/api/v1/fileset", req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

type assignSLARequest struct {
	ManagedIDs []string `json:"managedIds"`
}

// AssignSLA assigns an SLA domain to the given filesets.
func (s *Impl) AssignSLA(ctx context.Context, slaID string, filesetIDs []string) error {
	req := assignSLARequest{ManagedIDs: filesetIDs}
	path := "/internal/sla_domain/" + url.PathEscape(slaID) + "/assign"
	if err := s.do(ctx, http.MethodPost, path, req, nil); err != nil {
		return err
	}
	s.logger.Info().Str("sla_id", slaID).Int("filesets", len(filesetIDs)).Msg("SLA domain assigned")
	return nil
}

// SQLDatabaseByName finds a protected SQL database by instance and name.
func (s *Impl) SQLDatabaseByName(ctx context.Context, instance, name string) (*models.SQLDatabase, error) {
	q := url.Values{}
	q.Set("name", name)

	var out listResponse[models.SQLDatabase]
	if err := s.do(ctx, http.MethodGet, "/api/v1/mssql/db?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	for _, db := range out.Data {
		if db.Name == name && db.InstanceName == instance {
			return &db, nil
		}
	}
	return nil, fmt.Errorf("database %q not found on instance %q", name, instance)
}

type restoreRequest struct {
	RecoveryDateTime string `json:"recoveryDateTime"`
}

// RestoreSQLDatabase starts an in-place restore of a database to the given
// recovery time and returns the async request ID.
func (s *Impl) RestoreSQLDatabase(ctx context.Context, databaseID, recoveryTime string) (string, error) {
	req := restoreRequest{RecoveryDateTime: recoveryTime}
	path := "/api/v1/mssql/db/" + url.PathEscape(databaseID) + "/restore"

	var out models.AsyncRequest
	if err := s.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return "", err
	}
	s.logger.Info().
		Str("database_id", databaseID).
		Str("recovery_time", recoveryTime).
		Str("request_id", out.ID).
		Msg("restore requested")
	return out.ID, nil
}

// RequestStatus returns the current state of an async request.
func (s *Impl) RequestStatus(ctx context.Context, requestID string) (*models.AsyncRequest, error) {
	var out models.AsyncRequest
	path := "/api/v1/mssql/request/" + url.PathEscape(requestID)
	if err := s.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

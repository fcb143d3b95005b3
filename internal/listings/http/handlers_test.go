package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/estatedesk/estate-backend/internal/listings/domain"
	"github.com/estatedesk/estate-backend/internal/listings/draft"
	"github.com/estatedesk/estate-backend/internal/listings/service"
	"github.com/estatedesk/estate-backend/internal/listings/submit"
)

type stubSubmitter struct {
	mu      sync.Mutex
	calls   int
	result  *service.Result
	err     error
	started chan struct{}
	proceed chan struct{}
}

func (s *stubSubmitter) Submit(_ context.Context, _ *submit.Request) (*service.Result, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.started != nil {
		s.started <- struct{}{}
		<-s.proceed
	}
	return s.result, s.err
}

type stubCodes struct{}

func (stubCodes) Generate(context.Context, string, string, int) string {
	return "DUB-ED2025001"
}

func setupRouter(t *testing.T, submitter Submitter) (*gin.Engine, *draft.SnapshotStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	snapshots := draft.NewSnapshotStore(client)

	h := New(submitter, stubCodes{}, snapshots, zap.NewNop())
	r := gin.New()
	h.Register(r.Group("/api/v1"))
	return r, snapshots
}

func submissionBody(t *testing.T, draftID string) (string, []byte) {
	t.Helper()
	s := draft.NewStore(draft.ModeCreate, nil)
	if draftID != "" {
		s.ID = draftID
	}
	require.NoError(t, s.UpdateFields(map[string]any{
		"developer_name": "Example Developer",
		"project_name":   "Marina Heights",
		"city":           "Dubai",
	}))
	contentType, body, err := submit.Serialize(s)
	require.NoError(t, err)
	return contentType, body
}

func TestSubmitEndpoint_Success(t *testing.T) {
	submitter := &stubSubmitter{result: &service.Result{ProjectID: 12, ProjectCode: "DUB-ED2025001"}}
	r, _ := setupRouter(t, submitter)

	contentType, body := submissionBody(t, "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ProjectID   int64  `json:"project_id"`
			ProjectCode string `json:"project_code"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(12), resp.Data.ProjectID)
	assert.Equal(t, "DUB-ED2025001", resp.Data.ProjectCode)
}

func TestSubmitEndpoint_ConsistencyErrorIs422(t *testing.T) {
	submitter := &stubSubmitter{err: &domain.ConsistencyError{
		Fields: domain.FieldErrors{"seo_city": "SEO city must match the project city"},
	}}
	r, _ := setupRouter(t, submitter)

	contentType, body := submissionBody(t, "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSubmitEndpoint_PersistenceErrorIsGeneric(t *testing.T) {
	submitter := &stubSubmitter{err: &domain.PersistenceError{Step: "store gallery", Err: errors.New("s3 down")}}
	r, _ := setupRouter(t, submitter)

	contentType, body := submissionBody(t, "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "s3 down", "internal detail must not leak")
}

func TestSubmitEndpoint_SingleFlightPerDraft(t *testing.T) {
	submitter := &stubSubmitter{
		result:  &service.Result{ProjectID: 1, ProjectCode: "DUB-ED2025001"},
		started: make(chan struct{}, 1),
		proceed: make(chan struct{}),
	}
	r, _ := setupRouter(t, submitter)

	contentType, body := submissionBody(t, "draft-1")

	firstDone := make(chan int, 1)
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/submit", bytes.NewReader(body))
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		firstDone <- w.Code
	}()

	<-submitter.started // first request is now inside Submit

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	close(submitter.proceed)
	assert.Equal(t, http.StatusOK, <-firstDone)
	assert.Equal(t, 1, submitter.calls)
}

func TestNextCodeEndpoint(t *testing.T) {
	r, _ := setupRouter(t, &stubSubmitter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/projects/next-code?city=Dubai&developer=Example+Developer", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "DUB-ED2025001")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/projects/next-code?city=Dubai", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSnapshotEndpoints_RoundTrip(t *testing.T) {
	r, _ := setupRouter(t, &stubSubmitter{})

	payload := snapshotReq{
		Fields: domain.Draft{ProjectName: "Marina Heights", City: "Dubai"},
		Configurations: []domain.Configuration{
			{Key: "cfg-1", Type: "2BHK", AreaMin: 800, AreaMax: 800},
		},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/drafts/draft-9/snapshot", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/drafts/draft-9/snapshot", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data snapshotReq `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Marina Heights", resp.Data.Fields.ProjectName)
	require.Len(t, resp.Data.Configurations, 1)
	assert.Equal(t, "2BHK", resp.Data.Configurations[0].Type)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/drafts/draft-9/snapshot", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/drafts/draft-9/snapshot", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOperatorTokenMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(OperatorToken("secret"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Operator-Token", "secret")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

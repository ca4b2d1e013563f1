package app

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/vancomm/boolmaze-server/internal/boolmaze"
	"github.com/vancomm/boolmaze-server/internal/config"
	"github.com/vancomm/boolmaze-server/internal/handlers"
	"github.com/vancomm/boolmaze-server/internal/repository"
	"github.com/vancomm/boolmaze-server/internal/session"
)

type digits struct {
	mu   sync.Mutex
	list []int
}

func (d *digits) IntN(n int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.list) == 0 {
		return 0
	}
	v := d.list[0]
	d.list = d.list[1:]
	return v % n
}

type memRecorder struct {
	mu      sync.Mutex
	records []repository.Record
}

func (m *memRecorder) CreateRecord(ctx context.Context, r repository.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if existing.SessionID == r.SessionID {
			return repository.ErrRecordExists
		}
	}
	m.records = append(m.records, r)
	return nil
}

func (m *memRecorder) GetRecords(ctx context.Context, f repository.RecordFilter) ([]repository.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repository.Record{}, m.records...), nil
}

func (m *memRecorder) all() []repository.Record {
	records, _ := m.GetRecords(context.Background(), repository.RecordFilter{})
	return records
}

func newTestApp(t *testing.T, commandRate rate.Limit, script ...int) (*httptest.Server, *memRecorder) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cookies, err := config.NewCookies(config.NewJWTWithKeys(key, &key.PublicKey, time.Hour))
	require.NoError(t, err)

	records := &memRecorder{}

	a := New(log)
	a.records = records
	a.cookies = cookies
	a.ws = &config.WebSocket{
		Upgrader:     websocket.Upgrader{},
		CommandRate:  commandRate,
		CommandBurst: 1,
	}
	a.initSessions(session.WithSources(func() boolmaze.Source {
		return &digits{list: append([]int(nil), script...)}
	}))
	a.loadRoutes()

	srv := httptest.NewServer(a.handler())
	t.Cleanup(srv.Close)
	return srv, records
}

func post(t *testing.T, srv *httptest.Server, path, ticket, body string) *http.Response {
	req, err := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if ticket != "" {
		req.Header.Set("Authorization", "Bearer "+ticket)
	}
	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func createMaze(t *testing.T, srv *httptest.Server, serial string) handlers.NewMazeResponse {
	res := post(t, srv, "/maze?serial="+serial, "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var created handlers.NewMazeResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	require.NotNil(t, created.Session)
	return created
}

func TestSolveWritesOneRecord(t *testing.T) {
	srv, records := newTestApp(t, rate.Inf, 1)
	created := createMaze(t, srv, "004555")
	id := created.Session.SessionID

	res := post(t, srv, "/maze/"+id+"/command", created.Ticket, "press d")
	require.Equal(t, http.StatusOK, res.StatusCode)

	saved := records.all()
	require.Len(t, saved, 1)
	assert.Equal(t, id, saved[0].SessionID)
	assert.Equal(t, 1, saved[0].ModuleID)
	assert.Equal(t, "004555", saved[0].Serial)
	assert.Equal(t, 0, saved[0].Strikes)
	assert.Equal(t, 1, saved[0].Presses)
	assert.False(t, saved[0].EndedAt.Before(saved[0].StartedAt))

	res = post(t, srv, "/maze/"+id+"/press?button=up", created.Ticket, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	res = post(t, srv, "/maze/"+id+"/command", created.Ticket, "press reset\npress stuck")
	require.Equal(t, http.StatusOK, res.StatusCode)

	assert.Len(t, records.all(), 1)

	res, err := srv.Client().Get(srv.URL + "/records")
	require.NoError(t, err)
	defer res.Body.Close()
	var listed []repository.Record
	require.NoError(t, json.NewDecoder(res.Body).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0].SessionID)
}

func TestStrikesAreRecorded(t *testing.T) {
	srv, records := newTestApp(t, rate.Inf, 1, 1)
	created := createMaze(t, srv, "004555")
	id := created.Session.SessionID

	res := post(t, srv, "/maze/"+id+"/command", created.Ticket, "press u\npress d")
	require.Equal(t, http.StatusOK, res.StatusCode)

	saved := records.all()
	require.Len(t, saved, 1)
	assert.Equal(t, 2, saved[0].Presses)
	assert.Equal(t, 1, saved[0].Strikes)
}

func TestUnsolvedSessionsAreNotRecorded(t *testing.T) {
	srv, records := newTestApp(t, rate.Inf, 1, 1)
	created := createMaze(t, srv, "AB1234")

	res := post(t, srv, "/maze/"+created.Session.SessionID+"/press?button=right", created.Ticket, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, records.all())
}

func TestPressRoutesAreRateLimited(t *testing.T) {
	srv, _ := newTestApp(t, 0, 1, 1, 1)
	created := createMaze(t, srv, "AB1234")
	id := created.Session.SessionID

	res := post(t, srv, "/maze/"+id+"/press?button=right", created.Ticket, "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res = post(t, srv, "/maze/"+id+"/press?button=left", created.Ticket, "")
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)

	res = post(t, srv, "/maze/"+id+"/command", created.Ticket, "press l")
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)

	res, err := srv.Client().Get(srv.URL + "/maze/" + id)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

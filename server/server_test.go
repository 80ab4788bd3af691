package server_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgkim990427/wikimediator/server"
)

// stubMediator returns canned answers; getPage blocks until the request
// context is done when hang is set, to exercise per-request timeouts.
type stubMediator struct {
	hang bool
}

func (s *stubMediator) SimpleSearch(_ context.Context, query string, limit int) ([]string, error) {
	return []string{query + " result"}, nil
}

func (s *stubMediator) GetPage(ctx context.Context, title string) (string, error) {
	if s.hang {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return "text of " + title, nil
}

func (s *stubMediator) Zeitgeist(limit int) []string { return []string{"canada"} }
func (s *stubMediator) Trending(limit int) []string  { return []string{"canada"} }
func (s *stubMediator) PeakLoad30s() int             { return 7 }

func freeAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "unable to get free port")
	addr := l.Addr().String()
	require.NoError(t, l.Close(), "close listener")
	return addr
}

// testClient is one connected protocol client with a persistent reader.
type testClient struct {
	conn net.Conn
	r    *bufio.Reader
}

func (c *testClient) roundTrip(t *testing.T, req server.Request) server.Response {
	t.Helper()

	payload, err := json.Marshal(req)
	require.NoError(t, err)
	_, err = c.conn.Write(append(payload, '\n'))
	require.NoError(t, err)

	return c.readResponse(t)
}

func (c *testClient) readResponse(t *testing.T) server.Response {
	t.Helper()

	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	line, err := c.r.ReadBytes('\n')
	require.NoError(t, err)

	var resp server.Response
	require.NoError(t, json.Unmarshal(line, &resp))
	return resp
}

// startServer runs m behind a fresh server on a free port, waits until it
// accepts connections and returns a connected client. Shutdown is checked
// during test cleanup.
func startServer(t *testing.T, m server.Mediator, opts ...server.Option) (*server.Server, *testClient) {
	t.Helper()

	addr := freeAddr(t)
	opts = append([]server.Option{
		server.WithAddr(addr),
		server.WithShutdownTimeout(200 * time.Millisecond),
	}, opts...)
	srv := server.New(opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, m) }()

	var conn net.Conn
	var err error
	for i := 0; i < 50; i++ {
		conn, err = net.Dial("tcp", addr)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err, "dial after 50 retries")

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err, "run")
		case <-time.After(2 * time.Second):
			t.Error("run did not finish")
		}
	})

	return srv, &testClient{conn: conn, r: bufio.NewReader(conn)}
}

func TestSimpleSearchRequest(t *testing.T) {
	_, client := startServer(t, &stubMediator{})

	resp := client.roundTrip(t, server.Request{
		ID:    "1",
		Type:  server.TypeSimpleSearch,
		Query: "Canada",
		Limit: 10,
	})

	assert.Equal(t, "1", resp.ID)
	assert.Equal(t, server.StatusSuccess, resp.Status)
	assert.Equal(t, []any{"Canada result"}, resp.Response)
}

func TestGetPageRequest(t *testing.T) {
	_, client := startServer(t, &stubMediator{})

	resp := client.roundTrip(t, server.Request{
		ID:        "2",
		Type:      server.TypeGetPage,
		PageTitle: "Canada",
	})

	assert.Equal(t, server.StatusSuccess, resp.Status)
	assert.Equal(t, "text of Canada", resp.Response)
}

func TestStatisticsRequests(t *testing.T) {
	_, client := startServer(t, &stubMediator{})

	resp := client.roundTrip(t, server.Request{ID: "3", Type: server.TypeZeitgeist, Limit: 5})
	assert.Equal(t, server.StatusSuccess, resp.Status)
	assert.Equal(t, []any{"canada"}, resp.Response)

	resp = client.roundTrip(t, server.Request{ID: "4", Type: server.TypePeakLoad30s})
	assert.Equal(t, server.StatusSuccess, resp.Status)
	assert.EqualValues(t, 7, resp.Response)
}

func TestUnknownRequestTypeKeepsConnectionOpen(t *testing.T) {
	_, client := startServer(t, &stubMediator{})

	resp := client.roundTrip(t, server.Request{ID: "5", Type: "bogus"})
	assert.Equal(t, server.StatusFailed, resp.Status)
	assert.Contains(t, resp.Response, "unknown request type")

	// The connection still serves subsequent requests.
	resp = client.roundTrip(t, server.Request{ID: "6", Type: server.TypePeakLoad30s})
	assert.Equal(t, server.StatusSuccess, resp.Status)
}

func TestMalformedRequest(t *testing.T) {
	_, client := startServer(t, &stubMediator{})

	_, err := client.conn.Write([]byte("{not json\n"))
	require.NoError(t, err)

	resp := client.readResponse(t)
	assert.Equal(t, server.StatusFailed, resp.Status)
}

func TestPerRequestTimeout(t *testing.T) {
	_, client := startServer(t, &stubMediator{hang: true})

	resp := client.roundTrip(t, server.Request{
		ID:        "7",
		Type:      server.TypeGetPage,
		PageTitle: "Canada",
		Timeout:   "1",
	})

	assert.Equal(t, server.StatusFailed, resp.Status)
	assert.Equal(t, "Operation timed out", resp.Response)
}

func TestBlankRequestIDGetsAssigned(t *testing.T) {
	_, client := startServer(t, &stubMediator{})

	resp := client.roundTrip(t, server.Request{Type: server.TypePeakLoad30s})
	assert.Equal(t, server.StatusSuccess, resp.Status)
	assert.NotEmpty(t, resp.ID)
}

func TestSecondConnectionServedConcurrently(t *testing.T) {
	_, client := startServer(t, &stubMediator{})

	conn2, err := net.Dial("tcp", client.conn.RemoteAddr().String())
	require.NoError(t, err)
	defer conn2.Close()
	client2 := &testClient{conn: conn2, r: bufio.NewReader(conn2)}

	resp := client2.roundTrip(t, server.Request{ID: "a", Type: server.TypePeakLoad30s})
	assert.Equal(t, server.StatusSuccess, resp.Status)

	resp = client.roundTrip(t, server.Request{ID: "b", Type: server.TypePeakLoad30s})
	assert.Equal(t, server.StatusSuccess, resp.Status)
}

func TestRunTwiceFails(t *testing.T) {
	srv, _ := startServer(t, &stubMediator{})

	err := srv.Run(context.Background(), &stubMediator{})
	assert.ErrorIs(t, err, server.ErrStart)
}

func TestRunWithNilMediator(t *testing.T) {
	srv := server.New(server.WithAddr(freeAddr(t)))
	err := srv.Run(context.Background(), nil)
	assert.ErrorIs(t, err, server.ErrStart)
}

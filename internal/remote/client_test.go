package remote

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/grocery/internal/model"
)

type seenRequest struct {
	method      string
	path        string
	contentType string
	body        string
}

func newRecordingServer(t *testing.T, status int, reply string) (*httptest.Server, chan seenRequest) {
	t.Helper()
	seen := make(chan seenRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen <- seenRequest{method: r.Method, path: r.URL.Path, contentType: r.Header.Get("Content-Type"), body: string(b)}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestNewRejectsBadEndpoints(t *testing.T) {
	for _, ep := range []string{"", "localhost:3500/items", "ftp://example.com/items", "http:///items"} {
		_, err := New(ep)
		assert.Error(t, err, "endpoint %q", ep)
	}
}

func TestItemURL(t *testing.T) {
	c, err := New("http://localhost:3500/items")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3500/items/7", c.ItemURL(7))
	assert.Equal(t, "http://localhost:3500/items", c.Endpoint())
}

func TestListDecodesWireFormat(t *testing.T) {
	srv, seen := newRecordingServer(t, http.StatusOK, `[{"id":1,"checked":false,"item":"Eggs"},{"id":2,"checked":true,"item":"Milk"}]`)
	c, err := New(srv.URL + "/items")
	require.NoError(t, err)

	items, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Item{{ID: 1, Label: "Eggs"}, {ID: 2, Checked: true, Label: "Milk"}}, items)

	req := <-seen
	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/items", req.path)
}

func TestListEmptyArrayIsNotNil(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, `null`)
	c, err := New(srv.URL + "/items")
	require.NoError(t, err)

	items, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCreatePostsJSON(t *testing.T) {
	srv, seen := newRecordingServer(t, http.StatusCreated, `{}`)
	c, err := New(srv.URL + "/items")
	require.NoError(t, err)

	require.NoError(t, c.Create(context.Background(), model.Item{ID: 3, Label: "Bread"}))

	req := <-seen
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/items", req.path)
	assert.Equal(t, "application/json", req.contentType)
	assert.JSONEq(t, `{"id":3,"checked":false,"item":"Bread"}`, req.body)
}

func TestSetCheckedPatchesOnlyChecked(t *testing.T) {
	srv, seen := newRecordingServer(t, http.StatusOK, `{}`)
	c, err := New(srv.URL + "/items")
	require.NoError(t, err)

	require.NoError(t, c.SetChecked(context.Background(), 4, true))

	req := <-seen
	assert.Equal(t, http.MethodPatch, req.method)
	assert.Equal(t, "/items/4", req.path)
	assert.JSONEq(t, `{"checked":true}`, req.body)
}

func TestDeleteHasNoBody(t *testing.T) {
	srv, seen := newRecordingServer(t, http.StatusOK, `{}`)
	c, err := New(srv.URL + "/items")
	require.NoError(t, err)

	require.NoError(t, c.Delete(context.Background(), 9))

	req := <-seen
	assert.Equal(t, http.MethodDelete, req.method)
	assert.Equal(t, "/items/9", req.path)
	assert.Empty(t, req.body)
	assert.Empty(t, req.contentType)
}

func TestServerFailureCollapsesToGenericMessage(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusInternalServerError, `{"error":"boom"}`)
	c, err := New(srv.URL + "/items")
	require.NoError(t, err)

	err = c.Request(context.Background(), c.Endpoint(), Options{})
	require.Error(t, err)
	assert.Equal(t, MsgUnexpectedData, err.Error())
	assert.Equal(t, MsgUnexpectedData, Message(err))

	var re *Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, KindServer, re.Kind)
	assert.Equal(t, http.StatusInternalServerError, re.Status)
	assert.Equal(t, http.MethodGet, re.Method)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/items"
	srv.Close()

	c, err := New(endpoint)
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.Error(t, err)

	var re *Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, KindTransport, re.Kind)
	assert.NotEmpty(t, Message(err))
}

func TestTimeoutIsTransportFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c, err := New(srv.URL+"/items", WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = c.List(context.Background())

	var re *Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, KindTransport, re.Kind)
	var ne net.Error
	require.True(t, errors.As(err, &ne))
	assert.True(t, ne.Timeout())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestWithHTTPClientIsUsed(t *testing.T) {
	hits := 0
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		hits++
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader(`[{"id":1,"checked":false,"item":"Eggs"}]`)),
			Request:    r,
		}, nil
	})}

	c, err := New("http://backend.test/items", WithHTTPClient(hc), WithTimeout(time.Second))
	require.NoError(t, err)

	items, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Item{{ID: 1, Label: "Eggs"}}, items)
	assert.Equal(t, 1, hits)
	// the timeout applies to a copy, not the caller's client
	assert.Zero(t, hc.Timeout)
}

func TestCancelledContextIsTransportFailure(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, `[]`)
	c, err := New(srv.URL + "/items")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = c.Request(ctx, c.Endpoint(), Options{})

	var re *Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, KindTransport, re.Kind)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMalformedJSONIsDecodeFailure(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, `[{"id":`)
	c, err := New(srv.URL + "/items")
	require.NoError(t, err)

	_, err = c.List(context.Background())

	var re *Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, KindDecode, re.Kind)
}

func TestEncodeFailure(t *testing.T) {
	c, err := New("http://localhost:3500/items")
	require.NoError(t, err)

	err = c.Request(context.Background(), c.Endpoint(), Options{Method: http.MethodPost, Body: map[string]any{"bad": make(chan int)}})

	var re *Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, KindEncode, re.Kind)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "plain", Message(errors.New("plain")))

	wrapped := &Error{Kind: KindServer, Message: MsgUnexpectedData}
	assert.Equal(t, MsgUnexpectedData, Message(errors.Join(wrapped)))
}

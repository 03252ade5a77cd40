package executor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/reqx/packages/decode"
	"github.com/abdul-hamid-achik/reqx/packages/dispatch"
	"github.com/abdul-hamid-achik/reqx/packages/session"
)

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// fakeSession returns a canned response or error without any network.
type fakeSession struct {
	resp *session.Response
	err  error
}

func (f *fakeSession) Perform(ctx context.Context, req *session.Request) (*session.Response, error) {
	return f.resp, f.err
}

func newHTTPExecutor(opts ...Option) *Executor {
	return New(session.NewClient(), decode.JSON{}, opts...)
}

func TestExecute_DecodesSuccessfulResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":1,"name":"A"}`))
	}))
	defer server.Close()

	ex := newHTTPExecutor()
	got, err := ExecuteSync[user](context.Background(), ex, session.NewRequest("GET", server.URL+"/users/1"))

	require.NoError(t, err)
	assert.Equal(t, user{ID: 1, Name: "A"}, got)
}

func TestExecute_AcceptsWholeSuccessRange(t *testing.T) {
	for _, status := range []int{200, 201, 202, 204, 226, 299} {
		status := status
		t.Run(fmt.Sprintf("status_%d", status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"id":1,"name":"A"}`))
			}))
			defer server.Close()

			ex := newHTTPExecutor()
			_, err := ExecuteSync[user](context.Background(), ex, session.NewRequest("GET", server.URL))

			// 204 and 304 carry no body; the decoder sees empty input.
			if status == 204 {
				var decodingErr *DecodingError
				require.Error(t, err)
				assert.True(t, errors.As(err, &decodingErr), "204 empty body should fail decoding, not validation")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExecute_RejectsNonSuccessStatus(t *testing.T) {
	for _, status := range []int{301, 400, 401, 403, 404, 418, 500, 503} {
		status := status
		t.Run(fmt.Sprintf("status_%d", status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Test", "yes")
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"id":1,"name":"A"}`))
			}))
			defer server.Close()

			url := server.URL + "/thing"
			ex := New(session.NewClient(session.WithFollowRedirects(false)), decode.JSON{})
			_, err := ExecuteSync[user](context.Background(), ex, session.NewRequest("GET", url))

			var invalid *InvalidResponseError
			require.Error(t, err)
			require.True(t, errors.As(err, &invalid), "want InvalidResponseError, got %T", err)
			assert.Equal(t, status, invalid.StatusCode)
			assert.Equal(t, url, invalid.URL)
			assert.NotEmpty(t, invalid.Description)
			assert.Equal(t, "yes", invalid.Headers["X-Test"])
		})
	}
}

func TestExecute_NotFoundScenario(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	url := server.URL + "/users/1"
	ex := newHTTPExecutor()
	_, err := ExecuteSync[user](context.Background(), ex, session.NewRequest("GET", url))

	var invalid *InvalidResponseError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 404, invalid.StatusCode)
	assert.Equal(t, "Not Found", invalid.Description)
	assert.Equal(t, url, invalid.URL)
}

func TestExecute_UnrecognizableResponse(t *testing.T) {
	tests := []struct {
		name string
		resp *session.Response
	}{
		{name: "nil response", resp: nil},
		{name: "zero status", resp: &session.Response{Body: []byte(`{"id":1,"name":"A"}`)}},
		{name: "negative status", resp: &session.Response{StatusCode: -7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := New(&fakeSession{resp: tt.resp}, decode.JSON{})
			_, err := ExecuteSync[user](context.Background(), ex, session.NewRequest("GET", "http://api.test/users/1"))

			var invalid *InvalidResponseError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, -1, invalid.StatusCode)
			assert.Equal(t, "Invalid response type", invalid.Description)
			assert.Equal(t, "http://api.test/users/1", invalid.URL)
			assert.Nil(t, invalid.Headers)
		})
	}
}

func TestExecute_DecodeFailureIsDecodingError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"oops"}`))
	}))
	defer server.Close()

	ex := newHTTPExecutor()
	_, err := ExecuteSync[user](context.Background(), ex, session.NewRequest("GET", server.URL))

	var decodingErr *DecodingError
	require.True(t, errors.As(err, &decodingErr), "want DecodingError, got %T", err)
	assert.Error(t, decodingErr.Cause)

	var networkErr *NetworkError
	assert.False(t, errors.As(err, &networkErr))
	var invalid *InvalidResponseError
	assert.False(t, errors.As(err, &invalid))
}

func TestExecute_CustomDecoderFailureIsDecodingError(t *testing.T) {
	ex := New(
		&fakeSession{resp: &session.Response{StatusCode: 200, Body: []byte("whatever")}},
		decoderFunc(func(data []byte, v any) error { return errors.New("bespoke failure") }),
	)
	_, err := ExecuteSync[user](context.Background(), ex, session.NewRequest("GET", "http://api.test/"))

	var decodingErr *DecodingError
	require.True(t, errors.As(err, &decodingErr))
	assert.EqualError(t, decodingErr.Cause, "bespoke failure")
}

type decoderFunc func(data []byte, v any) error

func (f decoderFunc) Decode(data []byte, v any) error { return f(data, v) }

func TestExecute_TransportFailureIsNetworkError(t *testing.T) {
	// Nothing listens here; connection is refused before any response.
	ex := newHTTPExecutor()
	_, err := ExecuteSync[user](context.Background(), ex, session.NewRequest("GET", "http://127.0.0.1:1/users"))

	var networkErr *NetworkError
	require.True(t, errors.As(err, &networkErr), "want NetworkError, got %T", err)
	assert.Error(t, networkErr.Cause)
}

func TestExecute_EveryFailureIsAClientError(t *testing.T) {
	sessions := map[string]Session{
		"transport error": &fakeSession{err: errors.New("connection reset")},
		"nil response":    &fakeSession{resp: nil},
		"bad status":      &fakeSession{resp: &session.Response{StatusCode: 500, Status: "500 Internal Server Error"}},
		"bad body":        &fakeSession{resp: &session.Response{StatusCode: 200, Body: []byte(`nope`)}},
	}

	for name, s := range sessions {
		t.Run(name, func(t *testing.T) {
			ex := New(s, decode.JSON{})
			_, err := ExecuteSync[user](context.Background(), ex, session.NewRequest("GET", "http://api.test/"))

			var ce ClientError
			require.Error(t, err)
			assert.True(t, errors.As(err, &ce), "raw error escaped: %T %v", err, err)
		})
	}
}

func TestExecute_ExactlyOneOutcome(t *testing.T) {
	ex := New(&fakeSession{resp: &session.Response{StatusCode: 200, Body: []byte(`{"id":1,"name":"A"}`)}}, decode.JSON{})
	outcome := Execute[user](context.Background(), ex, session.NewRequest("GET", "http://api.test/"))

	first, err1 := outcome.Wait(context.Background())
	second, err2 := outcome.Wait(context.Background())

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestExecute_SuccessNeverCarriesError(t *testing.T) {
	ex := New(&fakeSession{resp: &session.Response{StatusCode: 200, Body: []byte(`{"id":2,"name":"B"}`)}}, decode.JSON{})
	got, err := ExecuteSync[user](context.Background(), ex, session.NewRequest("GET", "http://api.test/"))

	assert.NoError(t, err)
	assert.Equal(t, user{ID: 2, Name: "B"}, got)
}

func TestExecute_FailureNeverCarriesValue(t *testing.T) {
	ex := New(&fakeSession{resp: &session.Response{StatusCode: 404, Status: "404 Not Found"}}, decode.JSON{})
	got, err := ExecuteSync[user](context.Background(), ex, session.NewRequest("GET", "http://api.test/"))

	assert.Error(t, err)
	assert.Equal(t, user{}, got)
}

func TestExecute_DeliversOnDispatcher(t *testing.T) {
	serial := dispatch.NewSerial()
	defer serial.Close()

	ex := New(
		&fakeSession{resp: &session.Response{StatusCode: 200, Body: []byte(`{"id":1,"name":"A"}`)}},
		decode.JSON{},
		WithDispatcher(serial),
	)

	outcome := Execute[user](context.Background(), ex, session.NewRequest("GET", "http://api.test/"))
	got, err := outcome.Wait(context.Background())

	require.NoError(t, err)
	assert.Equal(t, user{ID: 1, Name: "A"}, got)

	// The resolution job ran on the serial queue, so a job dispatched now
	// observes the outcome already delivered.
	done := make(chan struct{})
	serial.Dispatch(func() {
		select {
		case <-outcome.Done():
		default:
			t.Error("outcome not delivered before later serial job")
		}
		close(done)
	})
	<-done
}

func TestExecute_ConcurrentCallsAreIndependent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"id":1,"name":%q}`, r.URL.Path)
	}))
	defer server.Close()

	ex := newHTTPExecutor()

	outcomes := make([]*Outcome[user], 10)
	for i := range outcomes {
		outcomes[i] = Execute[user](context.Background(), ex, session.NewRequest("GET", fmt.Sprintf("%s/u/%d", server.URL, i)))
	}

	for i, o := range outcomes {
		got, err := o.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("/u/%d", i), got.Name)
	}
}

func TestOutcome_WaitHonorsContext(t *testing.T) {
	blocked := &fakeSessionBlocking{release: make(chan struct{})}
	defer close(blocked.release)

	ex := New(blocked, decode.JSON{})
	outcome := Execute[user](context.Background(), ex, session.NewRequest("GET", "http://api.test/"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := outcome.Wait(ctx)

	var networkErr *NetworkError
	require.True(t, errors.As(err, &networkErr))
	assert.ErrorIs(t, networkErr.Cause, context.DeadlineExceeded)
}

type fakeSessionBlocking struct {
	release chan struct{}
}

func (f *fakeSessionBlocking) Perform(ctx context.Context, req *session.Request) (*session.Response, error) {
	select {
	case <-f.release:
	case <-ctx.Done():
	}
	return nil, context.Canceled
}

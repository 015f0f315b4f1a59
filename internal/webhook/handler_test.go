package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cricbot/cricbot-go/internal/composer"
	"github.com/cricbot/cricbot-go/internal/content"
	apperrors "github.com/cricbot/cricbot-go/internal/errors"
	"github.com/cricbot/cricbot-go/internal/logger"
	"github.com/cricbot/cricbot-go/internal/messenger"
	"github.com/cricbot/cricbot-go/internal/metrics"
	"github.com/cricbot/cricbot-go/internal/tables"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAppSecret   = "test-app-secret"
	testVerifyToken = "test-verify-token"
)

type recordingSender struct {
	mu       sync.Mutex
	requests []*messenger.SendRequest
	err      error
}

func (s *recordingSender) Send(_ context.Context, payload *messenger.SendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, payload)
	return s.err
}

func (s *recordingSender) sent() []*messenger.SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*messenger.SendRequest(nil), s.requests...)
}

type stubFetcher struct {
	searchResult []content.PublicationSummary
	searchErr    error
	latestResult []content.PublicationSummary
	latestErr    error
}

func (s *stubFetcher) Search(context.Context, string, int) ([]content.PublicationSummary, error) {
	return s.searchResult, s.searchErr
}

func (s *stubFetcher) Latest(context.Context, string, int) ([]content.PublicationSummary, error) {
	return s.latestResult, s.latestErr
}

func testComposer(t *testing.T, fetcher composer.ContentFetcher) *composer.Composer {
	t.Helper()
	dir := t.TempDir()

	termPath := filepath.Join(dir, "terms.json")
	require.NoError(t, os.WriteFile(termPath, []byte(`[
		{"term": "Gully", "definition": "A close fielding position."}
	]`), 0o600))
	jokePath := filepath.Join(dir, "jokes.json")
	require.NoError(t, os.WriteFile(jokePath, []byte(`[
		{"question": "placeholder", "answer": "placeholder"},
		{"question": "Why don't cricketers ever get hot?", "answer": "Because of all the fans."}
	]`), 0o600))

	terms, err := tables.LoadTermTable(termPath)
	require.NoError(t, err)
	jokes, err := tables.LoadJokeTable(jokePath)
	require.NoError(t, err)
	return composer.New(fetcher, terms, jokes, 5, logger.New("error"))
}

type testEnv struct {
	handler *Handler
	router  *gin.Engine
	sender  *recordingSender
}

func newTestEnv(t *testing.T, fetcher composer.ContentFetcher, strict bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sender := &recordingSender{}
	handler := NewHandler(HandlerConfig{
		AppSecret:       testAppSecret,
		VerifyToken:     testVerifyToken,
		StrictSignature: strict,
		Sender:          sender,
		Composer:        testComposer(t, fetcher),
		Metrics:         metrics.New(prometheus.NewRegistry()),
		Logger:          logger.New("error"),
	})

	router := gin.New()
	router.GET("/webhook", handler.HandleVerify)
	router.POST("/webhook", handler.HandleCallback)
	return &testEnv{handler: handler, router: router, sender: sender}
}

// postSigned delivers a signed webhook body and waits for async
// processing to finish before returning the response.
func (e *testEnv) postSigned(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := e.post(t, body, messenger.SignBody(testAppSecret, []byte(body)))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.handler.Shutdown(ctx))
	return rec
}

func (e *testEnv) post(t *testing.T, body, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(messenger.SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func messageEnvelope(text string) string {
	return fmt.Sprintf(`{
		"object": "page",
		"entry": [{
			"id": "page-1",
			"time": 1700000000000,
			"messaging": [{
				"sender": {"id": "user-1"},
				"recipient": {"id": "page-1"},
				"timestamp": 1700000000000,
				"message": {"mid": "mid-1", "text": %q}
			}]
		}]
	}`, text)
}

func TestHandleVerify(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{}, true)

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token="+testVerifyToken+"&hub.challenge=challenge-42", http.NoBody)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "challenge-42", rec.Body.String())
}

func TestHandleVerifyWrongToken(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{}, true)

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=challenge-42", http.NoBody)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleVerifyWrongTokenLogsMismatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	handler := NewHandler(HandlerConfig{
		AppSecret:       testAppSecret,
		VerifyToken:     testVerifyToken,
		StrictSignature: true,
		Sender:          &recordingSender{},
		Composer:        testComposer(t, &stubFetcher{}),
		Metrics:         metrics.New(prometheus.NewRegistry()),
		Logger:          logger.NewWithWriter("warn", &buf),
	})
	router := gin.New()
	router.GET("/webhook", handler.HandleVerify)

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=challenge-42", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, buf.String(), apperrors.ErrVerifyTokenMismatch.Error())
}

func TestCallbackRejectsBadSignatureWhenStrict(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{}, true)

	rec := env.post(t, messageEnvelope("tell me a joke"), "sha1=deadbeef")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, env.sender.sent())
}

func TestCallbackLenientProcessesBadSignature(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{}, false)

	rec := env.post(t, messageEnvelope("tell me a joke"), "sha1=deadbeef")
	assert.Equal(t, http.StatusOK, rec.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, env.handler.Shutdown(ctx))

	assert.NotEmpty(t, env.sender.sent())
}

func TestCallbackRejectsMalformedBody(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{}, true)
	body := "not json"

	rec := env.post(t, body, messenger.SignBody(testAppSecret, []byte(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallbackIgnoresNonPageObject(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{}, true)

	rec := env.postSigned(t, `{"object": "instagram", "entry": []}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.sender.sent())
}

func TestJokeScenario(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{}, true)

	rec := env.postSigned(t, messageEnvelope("Tell me a joke"))
	assert.Equal(t, http.StatusOK, rec.Code)

	sent := env.sender.sent()
	require.Len(t, sent, 3)
	assert.Equal(t, messenger.ActionMarkSeen, sent[0].SenderAction)
	assert.Equal(t, messenger.ActionTypingOn, sent[1].SenderAction)

	require.NotNil(t, sent[2].Message)
	assert.Contains(t, sent[2].Message.Text, "Why don't cricketers ever get hot?")
	assert.Contains(t, sent[2].Message.Text, "Because of all the fans.")
	assert.Equal(t, "user-1", sent[2].Recipient.ID)
}

func TestPlayerLookupFetchFailureDegradesToTypingOff(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{searchErr: errors.New("network down")}, true)

	rec := env.postSigned(t, messageEnvelope("who is Virat Kohli"))
	assert.Equal(t, http.StatusOK, rec.Code)

	sent := env.sender.sent()
	require.Len(t, sent, 3)
	assert.Equal(t, messenger.ActionMarkSeen, sent[0].SenderAction)
	assert.Equal(t, messenger.ActionTypingOn, sent[1].SenderAction)
	assert.Equal(t, messenger.ActionTypingOff, sent[2].SenderAction)
	for _, request := range sent {
		assert.Nil(t, request.Message)
	}
}

func TestQuickReplyTopicScenario(t *testing.T) {
	docs := make([]content.PublicationSummary, 5)
	for i := range docs {
		docs[i] = content.PublicationSummary{
			Title: fmt.Sprintf("Story %d", i+1),
			URL:   fmt.Sprintf("https://example.com/%d", i+1),
		}
	}
	env := newTestEnv(t, &stubFetcher{latestResult: docs}, true)

	body := `{
		"object": "page",
		"entry": [{
			"id": "page-1",
			"time": 1700000000000,
			"messaging": [{
				"sender": {"id": "user-1"},
				"recipient": {"id": "page-1"},
				"timestamp": 1700000000000,
				"message": {
					"mid": "mid-1",
					"text": "Cricket",
					"quick_reply": {"payload": "LATEST_CRICKET_PAYLOAD"}
				}
			}]
		}]
	}`
	rec := env.postSigned(t, body)
	assert.Equal(t, http.StatusOK, rec.Code)

	sent := env.sender.sent()
	require.Len(t, sent, 3)
	template := sent[2]
	require.NotNil(t, template.Message)
	require.NotNil(t, template.Message.Attachment)
	elements := template.Message.Attachment.Payload.Elements
	require.Len(t, elements, 5)
	for _, element := range elements {
		assert.NotEmpty(t, element.ItemURL)
	}
}

func TestUnmatchedTextIsSilent(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{}, true)

	rec := env.postSigned(t, messageEnvelope("hello there"))
	assert.Equal(t, http.StatusOK, rec.Code)

	sent := env.sender.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, messenger.ActionMarkSeen, sent[0].SenderAction)
}

func TestEchoMessageSkipped(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{}, true)

	body := `{
		"object": "page",
		"entry": [{
			"id": "page-1",
			"time": 1700000000000,
			"messaging": [{
				"sender": {"id": "page-1"},
				"recipient": {"id": "user-1"},
				"timestamp": 1700000000000,
				"message": {"mid": "mid-1", "text": "tell me a joke", "is_echo": true}
			}]
		}]
	}`
	rec := env.postSigned(t, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.sender.sent())
}

func TestPostbackGetsFixedAck(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{}, true)

	body := `{
		"object": "page",
		"entry": [{
			"id": "page-1",
			"time": 1700000000000,
			"messaging": [{
				"sender": {"id": "user-1"},
				"recipient": {"id": "page-1"},
				"timestamp": 1700000000000,
				"postback": {"payload": "GET_STARTED"}
			}]
		}]
	}`
	rec := env.postSigned(t, body)
	assert.Equal(t, http.StatusOK, rec.Code)

	sent := env.sender.sent()
	require.Len(t, sent, 1)
	require.NotNil(t, sent[0].Message)
	assert.Equal(t, postbackReplyText, sent[0].Message.Text)
}

func TestOptinGetsFixedReply(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{}, true)

	body := `{
		"object": "page",
		"entry": [{
			"id": "page-1",
			"time": 1700000000000,
			"messaging": [{
				"sender": {"id": "user-1"},
				"recipient": {"id": "page-1"},
				"timestamp": 1700000000000,
				"optin": {"ref": "PASS_THROUGH"}
			}]
		}]
	}`
	rec := env.postSigned(t, body)
	assert.Equal(t, http.StatusOK, rec.Code)

	sent := env.sender.sent()
	require.Len(t, sent, 1)
	require.NotNil(t, sent[0].Message)
	assert.Equal(t, optinReplyText, sent[0].Message.Text)
}

func TestReceiptEventsSendNothing(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{}, true)

	body := `{
		"object": "page",
		"entry": [{
			"id": "page-1",
			"time": 1700000000000,
			"messaging": [
				{
					"sender": {"id": "user-1"},
					"recipient": {"id": "page-1"},
					"timestamp": 1700000000000,
					"delivery": {"watermark": 1700000000000}
				},
				{
					"sender": {"id": "user-1"},
					"recipient": {"id": "page-1"},
					"timestamp": 1700000000000,
					"read": {"watermark": 1700000000000}
				},
				{
					"sender": {"id": "user-1"},
					"recipient": {"id": "page-1"},
					"timestamp": 1700000000000
				}
			]
		}]
	}`
	rec := env.postSigned(t, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.sender.sent())
}

func TestSendFailureDoesNotEscapeHandler(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{}, true)
	env.sender.err = errors.New("send API down")

	rec := env.postSigned(t, messageEnvelope("tell me a joke"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.sender.sent(), 3)
}

func TestShutdownHonorsContext(t *testing.T) {
	env := newTestEnv(t, &stubFetcher{}, true)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, env.handler.Shutdown(ctx))
}

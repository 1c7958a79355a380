package hint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"synonymseeker/internal/a2a"
	"synonymseeker/internal/models"
)

type fakeAgent struct {
	cardFetches atomic.Int32
	lastAuth    atomic.Value
	lastSession atomic.Value
	lastData    atomic.Value
	result      string
	rpcError    *a2a.Error
}

func (f *fakeAgent) handler(t *testing.T, srvURL func() string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+a2a.AgentCardPath, func(w http.ResponseWriter, r *http.Request) {
		f.cardFetches.Add(1)
		_ = json.NewEncoder(w).Encode(a2a.AgentCard{Name: "hint-analyzer", URL: srvURL() + "/rpc"})
	})
	mux.HandleFunc("POST /rpc", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth.Store(r.Header.Get("Authorization"))
		f.lastSession.Store(r.Header.Get(a2a.SessionHeader))

		var req a2a.Request
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, a2a.MethodMessageSend, req.Method)

		var params a2a.SendParams
		if !assert.NoError(t, json.Unmarshal(req.Params, &params)) || !assert.Len(t, params.Message.Parts, 2) {
			return
		}
		assert.Contains(t, params.Message.Parts[0].Text, "Analyze guess 'sad' for target word 'happy'")
		f.lastData.Store(string(params.Message.Parts[1].Data))

		resp := a2a.Response{JSONRPC: a2a.Version, ID: req.ID, Error: f.rpcError}
		if f.rpcError == nil {
			resp.Result = json.RawMessage(f.result)
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func newAgentServer(t *testing.T, agent *fakeAgent) *httptest.Server {
	var srv *httptest.Server
	srv = httptest.NewServer(agent.handler(t, func() string { return srv.URL }))
	t.Cleanup(srv.Close)
	return srv
}

var sadRequest = models.HintRequest{Guess: "sad", TargetWord: "happy", PreviousGuesses: []string{"sad"}}

func TestA2AStageMessageResult(t *testing.T) {
	agent := &fakeAgent{result: `{"kind":"message","messageId":"m","role":"agent","parts":[{"kind":"text","text":"Opposite direction!"}]}`}
	srv := newAgentServer(t, agent)

	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok-123", TokenType: "Bearer"})
	stage := NewA2AStage(srv.URL+"/", srv.Client(), tokens)

	for i := 0; i < 2; i++ {
		text, err := stage.Hint(context.Background(), sadRequest)
		require.NoError(t, err)
		assert.Equal(t, "Opposite direction!", text)
	}

	assert.Equal(t, int32(1), agent.cardFetches.Load(), "agent card is cached")
	assert.Equal(t, "Bearer tok-123", agent.lastAuth.Load())
	assert.Len(t, agent.lastSession.Load(), 36)
	assert.JSONEq(t, `{"guess":"sad","target_word":"happy","previous_guesses":["sad"]}`, agent.lastData.Load().(string))
}

func TestA2AStageTaskResult(t *testing.T) {
	agent := &fakeAgent{result: `{"kind":"task","id":"t","artifacts":[{"artifactId":"a","parts":[{"kind":"text","text":"From a task"}]}]}`}
	srv := newAgentServer(t, agent)

	text, err := NewA2AStage(srv.URL, srv.Client(), nil).Hint(context.Background(), sadRequest)
	require.NoError(t, err)
	assert.Equal(t, "From a task", text)
	assert.Equal(t, "", agent.lastAuth.Load())
}

func TestA2AStageRPCError(t *testing.T) {
	agent := &fakeAgent{rpcError: &a2a.Error{Code: a2a.CodeInternalError, Message: "model overloaded"}}
	srv := newAgentServer(t, agent)

	_, err := NewA2AStage(srv.URL, srv.Client(), nil).Hint(context.Background(), sadRequest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestA2AStageCardUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	stage := NewA2AStage(srv.URL, srv.Client(), nil)
	_, err := stage.Hint(context.Background(), sadRequest)
	require.Error(t, err)
	assert.Nil(t, stage.card, "failed lookups are not cached")
}

func TestDirectStage(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze-hint", r.URL.Path)
		gotKey = r.Header.Get(APIKeyHeader)

		var req models.HintRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, sadRequest, req)

		_ = json.NewEncoder(w).Encode(models.HintResponse{
			HintText:     "'sad' isn't related to 'happy'.",
			AnalysisType: models.AnalysisUnrelated,
			Confidence:   0.8,
		})
	}))
	defer srv.Close()

	text, err := NewDirectStage(srv.URL, "key-1", srv.Client()).Hint(context.Background(), sadRequest)
	require.NoError(t, err)
	assert.Equal(t, "'sad' isn't related to 'happy'.", text)
	assert.Equal(t, "key-1", gotKey)
}

func TestDirectStageErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewDirectStage(srv.URL, "", srv.Client()).Hint(context.Background(), sadRequest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestFallbackChainOverHTTP(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()

	o := NewOrchestrator(
		StageConfig{Stage: NewA2AStage(down.URL, down.Client(), nil)},
		StageConfig{Stage: NewDirectStage(down.URL, "", down.Client())},
	)

	hint := o.ObtainHint(context.Background(), "sad", "happy", nil)
	assert.Equal(t, "'sad' is not a synonym of 'happy'. Think of words that have a similar meaning to 'happy'.", hint)
}

func TestNewTokenSource(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, NewTokenSource(ctx, TokenConfig{}))

	static := NewTokenSource(ctx, TokenConfig{BearerToken: "abc"})
	tok, err := static.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.AccessToken)

	signed := NewTokenSource(ctx, TokenConfig{SigningKey: "k", BearerToken: "abc"})
	tok, err = signed.Token()
	require.NoError(t, err)
	assert.NotEqual(t, "abc", tok.AccessToken)

	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"from-idp","token_type":"bearer","expires_in":3600}`))
	}))
	defer idp.Close()

	cc := NewTokenSource(ctx, TokenConfig{OAuthTokenURL: idp.URL, OAuthClientID: "id", OAuthClientSecret: "secret", SigningKey: "k"})
	tok, err = cc.Token()
	require.NoError(t, err)
	assert.Equal(t, "from-idp", tok.AccessToken)
}

func TestA2AStageCardFetchHonorsCallerContext(t *testing.T) {
	release := make(chan struct{})
	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		<-release
		_ = json.NewEncoder(w).Encode(a2a.AgentCard{Name: "slow"})
	}))
	defer srv.Close()
	defer close(release)

	stage := NewA2AStage(srv.URL, srv.Client(), nil)

	slowDone := make(chan struct{})
	go func() {
		defer close(slowDone)
		_, _ = stage.agentCard(context.Background())
	}()
	require.Eventually(t, func() bool { return fetches.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := stage.agentCard(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "waiting caller is not stuck behind the slow fetch")
	assert.Equal(t, int32(1), fetches.Load(), "concurrent callers share one fetch")

	release <- struct{}{}
	<-slowDone
	assert.NotNil(t, stage.card)
}

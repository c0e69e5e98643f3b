package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/tazhibayda/gist-tracker/internal/config"
	api "github.com/tazhibayda/gist-tracker/internal/http"
	applog "github.com/tazhibayda/gist-tracker/internal/log"
	"github.com/tazhibayda/gist-tracker/internal/queue"
	"github.com/tazhibayda/gist-tracker/internal/repo"
)

const testSecret = "integration-test-secret-1234"

type testEnv struct {
	T      *testing.T
	Ctx    context.Context
	Mongo  *mongodb.MongoDBContainer
	Mgr    *repo.Manager
	Store  *repo.Store
	Router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	mc, err := mongodb.Run(ctx, "mongo:6")
	if err != nil {
		t.Fatalf("mongo container: %v", err)
	}
	uri, err := mc.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("mongo uri: %v", err)
	}

	if _, err := applog.Init(false); err != nil {
		t.Fatalf("log init: %v", err)
	}

	cfg := config.Config{
		MongoURI:  uri,
		MongoDB:   fmt.Sprintf("gist_tracker_test_%d", time.Now().UnixNano()),
		JWTSecret: testSecret,
		Mongo:     config.DefaultMongo(),
	}
	mgr := repo.NewManager(cfg)
	store, err := mgr.Connect(ctx)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}

	h := api.NewHandler(mgr, testSecret, false, nil, 0, queue.NewNoop())
	gin.SetMode(gin.TestMode)

	return &testEnv{
		T: t, Ctx: ctx, Mongo: mc, Mgr: mgr, Store: store,
		Router: api.NewRouter(h),
	}
}

func (e *testEnv) Close() {
	if e.Mgr != nil {
		_ = e.Mgr.Close(e.Ctx)
	}
	if e.Mongo != nil {
		_ = e.Mongo.Terminate(e.Ctx)
	}
}

// do runs one request through the router. body may be a raw string or
// anything JSON-marshalable.
func (e *testEnv) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e.T.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				e.T.Fatalf("encode body: %v", err)
			}
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) decode(w *httptest.ResponseRecorder, into any) {
	e.T.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		e.T.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// signupAndLogin registers a user and returns their session cookie.
func (e *testEnv) signupAndLogin(name, email, password string) *http.Cookie {
	e.T.Helper()
	w := e.do("POST", "/api/auth/signup", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if w.Code != http.StatusCreated {
		e.T.Fatalf("signup code=%d body=%s", w.Code, w.Body.String())
	}

	w = e.do("POST", "/api/auth/login", map[string]string{
		"email": email, "password": password,
	})
	if w.Code != http.StatusOK {
		e.T.Fatalf("login code=%d body=%s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "auth_token" && c.Value != "" {
			return c
		}
	}
	e.T.Fatal("login did not set auth_token cookie")
	return nil
}

// createGist returns the new gist's id.
func (e *testEnv) createGist(session *http.Cookie, title string, public bool) string {
	e.T.Helper()
	w := e.do("POST", "/api/gists", map[string]any{
		"title": title, "content": "package main", "language": "go", "isPublic": public,
	}, session)
	if w.Code != http.StatusCreated {
		e.T.Fatalf("create gist code=%d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		GistID string `json:"gistId"`
	}
	e.decode(w, &out)
	if out.GistID == "" {
		e.T.Fatalf("no gistId in %s", w.Body.String())
	}
	return out.GistID
}

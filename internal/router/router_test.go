package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/dytool-backend/internal/config"
	"github.com/deppfellow/dytool-backend/internal/handler"
	"github.com/deppfellow/dytool-backend/internal/lib/douyin"
	"github.com/deppfellow/dytool-backend/internal/repository"
	"github.com/deppfellow/dytool-backend/internal/server"
	"github.com/deppfellow/dytool-backend/internal/service"
)

const testSecUserID = "MS4wLjABAAAAtestuser"

var validCookie = "sessionid=" + strings.Repeat("x", 110)

// fakeDouyin redirects /abc to a profile URL and serves the profile API.
// profileBody is written verbatim by the profile endpoint.
func fakeDouyin(t *testing.T, profileBody string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/abc", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/share/user/"+testSecUserID+"?sec_uid="+testSecUserID, http.StatusFound)
	})
	mux.HandleFunc("/share/user/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/aweme/v1/web/user/profile/other/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(profileBody))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T, douyinURL string, tweaks ...func(*config.Config)) *echo.Echo {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			CORSAllowedOrigins: []string{"*"},
		},
		Douyin: config.DouyinConfig{
			BaseURL:         douyinURL,
			Timeout:         2 * time.Second,
			MinCookieLength: 100,
		},
		Observability: config.DefaultObservabilityConfig(),
	}
	for _, tweak := range tweaks {
		tweak(cfg)
	}

	s := &server.Server{
		Config: cfg,
		Logger: &logger,
		Douyin: douyin.NewClient(douyin.OptionsFromConfig(cfg, &logger)),
	}

	services := service.NewServices(s, repository.NewRepositories(s))
	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(t *testing.T, r *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSystemRoutes(t *testing.T) {
	r := newTestRouter(t, "http://127.0.0.1:1")

	rec := do(t, r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"dyTool Backend"}`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, map[string]any{"status": "disabled"}, body["checks"].(map[string]any)["redis"])

	rec = do(t, r, http.MethodGet, "/docs/openapi.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/users/parse")

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestParseUser_NoCookie(t *testing.T) {
	dy := fakeDouyin(t, "")
	r := newTestRouter(t, dy.URL)

	rec := do(t, r, http.MethodPost, "/api/users/parse", `{"url": "`+dy.URL+`/abc", "cookie": null}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "Cookie")

	data := body["data"].(map[string]any)
	assert.Equal(t, testSecUserID, data["sec_user_id"])
	assert.Contains(t, data, "nickname")
	assert.Nil(t, data["nickname"])
}

func TestParseUser_Success(t *testing.T) {
	dy := fakeDouyin(t, `{"status_code":0,"user":{"uid":"42","nickname":"tester","avatar_larger":{"url_list":["A","B"]},"follower_count":7}}`)
	r := newTestRouter(t, dy.URL)

	rec := do(t, r, http.MethodPost, "/api/users/parse", `{"url": "share `+dy.URL+`/abc now", "cookie": "`+validCookie+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, service.MsgParsed, body["message"])

	data := body["data"].(map[string]any)
	assert.Equal(t, testSecUserID, data["sec_user_id"])
	assert.Equal(t, "42", data["uid"])
	assert.Equal(t, "A", data["avatar"])
	assert.Equal(t, float64(7), data["follower_count"])
	assert.Nil(t, data["aweme_count"])
}

func TestParseUser_EmptyProfileBody(t *testing.T) {
	dy := fakeDouyin(t, "")
	r := newTestRouter(t, dy.URL)

	rec := do(t, r, http.MethodPost, "/api/users/parse", `{"url": "`+dy.URL+`/abc", "cookie": "`+validCookie+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, service.MsgCookieExpired, body["message"])
	assert.Contains(t, body, "data")
	assert.Nil(t, body["data"])
}

func TestParseUser_UnreachableLinkIsNotCookieFailure(t *testing.T) {
	dy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	link := dy.URL + "/abc"
	dy.Close()

	r := newTestRouter(t, dy.URL, func(cfg *config.Config) {
		cfg.Douyin.MaxRetries = 2
		cfg.Douyin.RetryWait = time.Millisecond
	})

	for _, cookie := range []string{`null`, `"` + validCookie + `"`} {
		rec := do(t, r, http.MethodPost, "/api/users/parse", `{"url": "`+link+`", "cookie": `+cookie+`}`)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.NotEqual(t, service.MsgCookieExpired, body["message"])
		assert.True(t, strings.HasPrefix(body["message"].(string), "parsing failed: "), body["message"])
		assert.Nil(t, body["data"])
	}
}

func TestParseUser_NoLink(t *testing.T) {
	r := newTestRouter(t, "http://127.0.0.1:1")

	rec := do(t, r, http.MethodPost, "/api/users/parse", `{"url": "no link in here"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"`+service.MsgInvalidLink+`","data":null}`, rec.Body.String())
}

func TestParseUser_BadRequests(t *testing.T) {
	r := newTestRouter(t, "http://127.0.0.1:1")

	rec := do(t, r, http.MethodPost, "/api/users/parse", `{"cookie": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", decode(t, rec)["code"])

	rec = do(t, r, http.MethodPost, "/api/users/parse", `{"url": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractID(t *testing.T) {
	r := newTestRouter(t, "http://127.0.0.1:1")

	rec := do(t, r, http.MethodGet, "/api/users/extract-id?url=https%3A%2F%2Fwww.douyin.com%2Fuser%2F"+testSecUserID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"sec_user_id":"`+testSecUserID+`"}`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/api/users/extract-id?url=nothing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"`+service.MsgExtractNotFound+`"}`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/api/users/extract-id", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package douyin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/dytool-backend/internal/scrapeerr"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Options{
		BaseURL:    baseURL,
		Timeout:    2 * time.Second,
		MaxRetries: 0,
	})
}

func TestExtractURL(t *testing.T) {
	text := "7.94 复制打开抖音，看看【某某的作品】 https://v.douyin.com/iRNBho6u/ 01/23 abc:/"
	assert.Equal(t, "https://v.douyin.com/iRNBho6u/", ExtractURL(text))
	assert.Equal(t, "", ExtractURL("no link here"))
}

func TestResolveSecUserID_NoURL(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	id, err := client.ResolveSecUserID(context.Background(), "just some text")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestResolveSecUserID_ProfileURLWithoutNetwork(t *testing.T) {
	// unreachable base URL: any request would fail
	client := newTestClient("http://127.0.0.1:1")

	id, err := client.ResolveSecUserID(context.Background(), "https://www.douyin.com/user/MS4wLjABAAAAtest?from_tab_name=main")
	require.NoError(t, err)
	assert.Equal(t, "MS4wLjABAAAAtest", id)
}

func TestResolveSecUserID_FollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/iRNBho6u/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/share/user/MS4wLjABAAAAredirect?did=1&sec_uid=MS4wLjABAAAAredirect&u_code=x", http.StatusFound)
	})
	mux.HandleFunc("/share/user/", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Chrome/120")
		assert.Equal(t, DefaultReferer, r.Header.Get("Referer"))
		_, _ = w.Write([]byte("<html></html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL)

	id, err := client.ResolveSecUserID(context.Background(), "看看 "+server.URL+"/iRNBho6u/ 复制此链接")
	require.NoError(t, err)
	assert.Equal(t, "MS4wLjABAAAAredirect", id)
}

func TestResolveSecUserID_CanonicalFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html><head><link rel="canonical" href="https://www.douyin.com/user/MS4wLjABAAAAcanonical"></head></html>`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	id, err := client.ResolveSecUserID(context.Background(), server.URL+"/landing")
	require.NoError(t, err)
	assert.Equal(t, "MS4wLjABAAAAcanonical", id)
}

func TestResolveSecUserID_NoIdentifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html><body>video page</body></html>`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.ResolveSecUserID(context.Background(), server.URL+"/video/123")
	require.Error(t, err)
	assert.Equal(t, scrapeerr.InvalidIdentifier, scrapeerr.ErrCode(err))
	assert.Contains(t, err.Error(), "sec_user_id")
}

func TestResolveSecUserID_StatusCodes(t *testing.T) {
	cases := []struct {
		status int
		want   scrapeerr.Code
	}{
		{http.StatusUnauthorized, scrapeerr.Unauthorized},
		{http.StatusNotFound, scrapeerr.NotFound},
		{http.StatusServiceUnavailable, scrapeerr.Unavailable},
		{http.StatusTeapot, scrapeerr.Response},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			client := newTestClient(server.URL)

			_, err := client.ResolveSecUserID(context.Background(), server.URL+"/abc")
			require.Error(t, err)
			assert.Equal(t, tc.want, scrapeerr.ErrCode(err))
		})
	}
}

func TestResolveSecUserID_UnreachableLinkIsConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(Options{
		BaseURL:    url,
		Timeout:    time.Second,
		MaxRetries: 1,
		RetryWait:  time.Millisecond,
	})

	_, err := client.ResolveSecUserID(context.Background(), url+"/abc")
	require.Error(t, err)
	assert.Equal(t, scrapeerr.Connection, scrapeerr.ErrCode(err))
	assert.False(t, scrapeerr.IsAuthFailure(scrapeerr.HandleError(err)))
}

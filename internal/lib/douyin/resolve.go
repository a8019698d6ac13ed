package douyin

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/deppfellow/dytool-backend/internal/scrapeerr"
)

var (
	// Share text from the app looks like "7.94 复制打开抖音，看看... https://v.douyin.com/iRNBho6u/ ...".
	urlPattern = regexp.MustCompile(`https?://[^\s]+`)

	userPathPattern = regexp.MustCompile(`user/([^/?#&]+)`)
	secUIDPattern   = regexp.MustCompile(`sec_uid=([^&#]+)`)
)

// ExtractURL returns the first http(s) URL found in text, or "".
func ExtractURL(text string) string {
	return urlPattern.FindString(strings.TrimSpace(text))
}

// matchSecUserID looks for a sec_user_id in a URL, trying the sec_uid query
// parameter before the /user/<id> path segment.
func matchSecUserID(raw string) string {
	if m := secUIDPattern.FindStringSubmatch(raw); len(m) > 1 {
		if id, err := url.QueryUnescape(m[1]); err == nil {
			return id
		}
		return m[1]
	}
	if m := userPathPattern.FindStringSubmatch(raw); len(m) > 1 {
		return m[1]
	}
	return ""
}

func isDouyinHost(host string) bool {
	host = strings.ToLower(host)
	return host == "douyin.com" || strings.HasSuffix(host, ".douyin.com") ||
		host == "iesdouyin.com" || strings.HasSuffix(host, ".iesdouyin.com")
}

func isShortLink(host string) bool {
	return strings.EqualFold(host, "v.douyin.com")
}

// ResolveSecUserID extracts a user's sec_user_id from a share link, a short
// link or a profile URL.
//
// It returns ("", nil) when the input contains no URL at all. Profile URLs
// that already carry the id are answered without network I/O; everything
// else is requested and the id is read from the final redirected URL, falling
// back to the canonical URL of the landing page.
func (c *Client) ResolveSecUserID(ctx context.Context, input string) (string, error) {
	link := ExtractURL(input)
	if link == "" {
		return "", nil
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return "", scrapeerr.Wrap(scrapeerr.InvalidIdentifier, err, "invalid URL, cannot find sec_user_id").WithURL(link)
	}

	if isDouyinHost(parsed.Host) && !isShortLink(parsed.Host) {
		if id := matchSecUserID(link); id != "" {
			return id, nil
		}
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return "", connectionError(err, link)
	}

	switch res.StatusCode() {
	case http.StatusOK, 444:
	case http.StatusUnauthorized:
		return "", scrapeerr.New(scrapeerr.Unauthorized, "douyin rejected the request").WithURL(link).WithStatus(res.StatusCode())
	case http.StatusNotFound:
		return "", scrapeerr.New(scrapeerr.NotFound, "link does not exist").WithURL(link).WithStatus(res.StatusCode())
	case http.StatusServiceUnavailable:
		return "", scrapeerr.New(scrapeerr.Unavailable, "douyin is unavailable").WithURL(link).WithStatus(res.StatusCode())
	default:
		return "", scrapeerr.New(scrapeerr.Response, "unexpected status resolving link").WithURL(link).WithStatus(res.StatusCode())
	}

	finalURL := link
	if res.RawResponse != nil && res.RawResponse.Request != nil && res.RawResponse.Request.URL != nil {
		finalURL = res.RawResponse.Request.URL.String()
	}

	if id := matchSecUserID(finalURL); id != "" {
		return id, nil
	}

	if id := secUserIDFromPage(res.Body()); id != "" {
		return id, nil
	}

	c.logger.Debug().
		Str("url", link).
		Str("final_url", finalURL).
		Msg("no sec_user_id in resolved address")

	return "", scrapeerr.New(scrapeerr.InvalidIdentifier,
		"sec_user_id not found in the resolved address, check that the link is a user profile link").WithURL(finalURL)
}

// secUserIDFromPage reads the canonical and og:url links of a landing page.
func secUserIDFromPage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	candidates := []string{
		doc.Find(`link[rel="canonical"]`).AttrOr("href", ""),
		doc.Find(`meta[property="og:url"]`).AttrOr("content", ""),
	}
	for _, candidate := range candidates {
		if id := matchSecUserID(candidate); id != "" {
			return id
		}
	}
	return ""
}

// connectionError tags a failed link resolution. Retry exhaustion here says
// nothing about the cookie, which is only sent to the profile API.
func connectionError(err error, link string) *scrapeerr.Error {
	if errors.Is(err, context.Canceled) {
		return scrapeerr.Wrap(scrapeerr.Connection, err, "request cancelled").WithURL(link)
	}
	return scrapeerr.Wrap(scrapeerr.Connection, err, "could not reach link").WithURL(link)
}

// transportError tags a failed profile request. Once retries are spent Douyin
// is treated as refusing the cookie.
func (c *Client) transportError(err error, link string) *scrapeerr.Error {
	if errors.Is(err, context.Canceled) {
		return scrapeerr.Wrap(scrapeerr.Connection, err, "request cancelled").WithURL(link)
	}
	if c.maxRetries > 0 {
		return scrapeerr.Wrap(scrapeerr.RetryExhausted, err, "retry limit exceeded").WithURL(link)
	}
	return scrapeerr.Wrap(scrapeerr.Connection, err, "request failed").WithURL(link)
}

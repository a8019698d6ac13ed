package douyin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/deppfellow/dytool-backend/internal/scrapeerr"
)

const profilePath = "/aweme/v1/web/user/profile/other/"

// RawProfile is the subset of Douyin's user object this service exposes.
// Every field is optional; a nil pointer means Douyin did not send it.
type RawProfile struct {
	SecUID    *string
	UID       *string
	Nickname  *string
	Signature *string

	// Avatar is the first candidate of avatar_larger.
	Avatar *string

	FollowingCount  *int64
	FollowerCount   *int64
	AwemeCount      *int64
	FavoritingCount *int64
	TotalFavorited  *int64
}

type rawProfileWire struct {
	SecUID          *flexString     `json:"sec_uid"`
	UID             *flexString     `json:"uid"`
	Nickname        *flexString     `json:"nickname"`
	Signature       *flexString     `json:"signature"`
	AvatarLarger    json.RawMessage `json:"avatar_larger"`
	FollowingCount  *flexInt        `json:"following_count"`
	FollowerCount   *flexInt        `json:"follower_count"`
	AwemeCount      *flexInt        `json:"aweme_count"`
	FavoritingCount *flexInt        `json:"favoriting_count"`
	TotalFavorited  *flexInt        `json:"total_favorited"`
}

// UnmarshalJSON tolerates the type drift seen in Douyin payloads: ids and
// counters may arrive as strings or numbers, and avatar_larger as a URL or
// as {"url_list": [...]}.
func (p *RawProfile) UnmarshalJSON(data []byte) error {
	var wire rawProfileWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*p = RawProfile{
		SecUID:          wire.SecUID.ptr(),
		UID:             wire.UID.ptr(),
		Nickname:        wire.Nickname.ptr(),
		Signature:       wire.Signature.ptr(),
		Avatar:          NormalizeAvatar(wire.AvatarLarger),
		FollowingCount:  wire.FollowingCount.ptr(),
		FollowerCount:   wire.FollowerCount.ptr(),
		AwemeCount:      wire.AwemeCount.ptr(),
		FavoritingCount: wire.FavoritingCount.ptr(),
		TotalFavorited:  wire.TotalFavorited.ptr(),
	}
	return nil
}

// NormalizeAvatar picks a single avatar URL out of an avatar field that is
// either a URL string or an object holding a url_list. Anything else,
// including an empty url_list, yields nil.
func NormalizeAvatar(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var direct string
	if err := json.Unmarshal(raw, &direct); err == nil {
		if direct == "" {
			return nil
		}
		return &direct
	}

	var image struct {
		URLList []string `json:"url_list"`
	}
	if err := json.Unmarshal(raw, &image); err == nil && len(image.URLList) > 0 {
		first := image.URLList[0]
		return &first
	}

	return nil
}

type profileResponse struct {
	StatusCode int             `json:"status_code"`
	StatusMsg  string          `json:"status_msg"`
	User       json.RawMessage `json:"user"`
}

// FetchUserProfile fetches the profile of secUserID using cookie.
//
// It returns (nil, nil) when Douyin answers but has no user for the request,
// which is how an unauthorised cookie usually shows up.
func (c *Client) FetchUserProfile(ctx context.Context, secUserID, cookie string) (*RawProfile, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Cookie", cookie).
		SetQueryParams(profileQuery(secUserID)).
		Get(profilePath)
	if err != nil {
		return nil, c.transportError(err, profilePath)
	}

	if res.StatusCode() != http.StatusOK {
		return nil, scrapeerr.New(scrapeerr.Response, "unexpected status fetching profile").
			WithURL(profilePath).
			WithStatus(res.StatusCode())
	}

	body := bytes.TrimSpace(res.Body())
	if len(body) == 0 {
		return nil, scrapeerr.New(scrapeerr.EmptyResponse, "empty response fetching profile").WithURL(profilePath)
	}

	var payload profileResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, scrapeerr.Wrap(scrapeerr.Response, err, "could not decode profile response").WithURL(profilePath)
	}

	if payload.StatusCode != 0 || len(payload.User) == 0 || bytes.Equal(payload.User, []byte("null")) {
		c.logger.Debug().
			Str("sec_user_id", secUserID).
			Int("status_code", payload.StatusCode).
			Str("status_msg", payload.StatusMsg).
			Msg("douyin returned no user")
		return nil, nil
	}

	var profile RawProfile
	if err := json.Unmarshal(payload.User, &profile); err != nil {
		return nil, scrapeerr.Wrap(scrapeerr.Response, err, "could not decode user object").WithURL(profilePath)
	}

	return &profile, nil
}

func profileQuery(secUserID string) map[string]string {
	return map[string]string{
		"device_platform":             "webapp",
		"aid":                         "6383",
		"channel":                     "channel_pc_web",
		"publish_video_strategy_type": "2",
		"source":                      "channel_pc_web",
		"sec_user_id":                 secUserID,
		"personal_center_strategy":    "1",
		"pc_client_type":              "1",
		"version_code":                "170400",
		"version_name":                "17.4.0",
		"cookie_enabled":              "true",
		"platform":                    "PC",
		"downlink":                    "10",
	}
}

// flexString decodes a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = flexString(num.String())
	return nil
}

func (s *flexString) ptr() *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

// flexInt decodes a JSON number or numeric string. Values that are neither
// are dropped instead of failing the whole record.
type flexInt struct {
	value int64
	valid bool
}

func (n *flexInt) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		if v, err := num.Int64(); err == nil {
			*n = flexInt{value: v, valid: true}
		}
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if v, err := strconv.ParseInt(str, 10, 64); err == nil {
			*n = flexInt{value: v, valid: true}
		}
	}
	return nil
}

func (n *flexInt) ptr() *int64 {
	if n == nil || !n.valid {
		return nil
	}
	v := n.value
	return &v
}

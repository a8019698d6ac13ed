// Package dto holds the request and response shapes of the user endpoints.
//
// JSON names are part of the contract with the desktop client and must not change.
package dto

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ParseUserRequest is the body of POST /api/users/parse.
//
// URL is a pointer so that a missing field is rejected while an empty string
// still reaches the workflow and gets the "bad link" answer.
type ParseUserRequest struct {
	URL    *string `json:"url" validate:"required"`
	Cookie *string `json:"cookie"`
}

func (r *ParseUserRequest) Validate() error {
	return validate.Struct(r)
}

// Link returns the URL or "".
func (r *ParseUserRequest) Link() string {
	if r.URL == nil {
		return ""
	}
	return *r.URL
}

// CookieValue returns the cookie or "" when none was sent.
func (r *ParseUserRequest) CookieValue() string {
	if r.Cookie == nil {
		return ""
	}
	return *r.Cookie
}

// ExtractIDRequest is the query of GET /api/users/extract-id.
type ExtractIDRequest struct {
	URL string `query:"url" validate:"required"`
}

func (r *ExtractIDRequest) Validate() error {
	return validate.Struct(r)
}

// UserProfile is the public view of a Douyin user. Only SecUserID is always set.
type UserProfile struct {
	SecUserID       string  `json:"sec_user_id"`
	UID             *string `json:"uid"`
	Nickname        *string `json:"nickname"`
	Signature       *string `json:"signature"`
	Avatar          *string `json:"avatar"`
	FollowingCount  *int64  `json:"following_count"`
	FollowerCount   *int64  `json:"follower_count"`
	AwemeCount      *int64  `json:"aweme_count"`
	FavoritingCount *int64  `json:"favoriting_count"`
	TotalFavorited  *int64  `json:"total_favorited"`
}

// ParseUserResponse is always written with 200; Success carries the outcome.
type ParseUserResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    *UserProfile `json:"data"`
}

type ExtractIDResponse struct {
	Success   bool   `json:"success"`
	SecUserID string `json:"sec_user_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

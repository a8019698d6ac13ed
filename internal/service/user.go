package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/deppfellow/dytool-backend/internal/dto"
	"github.com/deppfellow/dytool-backend/internal/lib/douyin"
	"github.com/deppfellow/dytool-backend/internal/scrapeerr"
)

const (
	MsgInvalidLink     = "could not extract a user ID from the link, check that the link is correctly formatted"
	MsgCookieRequired  = "a valid Cookie is required to fetch user info, configure a Douyin Cookie in settings"
	MsgFetchFailed     = "failed to fetch user info, check that the Cookie is valid"
	MsgParsed          = "parsed successfully"
	MsgNeedProfileURL  = "could not parse the user link, use the full profile URL (https://www.douyin.com/user/xxx)"
	MsgCookieExpired   = "Cookie is invalid or expired, reconfigure it"
	MsgParseFailedFmt  = "parsing failed: %s"
	MsgExtractNotFound = "could not extract user id"

	defaultMinCookieLength = 100
)

type SecUserIDResolver interface {
	ResolveSecUserID(ctx context.Context, input string) (string, error)
}

type ProfileFetcher interface {
	FetchUserProfile(ctx context.Context, secUserID, cookie string) (*douyin.RawProfile, error)
}

// SecUserIDCache is consulted before the resolver. Its errors are logged, never returned.
type SecUserIDCache interface {
	Get(ctx context.Context, link string) (string, bool, error)
	Set(ctx context.Context, link, id string) error
}

type UserServiceDeps struct {
	Resolver SecUserIDResolver
	Fetcher  ProfileFetcher

	// Cache is optional.
	Cache SecUserIDCache

	// MinCookieLength defaults to 100.
	MinCookieLength int

	Logger *zerolog.Logger
}

type UserService struct {
	resolver        SecUserIDResolver
	fetcher         ProfileFetcher
	cache           SecUserIDCache
	minCookieLength int
	logger          zerolog.Logger
}

func NewUserService(deps UserServiceDeps) *UserService {
	logger := zerolog.Nop()
	if deps.Logger != nil {
		logger = deps.Logger.With().Str("service", "user").Logger()
	}

	minLen := deps.MinCookieLength
	if minLen <= 0 {
		minLen = defaultMinCookieLength
	}

	return &UserService{
		resolver:        deps.Resolver,
		fetcher:         deps.Fetcher,
		cache:           deps.Cache,
		minCookieLength: minLen,
		logger:          logger,
	}
}

// ParseUser resolves link to a sec_user_id and fetches the profile with cookie.
//
// Every outcome, failures included, is reported in the response; it never
// returns an error. A response with success=false and data carrying only
// sec_user_id means the link was fine but the cookie was not.
func (s *UserService) ParseUser(ctx context.Context, link, cookie string) dto.ParseUserResponse {
	secUserID, err := s.resolve(ctx, link)
	if err != nil {
		return s.failure(ctx, err)
	}

	if secUserID == "" {
		return dto.ParseUserResponse{Success: false, Message: MsgInvalidLink}
	}

	// length is counted in characters, not bytes
	if utf8.RuneCountInString(cookie) < s.minCookieLength {
		return dto.ParseUserResponse{
			Success: false,
			Message: MsgCookieRequired,
			Data:    &dto.UserProfile{SecUserID: secUserID},
		}
	}

	raw, err := s.fetcher.FetchUserProfile(ctx, secUserID, cookie)
	if err != nil {
		return s.failure(ctx, err)
	}

	if raw == nil {
		return dto.ParseUserResponse{
			Success: false,
			Message: MsgFetchFailed,
			Data:    &dto.UserProfile{SecUserID: secUserID},
		}
	}

	return dto.ParseUserResponse{
		Success: true,
		Message: MsgParsed,
		Data:    toUserProfile(secUserID, raw),
	}
}

// ExtractSecUserID only resolves link.
func (s *UserService) ExtractSecUserID(ctx context.Context, link string) dto.ExtractIDResponse {
	secUserID, err := s.resolve(ctx, link)
	if err != nil {
		s.log(ctx).Warn().Err(err).Str("url", link).Msg("failed to extract sec_user_id")
		return dto.ExtractIDResponse{Success: false, Error: err.Error()}
	}

	if secUserID == "" {
		return dto.ExtractIDResponse{Success: false, Error: MsgExtractNotFound}
	}

	return dto.ExtractIDResponse{Success: true, SecUserID: secUserID}
}

func (s *UserService) resolve(ctx context.Context, link string) (string, error) {
	if s.cache != nil {
		id, ok, err := s.cache.Get(ctx, link)
		if err != nil {
			s.log(ctx).Warn().Err(err).Msg("sec_user_id cache read failed")
		} else if ok {
			return id, nil
		}
	}

	id, err := s.resolver.ResolveSecUserID(ctx, link)
	if err != nil || id == "" {
		return id, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, link, id); err != nil {
			s.log(ctx).Warn().Err(err).Msg("sec_user_id cache write failed")
		}
	}

	return id, nil
}

func (s *UserService) failure(ctx context.Context, err error) dto.ParseUserResponse {
	code := scrapeerr.HandleError(err)

	s.log(ctx).Warn().
		Err(err).
		Str("kind", code.String()).
		Msg("user parse failed")

	var message string
	switch {
	case code == scrapeerr.InvalidIdentifier:
		message = MsgNeedProfileURL
	case scrapeerr.IsAuthFailure(code):
		message = MsgCookieExpired
	default:
		message = fmt.Sprintf(MsgParseFailedFmt, err.Error())
	}

	return dto.ParseUserResponse{Success: false, Message: message}
}

// log prefers the request logger carried by ctx.
func (s *UserService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}

func toUserProfile(secUserID string, raw *douyin.RawProfile) *dto.UserProfile {
	return &dto.UserProfile{
		SecUserID:       secUserID,
		UID:             raw.UID,
		Nickname:        raw.Nickname,
		Signature:       raw.Signature,
		Avatar:          raw.Avatar,
		FollowingCount:  raw.FollowingCount,
		FollowerCount:   raw.FollowerCount,
		AwemeCount:      raw.AwemeCount,
		FavoritingCount: raw.FavoritingCount,
		TotalFavorited:  raw.TotalFavorited,
	}
}

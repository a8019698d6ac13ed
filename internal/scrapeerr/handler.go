package scrapeerr

import (
	"errors"
	"strings"
)

// Phrases that identify a failure kind in errors that were not tagged by the
// client, e.g. errors wrapped by a third party before reaching the workflow.
// The Chinese variants are the wording used by the f2 scraping library.
var (
	identifierPhrases     = []string{"sec_user_id"}
	retryExhaustedPhrases = []string{"重试次数达到上限", "retry limit exceeded", "retries exhausted"}
	emptyResponsePhrases  = []string{"响应内容为空", "empty response"}
)

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var scrapeErr *Error
	if errors.As(err, &scrapeErr) {
		return scrapeErr.Code
	}
	return Other
}

// HandleError classifies err.
//
// Tagged errors are classified by their Code only. Untagged errors fall back
// to matching known phrases in the message, checked in this order:
// identifier, retry exhaustion, empty response.
func HandleError(err error) Code {
	if err == nil {
		return Other
	}

	var scrapeErr *Error
	if errors.As(err, &scrapeErr) {
		return scrapeErr.Code
	}

	msg := err.Error()
	switch {
	case containsAny(msg, identifierPhrases):
		return InvalidIdentifier
	case containsAny(msg, retryExhaustedPhrases):
		return RetryExhausted
	case containsAny(msg, emptyResponsePhrases):
		return EmptyResponse
	}

	return Other
}

// IsAuthFailure reports whether code means the cookie was rejected.
func IsAuthFailure(code Code) bool {
	return code == RetryExhausted || code == EmptyResponse
}

func containsAny(s string, phrases []string) bool {
	lower := strings.ToLower(s)
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

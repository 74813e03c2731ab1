// Package httperr maps aggregator API status codes onto domain error
// codes so every source client classifies failures the same way.
package httperr

import (
	"fmt"
	"net/http"

	"github.com/yldfi/quotemux/business/aggregator/domain"
	"github.com/yldfi/quotemux/internal/apperror"
	"github.com/yldfi/quotemux/internal/httpclient"
)

const maxSnippet = 256

// Handler returns a ResponseErrorHandler for the given source.
func Handler(src domain.Source) httpclient.ResponseErrorHandler {
	return func(statusCode int, body []byte) error {
		if statusCode < http.StatusBadRequest {
			return nil
		}
		code := apperror.CodeSourceAPIError
		switch {
		case statusCode == http.StatusTooManyRequests:
			code = apperror.CodeSourceRateLimited
		case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
			code = apperror.CodeSourceUnauthorized
		case statusCode >= http.StatusInternalServerError:
			code = apperror.CodeSourceUnavailable
		}

		snippet := string(body)
		if len(snippet) > maxSnippet {
			snippet = snippet[:maxSnippet]
		}

		return apperror.New(code,
			apperror.WithStatusCode(statusCode),
			apperror.WithContext(fmt.Sprintf("source=%s status=%d body=%s", src, statusCode, snippet)),
		)
	}
}

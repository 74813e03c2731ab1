package openocean

import (
	"context"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yldfi/quotemux/business/aggregator/app"
	"github.com/yldfi/quotemux/business/aggregator/domain"
	"github.com/yldfi/quotemux/internal/apperror"
	"github.com/yldfi/quotemux/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func testReq() app.QuoteRequest {
	return app.QuoteRequest{
		ChainID:  1,
		TokenIn:  "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		TokenOut: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		AmountIn: big.NewInt(1_000_000_000_000_000_000),
	}
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v4/1/quote", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", q.Get("inTokenAddress"))
		require.Equal(t, "1000000000000000000", q.Get("amountDecimals"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"data":{"outAmount":"3412051234","estimatedGas":189000}}`))
	}))
	defer srv.Close()

	f, err := New(Config{BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)

	quote, err := f.Fetch(context.Background(), testReq())
	require.NoError(t, err)
	require.Equal(t, domain.SourceOpenOcean, quote.Source)
	require.Equal(t, "3412051234", quote.AmountOut.String())
	require.NotNil(t, quote.EstimatedGas)
	require.Equal(t, uint64(189000), *quote.EstimatedGas)
	require.NotEmpty(t, quote.Raw)
}

func TestFetchBodyLevelError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":400,"error":"token not supported"}`))
	}))
	defer srv.Close()

	f, err := New(Config{BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), testReq())
	require.Error(t, err)
	require.Equal(t, apperror.CodeSourceAPIError, apperror.GetCode(err))
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f, err := New(Config{BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), testReq())
	require.Error(t, err)
	require.Equal(t, apperror.CodeSourceUnavailable, apperror.GetCode(err))
}

func TestFetchZeroOutputIsNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"data":{"outAmount":"0"}}`))
	}))
	defer srv.Close()

	f, err := New(Config{BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), testReq())
	require.Equal(t, apperror.CodeNoRoute, apperror.GetCode(err))
}

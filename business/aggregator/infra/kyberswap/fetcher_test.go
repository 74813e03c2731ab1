package kyberswap

import (
	"context"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yldfi/quotemux/business/aggregator/app"
	"github.com/yldfi/quotemux/internal/apperror"
	"github.com/yldfi/quotemux/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func testReq(chainID uint64) app.QuoteRequest {
	return app.QuoteRequest{
		ChainID:  chainID,
		TokenIn:  "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		TokenOut: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		AmountIn: big.NewInt(500_000_000),
	}
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/arbitrum/api/v1/routes", r.URL.Path)
		require.Equal(t, "500000000", r.URL.Query().Get("amountIn"))
		w.Write([]byte(`{"code":0,"message":"successfully","data":{"routeSummary":{"amountOut":"123456789","gas":"240000"}}}`))
	}))
	defer srv.Close()

	f, err := New(Config{BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)

	quote, err := f.Fetch(context.Background(), testReq(42161))
	require.NoError(t, err)
	require.Equal(t, "123456789", quote.AmountOut.String())
	require.Equal(t, uint64(240000), *quote.EstimatedGas)
}

func TestFetchNoRouteCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":4008,"message":"no route found"}`))
	}))
	defer srv.Close()

	f, err := New(Config{BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), testReq(1))
	require.Equal(t, apperror.CodeNoRoute, apperror.GetCode(err))
}

func TestFetchUnsupportedChain(t *testing.T) {
	f, err := New(Config{}, testLogger())
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), testReq(56))
	require.Equal(t, apperror.CodeUnsupportedChain, apperror.GetCode(err))
}

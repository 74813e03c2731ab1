package cowswap

import (
	"context"
	"encoding/json"
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
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/quote", r.URL.Path)

		var body quoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "sell", body.Kind)
		require.Equal(t, "1000000000000000000", body.SellAmountBeforeFee)
		// No sender given, so the zero address stands in.
		require.Equal(t, zeroAddress, body.From)

		w.Write([]byte(`{"quote":{"buyAmount":"3390000000"}}`))
	}))
	defer srv.Close()

	f, err := New(Config{BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)

	quote, err := f.Fetch(context.Background(), testReq())
	require.NoError(t, err)
	require.Equal(t, "3390000000", quote.AmountOut.String())
	// Batch auction settlement: no per-quote gas estimate.
	require.Nil(t, quote.EstimatedGas)
}

func TestFetchNoLiquidity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorType":"NoLiquidity","description":"no route"}`))
	}))
	defer srv.Close()

	f, err := New(Config{BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), testReq())
	require.Equal(t, apperror.CodeInsufficientLiquidity, apperror.GetCode(err))
}

func TestFetchUnsupportedChain(t *testing.T) {
	f, err := New(Config{}, testLogger())
	require.NoError(t, err)

	req := testReq()
	req.ChainID = 137
	_, err = f.Fetch(context.Background(), req)
	require.Equal(t, apperror.CodeUnsupportedChain, apperror.GetCode(err))
}

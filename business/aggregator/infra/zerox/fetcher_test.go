package zerox

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

func testReq() app.QuoteRequest {
	return app.QuoteRequest{
		ChainID:  1,
		TokenIn:  "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		TokenOut: "0x6B175474E89094C44Da98b954EedeAC495271d0F",
		AmountIn: big.NewInt(2_000_000_000_000_000_000),
		Sender:   "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
	}
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/swap/permit2/price", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("0x-api-key"))
		require.Equal(t, "v2", r.Header.Get("0x-version"))
		q := r.URL.Query()
		require.Equal(t, "1", q.Get("chainId"))
		require.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", q.Get("taker"))
		w.Write([]byte(`{"liquidityAvailable":true,"buyAmount":"6820000000000000000000","gas":"285000"}`))
	}))
	defer srv.Close()

	f, err := New(Config{BaseURL: srv.URL, APIKey: "test-key"}, testLogger())
	require.NoError(t, err)

	quote, err := f.Fetch(context.Background(), testReq())
	require.NoError(t, err)
	require.Equal(t, "6820000000000000000000", quote.AmountOut.String())
	require.Equal(t, uint64(285000), *quote.EstimatedGas)
}

func TestFetchNoLiquidity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"liquidityAvailable":false}`))
	}))
	defer srv.Close()

	f, err := New(Config{BaseURL: srv.URL, APIKey: "test-key"}, testLogger())
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), testReq())
	require.Equal(t, apperror.CodeInsufficientLiquidity, apperror.GetCode(err))
}

func TestFetchUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	f, err := New(Config{BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), testReq())
	require.Equal(t, apperror.CodeSourceUnauthorized, apperror.GetCode(err))
}

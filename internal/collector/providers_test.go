package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdsiyam69/Clarity/internal/model"
)

func testClient() *HTTPClient {
	return NewHTTPClient(ClientConfig{Timeout: 5 * time.Second, BreakerFailures: 2, BreakerCooldown: time.Minute})
}

const yahooBody = `{"chart":{"result":[{"meta":{"symbol":"AAPL"},
"timestamp":[1704240000,1704326400,1704412800],
"indicators":{"quote":[{
 "open":[185.0,null,182.0],
 "high":[186.0,null,183.5],
 "low":[184.0,null,181.0],
 "close":[185.5,null,183.0],
 "volume":[1000000,null,1200000]}]}}],"error":null}}`

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(yahooBody))
	}))
	defer srv.Close()

	f := NewYahooFetcher(testClient())
	f.BaseURL = srv.URL

	bars, err := f.FetchDailyBars(context.Background(), "00700", 60)
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/0700.HK", path)
	require.Len(t, bars, 2, "null holiday bar is skipped")
	assert.Equal(t, 185.5, bars[0].Close)
	assert.Equal(t, 1200000.0, bars[1].Volume)
}

func TestYahooFetcher_IndexQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(yahooBody))
	}))
	defer srv.Close()

	f := NewYahooFetcher(testClient())
	f.BaseURL = srv.URL

	q, err := f.IndexQuote(context.Background(), "^IXIC")
	require.NoError(t, err)
	assert.Equal(t, 183.0, q.Value)
	assert.InDelta(t, (183.0-185.5)/185.5*100, q.ChangePct, 1e-9)
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher(testClient())
	f.BaseURL = srv.URL
	_, err := f.FetchDailyBars(context.Background(), "NOPE", 60)
	assert.ErrorContains(t, err, "No data found")
}

func TestTencentFetcher_FetchDailyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sh600519,day,,,3,qfq", r.URL.Query().Get("param"))
		w.Write([]byte(`{"code":0,"msg":"","data":{"sh600519":{"qfqday":[
			["2024-01-03","1700.00","1710.00","1720.00","1690.00","30000.00"],
			["2024-01-02","1690.00","1700.00","1705.00","1680.00","25000.00",{"nd":"2023"}],
			["bad"]]}}}`))
	}))
	defer srv.Close()

	f := NewTencentFetcher(testClient())
	f.BaseURL = srv.URL

	bars, err := f.FetchDailyBars(context.Background(), "600519", 3)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 1700.0, bars[0].Close, "sorted ascending")
	assert.Equal(t, 1720.0, bars[1].High)
	assert.Equal(t, 1690.0, bars[1].Low)

	_, err = f.FetchDailyBars(context.Background(), "AAPL", 3)
	assert.True(t, errors.Is(err, ErrUnsupportedSymbol))
}

func TestEastmoneyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/qt/clist/get":
			if r.URL.Query().Get("pn") == "1" {
				w.Write([]byte(`{"data":{"total":3,"diff":[
					{"f2":1700.5,"f3":1.2,"f6":5.1e9,"f12":"600519","f14":"贵州茅台"},
					{"f2":"-","f3":"-","f6":"-","f12":"600000","f14":"浦发银行"}]}}`))
				return
			}
			w.Write([]byte(`{"data":{"total":3,"diff":[{"f2":10.1,"f3":-0.5,"f6":1e8,"f12":"000001","f14":"平安银行"}]}}`))
		case r.URL.Path == "/api/qt/ulist.np/get":
			assert.Equal(t, "1.000001", r.URL.Query().Get("secids"))
			w.Write([]byte(`{"data":{"total":1,"diff":[{"f2":3050.12,"f3":0.85,"f12":"000001","f14":"上证指数"}]}}`))
		case r.URL.Path == "/api/qt/stock/get":
			w.Write([]byte(`{"data":{"f57":"600519","f58":"贵州茅台"}}`))
		case strings.HasPrefix(r.URL.Path, "/api/data/v1/get"):
			w.Write([]byte(`{"success":true,"result":{"data":[{"SECURITY_CODE":"002594"},{"SECURITY_CODE":"601318"}]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewEastmoneyFeed(testClient())
	f.PushURL, f.DataURL = srv.URL, srv.URL
	ctx := context.Background()

	spot, err := f.Spot(ctx, model.MarketAShare)
	require.NoError(t, err)
	require.Len(t, spot, 3)
	assert.Equal(t, "贵州茅台", spot[0].Name)
	assert.Equal(t, 5.1e9, spot[0].Turnover)
	assert.Zero(t, spot[1].Price, "suspended rows decode as zero")
	assert.Equal(t, -0.5, spot[2].ChangePct)

	_, err = f.Spot(ctx, model.MarketUS)
	assert.ErrorIs(t, err, ErrUnsupportedSymbol)

	idx, err := f.IndexQuote(ctx, "sh000001")
	require.NoError(t, err)
	assert.Equal(t, 3050.12, idx.Value)
	assert.Equal(t, "上证指数", idx.Name)

	codes, err := f.NotableActivity(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"002594", "601318"}, codes)

	name, err := f.ResolveName(ctx, "600519")
	require.NoError(t, err)
	assert.Equal(t, "贵州茅台", name)
}

func TestHTTPClient_BreakerOpens(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient()
	for i := 0; i < 4; i++ {
		_, err := c.Get(context.Background(), srv.URL+"/x")
		assert.Error(t, err)
	}
	assert.Equal(t, 2, hits, "breaker rejects calls after two consecutive failures")
}

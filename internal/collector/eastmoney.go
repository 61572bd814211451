package collector

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mdsiyam69/Clarity/internal/model"
)

const (
	eastmoneyPushURL = "https://push2.eastmoney.com"
	eastmoneyDataURL = "https://datacenter-web.eastmoney.com"

	// listing filters
	aShareBoards = "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23,m:0+t:81+s:2048"
	hkBoards     = "m:128+t:3,m:128+t:4,m:128+t:1,m:128+t:2"

	spotPageSize = 100
	maxSpotPages = 80
)

// EastmoneyFeed reads spot listings, index quotes, the dragon-tiger board
// and security names from Eastmoney's public quote API.
type EastmoneyFeed struct {
	HTTP    *HTTPClient
	PushURL string
	DataURL string
}

func NewEastmoneyFeed(client *HTTPClient) *EastmoneyFeed {
	return &EastmoneyFeed{HTTP: client, PushURL: eastmoneyPushURL, DataURL: eastmoneyDataURL}
}

func (f *EastmoneyFeed) Name() string { return "eastmoney" }

// emRow is one entry in a clist/ulist response. Suspended names carry "-"
// instead of numbers, so numeric fields are decoded loosely.
type emRow struct {
	Price     interface{} `json:"f2"`
	ChangePct interface{} `json:"f3"`
	Turnover  interface{} `json:"f6"`
	Code      string      `json:"f12"`
	Name      string      `json:"f14"`
}

type emList struct {
	Data *struct {
		Total int     `json:"total"`
		Diff  []emRow `json:"diff"`
	} `json:"data"`
}

func (r emRow) quote() model.SpotQuote {
	return model.SpotQuote{
		Code:      r.Code,
		Name:      r.Name,
		Price:     toFloat(r.Price),
		ChangePct: toFloat(r.ChangePct),
		Turnover:  toFloat(r.Turnover),
	}
}

// Spot returns the full current-session listing for an A-share or HK market.
func (f *EastmoneyFeed) Spot(ctx context.Context, market model.Market) ([]model.SpotQuote, error) {
	var boards string
	switch market {
	case model.MarketAShare:
		boards = aShareBoards
	case model.MarketHK:
		boards = hkBoards
	default:
		return nil, fmt.Errorf("eastmoney spot %s: %w", market, ErrUnsupportedSymbol)
	}

	var out []model.SpotQuote
	for page := 1; page <= maxSpotPages; page++ {
		q := url.Values{}
		q.Set("pn", fmt.Sprint(page))
		q.Set("pz", fmt.Sprint(spotPageSize))
		q.Set("po", "1")
		q.Set("np", "1")
		q.Set("fltt", "2")
		q.Set("invt", "2")
		q.Set("fid", "f6")
		q.Set("fs", boards)
		q.Set("fields", "f2,f3,f6,f12,f14")

		var resp emList
		if err := f.HTTP.GetJSON(ctx, f.PushURL+"/api/qt/clist/get?"+q.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("eastmoney spot: %w", err)
		}
		if resp.Data == nil || len(resp.Data.Diff) == 0 {
			break
		}
		for _, r := range resp.Data.Diff {
			out = append(out, r.quote())
		}
		if len(out) >= resp.Data.Total {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("eastmoney spot %s: %w", market, ErrNoData)
	}
	return out, nil
}

// IndexQuote returns an index's latest value, e.g. code "sh000001".
func (f *EastmoneyFeed) IndexQuote(ctx context.Context, code string) (model.IndexQuote, error) {
	secid := EastmoneySecID(code)
	u := fmt.Sprintf("%s/api/qt/ulist.np/get?fltt=2&secids=%s&fields=f2,f3,f12,f14", f.PushURL, secid)

	var resp emList
	if err := f.HTTP.GetJSON(ctx, u, &resp); err != nil {
		return model.IndexQuote{}, fmt.Errorf("eastmoney index: %w", err)
	}
	if resp.Data == nil || len(resp.Data.Diff) == 0 {
		return model.IndexQuote{}, fmt.Errorf("eastmoney index %s: %w", code, ErrNoData)
	}
	r := resp.Data.Diff[0].quote()
	if r.Price == 0 {
		return model.IndexQuote{}, fmt.Errorf("eastmoney index %s: %w", code, ErrNoData)
	}
	return model.IndexQuote{Code: code, Name: r.Name, Value: r.Price, ChangePct: r.ChangePct}, nil
}

// NotableActivity returns codes from the latest dragon-tiger board, newest first.
func (f *EastmoneyFeed) NotableActivity(ctx context.Context) ([]string, error) {
	q := url.Values{}
	q.Set("reportName", "RPT_DAILYBILLBOARD_DETAILSNEW")
	q.Set("columns", "SECURITY_CODE,TRADE_DATE")
	q.Set("pageNumber", "1")
	q.Set("pageSize", "50")
	q.Set("sortColumns", "TRADE_DATE")
	q.Set("sortTypes", "-1")

	var resp struct {
		Success bool `json:"success"`
		Result  *struct {
			Data []struct {
				Code string `json:"SECURITY_CODE"`
			} `json:"data"`
		} `json:"result"`
	}
	if err := f.HTTP.GetJSON(ctx, f.DataURL+"/api/data/v1/get?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("eastmoney billboard: %w", err)
	}
	if resp.Result == nil || len(resp.Result.Data) == 0 {
		return nil, fmt.Errorf("eastmoney billboard: %w", ErrNoData)
	}
	codes := make([]string, 0, len(resp.Result.Data))
	for _, d := range resp.Result.Data {
		if c := strings.TrimSpace(d.Code); c != "" {
			codes = append(codes, c)
		}
	}
	return codes, nil
}

// ResolveName looks up a security's display name.
func (f *EastmoneyFeed) ResolveName(ctx context.Context, symbol string) (string, error) {
	u := fmt.Sprintf("%s/api/qt/stock/get?secid=%s&fields=f57,f58", f.PushURL, EastmoneySecID(symbol))
	var resp struct {
		Data *struct {
			Code string `json:"f57"`
			Name string `json:"f58"`
		} `json:"data"`
	}
	if err := f.HTTP.GetJSON(ctx, u, &resp); err != nil {
		return "", fmt.Errorf("eastmoney name: %w", err)
	}
	if resp.Data == nil || resp.Data.Name == "" {
		return "", fmt.Errorf("eastmoney name %s: %w", symbol, ErrNoData)
	}
	return resp.Data.Name, nil
}

package collector

import (
	"strings"

	"github.com/mdsiyam69/Clarity/internal/model"
)

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DetectMarket infers the market from a symbol's shape: six digits are
// A-share, five digits (or an .HK suffix) are Hong Kong, anything else is US.
func DetectMarket(symbol string) model.Market {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	switch {
	case strings.HasSuffix(s, ".HK"), strings.HasPrefix(s, "HK") && isDigits(s[2:]):
		return model.MarketHK
	case strings.HasSuffix(s, ".SS"), strings.HasSuffix(s, ".SZ"):
		return model.MarketAShare
	case (strings.HasPrefix(s, "SH") || strings.HasPrefix(s, "SZ")) && isDigits(s[2:]):
		return model.MarketAShare
	case isDigits(s) && len(s) == 6:
		return model.MarketAShare
	case isDigits(s) && len(s) <= 5:
		return model.MarketHK
	}
	return model.MarketUS
}

// bareCode strips exchange prefixes and suffixes.
func bareCode(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for _, p := range []string{"SH", "SZ", "BJ", "HK"} {
		if strings.HasPrefix(s, p) && isDigits(s[len(p):]) {
			return s[len(p):]
		}
	}
	if i := strings.LastIndexByte(s, '.'); i > 0 {
		switch s[i:] {
		case ".SS", ".SZ", ".HK", ".BJ":
			return s[:i]
		}
	}
	return s
}

// AShareExchange returns "sh", "sz" or "bj" for a six-digit code.
func AShareExchange(code string) string {
	switch {
	case strings.HasPrefix(code, "6"), strings.HasPrefix(code, "9"):
		return "sh"
	case strings.HasPrefix(code, "4"), strings.HasPrefix(code, "8"):
		return "bj"
	}
	return "sz"
}

// exchangeOf honours an explicit sh/sz/bj prefix or .SS/.SZ suffix before
// falling back to the code-range rule.
func exchangeOf(symbol, code string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	switch {
	case strings.HasPrefix(s, "SH"), strings.HasSuffix(s, ".SS"):
		return "sh"
	case strings.HasPrefix(s, "SZ"), strings.HasSuffix(s, ".SZ"):
		return "sz"
	case strings.HasPrefix(s, "BJ"), strings.HasSuffix(s, ".BJ"):
		return "bj"
	}
	return AShareExchange(code)
}

// TencentCode maps a symbol to the sh600519 / sz000001 / hk00700 form.
func TencentCode(symbol string) string {
	code := bareCode(symbol)
	switch DetectMarket(symbol) {
	case model.MarketAShare:
		return exchangeOf(symbol, code) + code
	case model.MarketHK:
		return "hk" + padLeft(code, 5)
	}
	return "us" + code
}

// YahooTicker maps a symbol to Yahoo's ticker form: 0700.HK, 600519.SS, AAPL.
func YahooTicker(symbol string) string {
	s := strings.TrimSpace(symbol)
	if strings.HasPrefix(s, "^") {
		return s
	}
	code := bareCode(s)
	switch DetectMarket(s) {
	case model.MarketHK:
		return padLeft(strings.TrimLeft(code, "0"), 4) + ".HK"
	case model.MarketAShare:
		if exchangeOf(s, code) == "sh" {
			return code + ".SS"
		}
		return code + ".SZ"
	}
	return code
}

// EastmoneySecID maps a symbol to Eastmoney's market.code form.
func EastmoneySecID(symbol string) string {
	code := bareCode(symbol)
	switch DetectMarket(symbol) {
	case model.MarketAShare:
		if exchangeOf(symbol, code) == "sh" {
			return "1." + code
		}
		return "0." + code
	case model.MarketHK:
		return "116." + padLeft(code, 5)
	}
	return "105." + code
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

package adapter

import (
	"testing"

	"leadlag/internal/core"
)

func TestParseAggTradeBuy(t *testing.T) {
	raw := []byte(`{"e":"aggTrade","E":1700000000123,"s":"BTCUSDT","p":"50000.5","q":"0.25","m":false}`)

	tk, ok, err := parseAggTrade(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected an aggTrade tick")
	}
	if tk.Symbol != "BTCUSDT" || tk.Price != 50000.5 || tk.Quantity != 0.25 {
		t.Errorf("tick fields wrong: %+v", tk)
	}
	if tk.Side != core.Buy {
		t.Errorf("buyer-taker must map to Buy, got %v", tk.Side)
	}
	if tk.Timestamp != 1700000000123000 {
		t.Errorf("expected µs timestamp, got %d", tk.Timestamp)
	}
}

func TestParseAggTradeMakerSide(t *testing.T) {
	raw := []byte(`{"e":"aggTrade","E":1700000000123,"s":"ETHUSDT","p":"2000","q":"1","m":true}`)

	tk, ok, err := parseAggTrade(raw)
	if err != nil || !ok {
		t.Fatalf("parse failed: ok=%v err=%v", ok, err)
	}
	if tk.Side != core.Sell {
		t.Errorf("buyer-is-maker must map to Sell, got %v", tk.Side)
	}
}

func TestParseAggTradeIgnoresOtherEvents(t *testing.T) {
	for _, raw := range []string{
		`{"result":null,"id":1}`,
		`{"e":"depthUpdate","E":1700000000123,"s":"BTCUSDT"}`,
	} {
		_, ok, err := parseAggTrade([]byte(raw))
		if err != nil {
			t.Errorf("%s: unexpected error %v", raw, err)
		}
		if ok {
			t.Errorf("%s: must be ignored", raw)
		}
	}
}

func TestParseAggTradeMalformed(t *testing.T) {
	if _, _, err := parseAggTrade([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}

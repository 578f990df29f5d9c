package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Backtest configures a historical replay run.
type Backtest struct {
	DataPath       string // tick CSV: symbol,timestamp,price,quantity,side
	Leader         string
	Follower       string
	Threshold      float64
	InitialCapital float64
	UnitQty        float64
	AllowShort     bool
	HistoryCSV     string // optional: stream replay history here
	TradesCSV      string // optional: dump executed trades here
}

// Live configures the live engine.
type Live struct {
	Leader         string
	Follower       string
	Threshold      float64
	TelemetryAddr  string
	DiscordWebhook string
	ModelPath      string // optional ONNX forecast filter
	AlertCooldown  time.Duration
}

type Config struct {
	Backtest Backtest
	Live     Live
}

func Default() Config {
	return Config{
		Backtest: Backtest{
			DataPath:       "data/ticks.csv",
			Leader:         "BTC-USD",
			Follower:       "ETH-USD",
			Threshold:      0.2,
			InitialCapital: 10000,
			UnitQty:        1.0,
		},
		Live: Live{
			Leader:        "BTCUSDT",
			Follower:      "ETHUSDT",
			Threshold:     0.2,
			TelemetryAddr: ":8077",
			AlertCooldown: 5 * time.Second,
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	cfg.Backtest.DataPath = getEnv("DATA_PATH", cfg.Backtest.DataPath)
	cfg.Backtest.Leader = getEnv("LEADER_SYMBOL", cfg.Backtest.Leader)
	cfg.Backtest.Follower = getEnv("FOLLOWER_SYMBOL", cfg.Backtest.Follower)
	cfg.Backtest.Threshold = getEnvFloat("ENTRY_THRESHOLD", cfg.Backtest.Threshold)
	cfg.Backtest.InitialCapital = getEnvFloat("INITIAL_CAPITAL", cfg.Backtest.InitialCapital)
	cfg.Backtest.UnitQty = getEnvFloat("UNIT_QTY", cfg.Backtest.UnitQty)
	cfg.Backtest.HistoryCSV = getEnv("HISTORY_CSV", cfg.Backtest.HistoryCSV)
	cfg.Backtest.TradesCSV = getEnv("TRADES_CSV", cfg.Backtest.TradesCSV)
	if v := os.Getenv("ALLOW_SHORT"); v != "" {
		cfg.Backtest.AllowShort = v == "true" || v == "1"
	}

	cfg.Live.Leader = getEnv("LIVE_LEADER", cfg.Live.Leader)
	cfg.Live.Follower = getEnv("LIVE_FOLLOWER", cfg.Live.Follower)
	cfg.Live.Threshold = getEnvFloat("LIVE_ENTRY_THRESHOLD", cfg.Live.Threshold)
	cfg.Live.TelemetryAddr = getEnv("TELEMETRY_ADDR", cfg.Live.TelemetryAddr)
	cfg.Live.DiscordWebhook = getEnv("DISCORD_WEBHOOK_URL", cfg.Live.DiscordWebhook)
	cfg.Live.ModelPath = getEnv("MODEL_PATH", cfg.Live.ModelPath)
	if ms := os.Getenv("ALERT_COOLDOWN_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil {
			cfg.Live.AlertCooldown = time.Duration(v) * time.Millisecond
		}
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

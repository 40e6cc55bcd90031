package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// TemplateKey is the path of the wallet template to load when none is
	// given on the command line
	TemplateKey = "TEMPLATE"
	// ConcurrencyKey is the max number of scenarios generated in parallel
	ConcurrencyKey = "CONCURRENCY"
	// NetworkKey is the network HD keys are encoded for. Only mainnet is
	// supported
	NetworkKey = "NETWORK"
	// FeeRateKey is the sats per byte ratio used to estimate the fee of a
	// scenario transaction
	FeeRateKey = "FEE_RATE"
	// TimeoutKey bounds the generation of all the scenarios of a template
	TimeoutKey = "TIMEOUT"

	// NetworkMainnet ...
	NetworkMainnet = "mainnet"
)

var vip *viper.Viper

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("SCENARIO")
	vip.AutomaticEnv()

	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(ConcurrencyKey, 4)
	vip.SetDefault(NetworkKey, NetworkMainnet)
	vip.SetDefault(FeeRateKey, 1.0)
	vip.SetDefault(TimeoutKey, "1m")

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}
	return nil
}

// Set overrides the value of key, typically with a command line flag.
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetFloat(key string) float64 {
	return vip.GetFloat64(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetFeeRate() decimal.Decimal {
	return decimal.NewFromFloat(GetFloat(FeeRateKey))
}

func validate() error {
	level := GetInt(LogLevelKey)
	if level < 0 || level > 6 {
		return fmt.Errorf("%s must be in range [0, 6]", LogLevelKey)
	}
	if GetInt(ConcurrencyKey) <= 0 {
		return fmt.Errorf("%s must be greater than 0", ConcurrencyKey)
	}
	if network := strings.ToLower(GetString(NetworkKey)); network != NetworkMainnet {
		return fmt.Errorf("unsupported network %q, must be %s", network, NetworkMainnet)
	}
	if GetFloat(FeeRateKey) < 0 {
		return fmt.Errorf("%s must not be negative", FeeRateKey)
	}
	if GetDuration(TimeoutKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", TimeoutKey)
	}
	return nil
}

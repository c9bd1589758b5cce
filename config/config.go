package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/replaytrader/replaytrader/common"
	"github.com/replaytrader/replaytrader/eventhandlers/exchange"
	"github.com/replaytrader/replaytrader/eventhandlers/exchange/fee"
	"github.com/replaytrader/replaytrader/eventhandlers/portfolio/risk"
	"github.com/replaytrader/replaytrader/eventhandlers/portfolio/size"
	"github.com/replaytrader/replaytrader/eventhandlers/rebalance"
	"github.com/replaytrader/replaytrader/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// ReadConfigFromFile reads a JSON or YAML config, chosen by extension, and
// applies REPLAYTRADER_ environment overrides
func ReadConfigFromFile(path string) (*Config, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %w %v", common.ErrConfiguration, errFileNotFound, path)
		}
		return nil, err
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		ext = "json"
	}
	return LoadConfig(fileData, ext)
}

// LoadConfig decodes config data of the given type, json or yaml
func LoadConfig(data []byte, configType string) (*Config, error) {
	v := viper.New()
	v.SetConfigType(configType)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, err)
	}
	var c Config
	err := v.Unmarshal(&c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		dateHook,
		decimalHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, err)
	}
	return &c, nil
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// dateHook accepts plain dates as well as RFC3339 timestamps
func dateHook(_, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return data, nil
	}
	for _, layout := range []string{time.RFC3339, common.SimpleTimeFormatWithTime, common.SimpleTimeFormat} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return nil, fmt.Errorf("cannot parse %q as a date", s)
}

func decimalHook(_, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	}
	return data, nil
}

// Validate checks all config settings. Every problem a session would
// reject at construction is reported here first
func (c *Config) Validate() error {
	if err := c.validateDate(); err != nil {
		return err
	}
	if c.InitialCash.IsNegative() {
		return fmt.Errorf("%w: %w, received %s", common.ErrValidation, errBadInitialCash, c.InitialCash)
	}
	if len(c.Universe.Assets) == 0 && len(c.Universe.StartDates) == 0 {
		return fmt.Errorf("%w: %w", common.ErrConfiguration, errNoAssets)
	}
	if c.Strategy.Name == "" {
		return fmt.Errorf("%w: %w", common.ErrConfiguration, errUnsetStrategy)
	}
	if _, err := rebalance.New(c.rebalanceFrequency(), c.StartDate, c.Rebalance.Weekday, c.Rebalance.PreMarket); err != nil {
		return err
	}
	if _, err := c.SizingPolicy(); err != nil {
		return err
	}
	if _, err := c.FeeModel(); err != nil {
		return err
	}
	if _, err := c.BuildExchange(); err != nil {
		return err
	}
	if c.Risk != nil {
		if _, err := risk.NewConcentration(c.Risk.MaximumHoldingRatio); err != nil {
			return err
		}
	}
	return c.validateData()
}

// validateDate checks whether someone has set a date poorly in their config
func (c *Config) validateDate() error {
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return fmt.Errorf("%w: %w", common.ErrConfiguration, errStartEndUnset)
	}
	if !c.StartDate.Before(c.EndDate) {
		return fmt.Errorf("%w: %w", common.ErrValidation, errBadDate)
	}
	if c.BurnInDate != nil && (c.BurnInDate.Before(c.StartDate) || c.BurnInDate.After(c.EndDate)) {
		return fmt.Errorf("%w: %w", common.ErrValidation, errBurnInOutsideRange)
	}
	return nil
}

func (c *Config) validateData() error {
	switch strings.ToLower(c.Data.Source) {
	case "", CSVDataSource:
		if c.Data.Directory == "" {
			return fmt.Errorf("%w: %w", common.ErrConfiguration, errDataDirectoryUnset)
		}
	case DatabaseDataSource:
		if c.Data.Database == nil || !c.Data.Database.Enabled {
			return fmt.Errorf("%w: %w", common.ErrConfiguration, errDatabaseUnset)
		}
	default:
		return fmt.Errorf("%w: %w %q", common.ErrConfiguration, errUnknownDataSource, c.Data.Source)
	}
	return nil
}

func (c *Config) rebalanceFrequency() string {
	if c.Rebalance.Frequency == "" {
		return rebalance.WeeklyStr
	}
	return c.Rebalance.Frequency
}

// SizingPolicy builds the sizing policy. An unset policy is long only
func (c *Config) SizingPolicy() (size.Policy, error) {
	name := c.Sizing.Policy
	if name == "" {
		name = size.LongOnlyStr
	}
	return size.New(name, c.Sizing.CashBufferPercentage, c.Sizing.GrossLeverage)
}

// FeeModel builds the configured fee model
func (c *Config) FeeModel() (fee.Model, error) {
	return fee.New(c.Exchange.Fee.Model, c.Exchange.Fee.Fixed, c.Exchange.Fee.Commission, c.Exchange.Fee.Tax)
}

// BuildExchange builds the configured exchange. Session hours default to
// 14:30 to 21:00 UTC
func (c *Config) BuildExchange() (exchange.Exchange, error) {
	if strings.EqualFold(c.Exchange.Name, exchange.SessionName) && (c.Exchange.Open != 0 || c.Exchange.Close != 0) {
		open, closing := c.Exchange.Open, c.Exchange.Close
		if open == 0 {
			open = exchange.DefaultOpen
		}
		if closing == 0 {
			closing = exchange.DefaultClose
		}
		return exchange.NewSession(open, closing)
	}
	return exchange.New(c.Exchange.Name)
}

// PrintSetting prints relevant settings to the console for easy reading
func (c *Config) PrintSetting() {
	log.Info(log.ConfigMgr, "------------------Simulation Settings-----------------------")
	if c.Nickname != "" {
		log.Infof(log.ConfigMgr, "Nickname: %s", c.Nickname)
	}
	if c.Goal != "" {
		log.Infof(log.ConfigMgr, "Goal: %s", c.Goal)
	}
	log.Infof(log.ConfigMgr, "Start date: %v", c.StartDate.Format(common.SimpleTimeFormat))
	log.Infof(log.ConfigMgr, "End date: %v", c.EndDate.Format(common.SimpleTimeFormat))
	if c.BurnInDate != nil {
		log.Infof(log.ConfigMgr, "Burn-in date: %v", c.BurnInDate.Format(common.SimpleTimeFormat))
	}
	log.Infof(log.ConfigMgr, "Initial cash: %v", c.InitialCash)
	log.Info(log.ConfigMgr, "------------------Strategy Settings-------------------------")
	log.Infof(log.ConfigMgr, "Alpha model: %s", c.Strategy.Name)
	if len(c.Strategy.CustomSettings) > 0 {
		log.Info(log.ConfigMgr, "Custom strategy variables:")
		for k, v := range c.Strategy.CustomSettings {
			log.Infof(log.ConfigMgr, "%s: %v", k, v)
		}
	} else {
		log.Info(log.ConfigMgr, "Custom strategy variables: unset")
	}
	log.Infof(log.ConfigMgr, "Rebalance: %s %s pre-market: %v repeat buy and hold: %v", c.rebalanceFrequency(), c.Rebalance.Weekday, c.Rebalance.PreMarket, c.Rebalance.RepeatBuyAndHold)
	log.Infof(log.ConfigMgr, "Sizing: %+v", c.Sizing)
	if c.Risk != nil {
		log.Infof(log.ConfigMgr, "Maximum holding ratio: %v", c.Risk.MaximumHoldingRatio)
	}
	if len(c.Universe.StartDates) > 0 {
		log.Infof(log.ConfigMgr, "Dynamic universe: %v", c.Universe.StartDates)
	} else {
		log.Infof(log.ConfigMgr, "Universe: %v", c.Universe.Assets)
	}
	log.Info(log.ConfigMgr, "------------------Exchange Settings-------------------------")
	log.Infof(log.ConfigMgr, "Exchange: %s", c.Exchange.Name)
	log.Infof(log.ConfigMgr, "Fee model: %s commission %v tax %v fixed %v",
		c.Exchange.Fee.Model, c.Exchange.Fee.Commission, c.Exchange.Fee.Tax, c.Exchange.Fee.Fixed)
	log.Info(log.ConfigMgr, "------------------Data Settings-----------------------------")
	log.Infof(log.ConfigMgr, "Source: %s", c.Data.Source)
	if c.Data.Directory != "" {
		log.Infof(log.ConfigMgr, "Directory: %s", c.Data.Directory)
	}
}

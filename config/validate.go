package config

import "fmt"

func (c *Config) Validate() error {
	if c.LedgersPerDay == 0 {
		return fmt.Errorf("config: LedgersPerDay must be positive")
	}
	if c.MaxAllowanceDays == 0 {
		return fmt.Errorf("config: MaxAllowanceDays must be positive")
	}
	if c.AllowanceTTLLedgers == 0 {
		return fmt.Errorf("config: AllowanceTTLLedgers must be positive")
	}
	if c.MaxCommissionFee > 100 {
		return fmt.Errorf("config: MaxCommissionFee must not exceed 100")
	}
	if c.MaxLockSeconds < 0 {
		return fmt.Errorf("config: MaxLockSeconds must not be negative")
	}
	if c.MaxEventThresholdSeconds < 0 {
		return fmt.Errorf("config: MaxEventThresholdSeconds must not be negative")
	}
	if c.MaxUnlockSeconds < 0 {
		return fmt.Errorf("config: MaxUnlockSeconds must not be negative")
	}
	if _, err := DecodeAddress(c.Token.Address); err != nil {
		return err
	}
	for _, v := range c.Vaults {
		if _, err := DecodeAddress(v.Address); err != nil {
			return err
		}
	}
	for _, m := range c.Markets {
		if _, err := DecodeAddress(m.Address); err != nil {
			return err
		}
	}
	return nil
}

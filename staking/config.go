// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"fmt"
	"strings"
)

// WithdrawMode decides the principal returned by destake.
type WithdrawMode uint8

const (
	// WithdrawRecorded returns the whole recorded principal while the entry is
	// decreased by the requested amount only.
	WithdrawRecorded WithdrawMode = iota
	// WithdrawExact returns the requested amount.
	WithdrawExact
	// WithdrawFull only accepts destaking the whole principal.
	WithdrawFull
)

func (m WithdrawMode) String() string {
	switch m {
	case WithdrawRecorded:
		return "recorded"
	case WithdrawExact:
		return "exact"
	case WithdrawFull:
		return "full"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseWithdrawMode parses the name of a mode.
func ParseWithdrawMode(s string) (WithdrawMode, error) {
	for _, m := range []WithdrawMode{WithdrawRecorded, WithdrawExact, WithdrawFull} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown withdraw mode %q", s)
}

func (m WithdrawMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *WithdrawMode) UnmarshalText(text []byte) error {
	parsed, err := ParseWithdrawMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Config holds the staking policies.
type Config struct {
	// AllowTopUp lets a staked user stake more. Otherwise a user stakes once per period.
	AllowTopUp bool `yaml:"allow-top-up"`
	// MinimumHoldPeriod is the slots a stake must be held before destake, 0 for none.
	MinimumHoldPeriod uint64       `yaml:"min-hold-period"`
	WithdrawMode      WithdrawMode `yaml:"withdraw-mode"`
}

// DefaultConfig returns the default policies.
func DefaultConfig() Config {
	return Config{
		AllowTopUp:   true,
		WithdrawMode: WithdrawRecorded,
	}
}

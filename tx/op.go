// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import "fmt"

// Op is the staking operation carried by a transaction.
type Op uint8

const (
	OpInitialize Op = iota + 1
	OpStake
	OpDestake
)

func (o Op) String() string {
	switch o {
	case OpInitialize:
		return "initialize"
	case OpStake:
		return "stake"
	case OpDestake:
		return "destake"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// IsValid returns whether o is a known operation.
func (o Op) IsValid() bool {
	return o >= OpInitialize && o <= OpDestake
}

func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Op) UnmarshalText(text []byte) error {
	for op := OpInitialize; op <= OpDestake; op++ {
		if op.String() == string(text) {
			*o = op
			return nil
		}
	}
	return fmt.Errorf("tx: unknown op %q", text)
}

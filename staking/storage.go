// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/custody"
	"github.com/vechain/stakevault/kv"
	"github.com/vechain/stakevault/state"
)

const stakeInfoBucket = kv.Bucket("staking.info.")

type storage struct {
	state *state.State
}

// getStakeInfo reads the entry at addr. An empty entry is returned if absent.
func (s storage) getStakeInfo(addr custody.Address) (*StakeInfo, error) {
	var info StakeInfo
	found, err := s.state.DecodeRecord(state.NewKey(stakeInfoBucket, addr.Bytes()), &info)
	if err != nil {
		return nil, errors.Wrap(err, "get stake info")
	}
	info.created = found
	return &info, nil
}

func (s storage) setStakeInfo(addr custody.Address, info *StakeInfo) error {
	if err := s.state.EncodeRecord(state.NewKey(stakeInfoBucket, addr.Bytes()), info); err != nil {
		return errors.Wrap(err, "set stake info")
	}
	info.created = true
	return nil
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tx defines the signed envelope of staking operations.
package tx

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/custody"
)

// ErrInvalidSignature is returned when the signer can't be recovered.
var ErrInvalidSignature = errors.New("tx: invalid signature")

// Transaction is an immutable tx type.
type Transaction struct {
	body body

	cache struct {
		signer *custody.Address
	}
}

// body describes details of a tx.
type body struct {
	ChainTag  byte
	Op        Op
	Amount    uint64 // whole units
	Nonce     uint64
	Signature []byte
}

// ChainTag returns chain tag.
func (t *Transaction) ChainTag() byte {
	return t.body.ChainTag
}

// Op returns the carried operation.
func (t *Transaction) Op() Op {
	return t.body.Op
}

// Amount returns the operation amount in whole units.
func (t *Transaction) Amount() uint64 {
	return t.body.Amount
}

// Nonce returns nonce value.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// SigningHash returns hash of tx excludes signature.
func (t *Transaction) SigningHash() custody.Bytes32 {
	return custody.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			t.body.ChainTag,
			t.body.Op,
			t.body.Amount,
			t.body.Nonce,
		})
	})
}

// Signature returns signature.
func (t *Transaction) Signature() []byte {
	return append([]byte(nil), t.body.Signature...)
}

// WithSignature create a new tx with signature set.
func (t *Transaction) WithSignature(sig []byte) *Transaction {
	newTx := Transaction{
		body: t.body,
	}
	// copy sig
	newTx.body.Signature = append([]byte(nil), sig...)
	return &newTx
}

// Signer recovers the address which signed the tx.
func (t *Transaction) Signer() (custody.Address, error) {
	if cached := t.cache.signer; cached != nil {
		return *cached, nil
	}
	if len(t.body.Signature) != crypto.SignatureLength {
		return custody.Address{}, errors.WithMessagef(ErrInvalidSignature, "length %d", len(t.body.Signature))
	}
	pub, err := crypto.SigToPub(t.SigningHash().Bytes(), t.body.Signature)
	if err != nil {
		return custody.Address{}, errors.WithMessage(ErrInvalidSignature, err.Error())
	}
	signer := custody.Address(crypto.PubkeyToAddress(*pub))
	t.cache.signer = &signer
	return signer, nil
}

// ID returns id of tx. Only signed txs have a valid id.
func (t *Transaction) ID() (custody.Bytes32, error) {
	signer, err := t.Signer()
	if err != nil {
		return custody.Bytes32{}, err
	}
	hash := t.SigningHash()
	return custody.Blake2b(hash[:], signer[:]), nil
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{
		body: body,
	}
	return nil
}

// Encode returns the wire form of the tx.
func (t *Transaction) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(t)
}

// Decode parses a tx from its wire form.
func Decode(data []byte) (*Transaction, error) {
	var t Transaction
	if err := rlp.DecodeBytes(data, &t); err != nil {
		return nil, errors.Wrap(err, "decode tx")
	}
	return &t, nil
}

func (t *Transaction) String() string {
	signer := "N/A"
	if s, err := t.Signer(); err == nil {
		signer = s.String()
	}
	return fmt.Sprintf(`Tx(%v)
	ChainTag: %v
	Op:       %v
	Amount:   %v
	Nonce:    %v
	Signer:   %v`, common.Bytes2Hex(t.SigningHash().Bytes()), t.body.ChainTag, t.body.Op, t.body.Amount, t.body.Nonce, signer)
}

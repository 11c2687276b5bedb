package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// UnspentKey represent the ID of an Unspent, composed by its txid and vout.
type UnspentKey struct {
	TxID string
	VOut uint32
}

// ParseUnspentKey parses a txid:vout outpoint string
func ParseUnspentKey(str string) (UnspentKey, error) {
	parts := strings.Split(str, ":")
	if len(parts) != 2 {
		return UnspentKey{}, ErrUtxoInvalidKey
	}
	if _, err := chainhash.NewHashFromStr(parts[0]); err != nil || len(parts[0]) != 64 {
		return UnspentKey{}, ErrUtxoInvalidKey
	}
	vout, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return UnspentKey{}, ErrUtxoInvalidKey
	}
	return UnspentKey{parts[0], uint32(vout)}, nil
}

func (k UnspentKey) String() string {
	return fmt.Sprintf("%s:%d", k.TxID, k.VOut)
}

// Unspent is a wallet owned output as reported by the node, along with the
// keychain and derivation index of the script it is locked to.
type Unspent struct {
	TxID          string
	VOut          uint32
	WalletName    string
	Value         int64
	ScriptPubKey  []byte
	Address       string
	Keychain      Keychain
	Index         uint32
	Confirmations int64
	Spent         bool
}

// Key returns the outpoint of the unspent
func (u Unspent) Key() UnspentKey {
	return UnspentKey{u.TxID, u.VOut}
}

// IsConfirmed ...
func (u Unspent) IsConfirmed() bool {
	return u.Confirmations > 0
}

// Balance is the amount in satoshis owned by a wallet, split by
// confirmation status. Immature is only reported for mined coinbase outputs.
type Balance struct {
	Confirmed   int64
	Unconfirmed int64
	Immature    int64
}

// Total ...
func (b Balance) Total() int64 {
	return b.Confirmed + b.Unconfirmed + b.Immature
}

// BalanceOf sums the values of the given unspents, skipping spent ones
func BalanceOf(unspents []Unspent) Balance {
	var balance Balance
	for _, u := range unspents {
		if u.Spent {
			continue
		}
		if u.IsConfirmed() {
			balance.Confirmed += u.Value
		} else {
			balance.Unconfirmed += u.Value
		}
	}
	return balance
}

package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/descwallet/internal/core/domain"
)

const testTxid = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"

func TestParseUnspentKey(t *testing.T) {
	t.Parallel()

	key, err := domain.ParseUnspentKey(testTxid + ":1")
	require.NoError(t, err)
	require.Equal(t, domain.UnspentKey{TxID: testTxid, VOut: 1}, key)
	require.Equal(t, testTxid+":1", key.String())

	tests := []string{
		"",
		testTxid,
		testTxid + ":",
		testTxid + ":-1",
		"deadbeef:0",
		testTxid + ":0:1",
	}
	for _, tt := range tests {
		_, err := domain.ParseUnspentKey(tt)
		require.EqualError(t, err, domain.ErrUtxoInvalidKey.Error())
	}
}

func TestBalanceOf(t *testing.T) {
	t.Parallel()

	unspents := []domain.Unspent{
		{TxID: testTxid, VOut: 0, Value: 1000, Confirmations: 3},
		{TxID: testTxid, VOut: 1, Value: 500, Confirmations: 0},
		{TxID: testTxid, VOut: 2, Value: 200, Confirmations: 1, Spent: true},
		{TxID: testTxid, VOut: 3, Value: 50, Confirmations: 1},
	}

	balance := domain.BalanceOf(unspents)
	require.Equal(t, int64(1050), balance.Confirmed)
	require.Equal(t, int64(500), balance.Unconfirmed)
	require.Equal(t, int64(1550), balance.Total())
	require.Equal(t, domain.Balance{}, domain.BalanceOf(nil))
}

package wallet

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// VerifyTransaction runs the script engine on every input of tx against the
// outputs it spends. Every spent output must be present in prevOuts.
func VerifyTransaction(
	tx *wire.MsgTx, prevOuts map[wire.OutPoint]*wire.TxOut,
) error {
	if tx == nil {
		return ErrNullTransaction
	}
	for _, in := range tx.TxIn {
		if _, ok := prevOuts[in.PreviousOutPoint]; !ok {
			return fmt.Errorf("%w: %s", ErrPrevoutNotFound, in.PreviousOutPoint)
		}
	}

	fetcher := txscript.NewMultiPrevOutFetcher(prevOuts)
	sigHashes := txscript.NewTxSigHashes(tx, fetcher)

	for i, in := range tx.TxIn {
		prevOut := prevOuts[in.PreviousOutPoint]
		vm, err := txscript.NewEngine(
			prevOut.PkScript, tx, i, txscript.StandardVerifyFlags, nil,
			sigHashes, prevOut.Value, fetcher,
		)
		if err != nil {
			return fmt.Errorf("%w: input %d: %s", ErrScriptVerification, i, err)
		}
		if err := vm.Execute(); err != nil {
			return fmt.Errorf("%w: input %d: %s", ErrScriptVerification, i, err)
		}
	}
	return nil
}

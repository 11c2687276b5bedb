package wallet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// Signer signs the P2WPKH inputs of a PSBT with the keys of one or more
// secret descriptors.
type Signer struct {
	keys    []*SecretDescriptorKey
	sighash map[txscript.SigHashType]bool
}

// NewSigner parses the given secret descriptors. Public descriptors are
// rejected with ErrNotPrivateKey, descriptors without key origin with
// ErrMalformedKeyOrigin.
func NewSigner(descriptors ...string) (*Signer, error) {
	if len(descriptors) <= 0 {
		return nil, ErrNullDescriptor
	}

	keys := make([]*SecretDescriptorKey, 0, len(descriptors))
	for _, desc := range descriptors {
		d, err := ParseDescriptor(desc)
		if err != nil {
			return nil, err
		}
		key, ok := d.Key.(*SecretDescriptorKey)
		if !ok {
			return nil, ErrNotPrivateKey
		}
		if key.Origin() == nil {
			return nil, ErrMalformedKeyOrigin
		}
		keys = append(keys, key)
	}
	return &Signer{
		keys:    keys,
		sighash: map[txscript.SigHashType]bool{txscript.SigHashAll: true},
	}, nil
}

// AllowSighash lets the signer honor the given sighash types when a PSBT
// input requests them. Only SIGHASH_ALL is accepted otherwise.
func (s *Signer) AllowSighash(types ...txscript.SigHashType) *Signer {
	for _, t := range types {
		s.sighash[t] = true
	}
	return s
}

// SignPsbt adds a partial signature to every input whose bip32 derivation
// matches one of the signer's keys. Inputs already finalized or owned by
// other keys are left untouched. An owned input requesting a sighash type
// not allowed with AllowSighash makes the whole call fail.
func (s *Signer) SignPsbt(psbtBase64 string) (string, error) {
	ptx, err := decodePsbt(psbtBase64)
	if err != nil {
		return "", err
	}

	updater, err := psbt.NewUpdater(ptx)
	if err != nil {
		return "", err
	}

	prevOuts, err := psbtPrevOuts(ptx)
	if err != nil {
		return "", err
	}
	fetcher := txscript.NewMultiPrevOutFetcher(prevOuts)
	sigHashes := txscript.NewTxSigHashes(ptx.UnsignedTx, fetcher)

	signed := 0
	for i, in := range ptx.Inputs {
		if len(in.FinalScriptWitness) > 0 || len(in.FinalScriptSig) > 0 {
			continue
		}

		prevOut := prevOuts[ptx.UnsignedTx.TxIn[i].PreviousOutPoint]
		if !txscript.IsPayToWitnessPubKeyHash(prevOut.PkScript) {
			continue
		}
		if in.WitnessUtxo == nil {
			if err := updater.AddInWitnessUtxo(prevOut, i); err != nil {
				return "", err
			}
		}

		for _, derivation := range in.Bip32Derivation {
			key, path := s.findKey(derivation)
			if key == nil {
				continue
			}

			child, err := deriveKey(key.ExtendedKey(), path)
			if err != nil {
				return "", err
			}
			pubkey, err := child.ECPubKey()
			if err != nil {
				return "", err
			}
			if !bytes.Equal(pubkey.SerializeCompressed(), derivation.PubKey) {
				continue
			}
			privkey, err := child.ECPrivKey()
			if err != nil {
				return "", err
			}

			sighashType := txscript.SigHashAll
			if in.SighashType != 0 {
				sighashType = in.SighashType
			}
			if !s.sighash[sighashType] {
				return "", fmt.Errorf(
					"%w: input %d, type 0x%x", ErrUnsupportedSighash, i, uint32(sighashType),
				)
			}

			sig, err := txscript.RawTxInWitnessSignature(
				ptx.UnsignedTx, sigHashes, i, prevOut.Value, prevOut.PkScript,
				sighashType, privkey,
			)
			if err != nil {
				return "", fmt.Errorf("failed to sign input %d: %w", i, err)
			}

			outcome, err := updater.Sign(
				i, sig, pubkey.SerializeCompressed(), nil, nil,
			)
			if err != nil {
				return "", fmt.Errorf("failed to add signature to input %d: %w", i, err)
			}
			if outcome == psbt.SignInvalid {
				return "", fmt.Errorf("invalid signature for input %d", i)
			}
			signed++
			break
		}
	}

	if signed == 0 {
		return "", ErrNothingToSign
	}

	return ptx.B64Encode()
}

// findKey returns the signer key owning the derivation together with the
// path from that key down to the derived child.
func (s *Signer) findKey(
	derivation *psbt.Bip32Derivation,
) (*SecretDescriptorKey, DerivationPath) {
	path := DerivationPath(derivation.Bip32Path)
	for _, key := range s.keys {
		origin := key.Origin()
		if origin.Fingerprint.Uint32() != derivation.MasterKeyFingerprint {
			continue
		}
		prefix := origin.Path.Extend(key.Path()...)
		if !path.HasPrefix(prefix) {
			continue
		}
		return key, path[len(origin.Path):]
	}
	return nil, nil
}

// FinalizePsbt finalizes all inputs of a fully signed PSBT and extracts the
// network serializable transaction
func FinalizePsbt(psbtBase64 string) (*wire.MsgTx, error) {
	ptx, err := decodePsbt(psbtBase64)
	if err != nil {
		return nil, err
	}
	if err := psbt.MaybeFinalizeAll(ptx); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPsbtNotComplete, err)
	}
	if !ptx.IsComplete() {
		return nil, ErrPsbtNotComplete
	}
	return psbt.Extract(ptx)
}

func decodePsbt(psbtBase64 string) (*psbt.Packet, error) {
	if len(psbtBase64) <= 0 {
		return nil, ErrNullPsbt
	}
	return psbt.NewFromRawBytes(strings.NewReader(psbtBase64), true)
}

// psbtPrevOuts collects the spent output of every input, taken either from
// the witness utxo or the full previous transaction.
func psbtPrevOuts(ptx *psbt.Packet) (map[wire.OutPoint]*wire.TxOut, error) {
	prevOuts := make(map[wire.OutPoint]*wire.TxOut, len(ptx.Inputs))
	for i, in := range ptx.Inputs {
		outpoint := ptx.UnsignedTx.TxIn[i].PreviousOutPoint
		switch {
		case in.WitnessUtxo != nil:
			prevOuts[outpoint] = in.WitnessUtxo
		case in.NonWitnessUtxo != nil:
			if int(outpoint.Index) >= len(in.NonWitnessUtxo.TxOut) {
				return nil, fmt.Errorf("%w: %s", ErrPrevoutNotFound, outpoint)
			}
			prevOuts[outpoint] = in.NonWitnessUtxo.TxOut[outpoint.Index]
		default:
			return nil, fmt.Errorf("%w: %s", ErrPrevoutNotFound, outpoint)
		}
	}
	return prevOuts, nil
}

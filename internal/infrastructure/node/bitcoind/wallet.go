package bitcoind

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/descwallet/internal/core/ports"
	"github.com/tdex-network/descwallet/pkg/mathutil"
)

type nodeWallet struct {
	name    string
	network *chaincfg.Params
	client  *rpcclient.Client
	rpc     *rpc
	onClose func(name string)
}

func (w *nodeWallet) Name() string {
	return w.name
}

func (w *nodeWallet) NewAddress(ctx context.Context) (string, error) {
	params, err := marshalParams("", "bech32")
	if err != nil {
		return "", err
	}
	res, err := w.rpc.call(ctx, func() (interface{}, error) {
		return w.client.RawRequest("getnewaddress", params)
	})
	if err != nil {
		return "", err
	}

	var addr string
	if err := json.Unmarshal(res.(json.RawMessage), &addr); err != nil {
		return "", err
	}
	return addr, nil
}

func (w *nodeWallet) GenerateToAddress(
	ctx context.Context, numBlocks int64, addr string,
) ([]string, error) {
	address, err := decodeAddress(addr, w.network)
	if err != nil {
		return nil, err
	}

	res, err := w.rpc.call(ctx, func() (interface{}, error) {
		return w.client.GenerateToAddress(numBlocks, address, nil)
	})
	if err != nil {
		return nil, err
	}

	hashes := res.([]*chainhash.Hash)
	blocks := make([]string, 0, len(hashes))
	for _, h := range hashes {
		blocks = append(blocks, h.String())
	}
	return blocks, nil
}

func (w *nodeWallet) SendToAddress(
	ctx context.Context, addr string, sats int64,
) (string, error) {
	if sats <= 0 {
		return "", ErrInvalidAmount
	}
	address, err := decodeAddress(addr, w.network)
	if err != nil {
		return "", err
	}

	res, err := w.rpc.call(ctx, func() (interface{}, error) {
		return w.client.SendToAddress(address, btcutil.Amount(sats))
	})
	if err != nil {
		return "", err
	}
	return res.(*chainhash.Hash).String(), nil
}

func (w *nodeWallet) Balance(ctx context.Context) (ports.Balance, error) {
	res, err := w.rpc.call(ctx, func() (interface{}, error) {
		return w.client.RawRequest("getbalances", nil)
	})
	if err != nil {
		return nil, err
	}

	var balances getBalancesResult
	if err := json.Unmarshal(res.(json.RawMessage), &balances); err != nil {
		return nil, err
	}
	return balance{
		confirmed:   mathutil.ToSatoshis(balances.Mine.Trusted),
		unconfirmed: mathutil.ToSatoshis(balances.Mine.UntrustedPending),
		immature:    mathutil.ToSatoshis(balances.Mine.Immature),
	}, nil
}

func (w *nodeWallet) ListUnspent(ctx context.Context) ([]ports.Utxo, error) {
	res, err := w.rpc.call(ctx, func() (interface{}, error) {
		return w.client.ListUnspentMinMax(0, 9999999)
	})
	if err != nil {
		return nil, err
	}

	unspents := res.([]btcjson.ListUnspentResult)
	utxos := make([]ports.Utxo, 0, len(unspents))
	for _, u := range unspents {
		amount, err := btcutil.NewAmount(u.Amount)
		if err != nil {
			return nil, err
		}
		script, err := hex.DecodeString(u.ScriptPubKey)
		if err != nil {
			return nil, err
		}
		utxos = append(utxos, utxo{
			txid:          u.TxID,
			index:         u.Vout,
			value:         int64(amount),
			script:        script,
			address:       u.Address,
			confirmations: u.Confirmations,
		})
	}
	return utxos, nil
}

func (w *nodeWallet) ImportDescriptors(
	ctx context.Context, reqs []ports.ImportDescriptorRequest,
) error {
	if len(reqs) <= 0 {
		return nil
	}

	descriptors := make([]importDescriptorRequest, 0, len(reqs))
	for _, r := range reqs {
		var timestamp interface{} = "now"
		if r.Timestamp > 0 {
			timestamp = r.Timestamp
		}
		descriptors = append(descriptors, importDescriptorRequest{
			Descriptor: r.Descriptor,
			Active:     r.Active,
			Range:      []uint32{r.RangeStart, r.RangeEnd},
			Internal:   r.Internal,
			Timestamp:  timestamp,
			Label:      r.Label,
		})
	}
	params, err := marshalParams(descriptors)
	if err != nil {
		return err
	}

	res, err := w.rpc.call(ctx, func() (interface{}, error) {
		return w.client.RawRequest("importdescriptors", params)
	})
	if err != nil {
		return err
	}

	var results []importDescriptorResult
	if err := json.Unmarshal(res.(json.RawMessage), &results); err != nil {
		return err
	}
	for i, r := range results {
		for _, warning := range r.Warnings {
			log.WithField("wallet", w.name).Warn(warning)
		}
		if !r.Success {
			e := &ImportDescriptorError{Descriptor: reqs[i].Descriptor}
			if r.Error != nil {
				e.Code = r.Error.Code
				e.Message = r.Error.Message
			}
			return e
		}
	}
	return nil
}

func (w *nodeWallet) FundPsbt(
	ctx context.Context, outputs map[string]int64,
) (string, error) {
	if len(outputs) <= 0 {
		return "", ErrNullOutputs
	}

	outs := make(map[string]json.RawMessage, len(outputs))
	for addr, sats := range outputs {
		if sats <= 0 {
			return "", ErrInvalidAmount
		}
		if _, err := decodeAddress(addr, w.network); err != nil {
			return "", fmt.Errorf("invalid output address %s: %w", addr, err)
		}
		outs[addr] = json.RawMessage(mathutil.FormatBTC(sats))
	}

	opts := map[string]interface{}{"includeWatching": true}
	params, err := marshalParams([]interface{}{}, []interface{}{outs}, 0, opts, true)
	if err != nil {
		return "", err
	}

	res, err := w.rpc.call(ctx, func() (interface{}, error) {
		return w.client.RawRequest("walletcreatefundedpsbt", params)
	})
	if err != nil {
		return "", err
	}

	var result fundedPsbtResult
	if err := json.Unmarshal(res.(json.RawMessage), &result); err != nil {
		return "", err
	}
	log.WithField("wallet", w.name).Debugf(
		"funded psbt with fee %s BTC", result.Fee.String(),
	)
	return result.Psbt, nil
}

// GetTransaction looks up the transaction among those of the wallet, then
// falls back to the node mempool and tx index.
func (w *nodeWallet) GetTransaction(
	ctx context.Context, txid string,
) (*wire.MsgTx, error) {
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, err
	}

	var txHex string
	res, err := w.rpc.call(ctx, func() (interface{}, error) {
		return w.client.GetTransaction(hash)
	})
	if err == nil {
		txHex = res.(*btcjson.GetTransactionResult).Hex
	} else {
		if !isRPCError(err, rpcInvalidAddressOrKey) {
			return nil, err
		}
		params, err := marshalParams(txid)
		if err != nil {
			return nil, err
		}
		res, err := w.rpc.call(ctx, func() (interface{}, error) {
			return w.client.RawRequest("getrawtransaction", params)
		})
		if err != nil {
			if isRPCError(err, rpcInvalidAddressOrKey) {
				return nil, fmt.Errorf("%w: %s", ports.ErrTransactionNotFound, txid)
			}
			return nil, err
		}
		if err := json.Unmarshal(res.(json.RawMessage), &txHex); err != nil {
			return nil, err
		}
	}

	return deserializeTx(txHex)
}

func (w *nodeWallet) BroadcastTransaction(
	ctx context.Context, tx *wire.MsgTx,
) (string, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", err
	}
	params, err := marshalParams(hex.EncodeToString(buf.Bytes()))
	if err != nil {
		return "", err
	}

	res, err := w.rpc.call(ctx, func() (interface{}, error) {
		return w.client.RawRequest("sendrawtransaction", params)
	})
	if err != nil {
		if isRPCError(err, rpcVerifyAlreadyInChain) {
			return tx.TxHash().String(), nil
		}
		return "", err
	}

	var txid string
	if err := json.Unmarshal(res.(json.RawMessage), &txid); err != nil {
		return "", err
	}
	return txid, nil
}

func (w *nodeWallet) Close() {
	w.client.Shutdown()
	if w.onClose != nil {
		w.onClose(w.name)
	}
}

func deserializeTx(txHex string) (*wire.MsgTx, error) {
	buf, err := hex.DecodeString(txHex)
	if err != nil {
		return nil, err
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(buf)); err != nil {
		return nil, err
	}
	return tx, nil
}

// decodeAddress decodes addr and makes sure it belongs to the given network,
// since any known bech32 prefix is decoded regardless of the params.
func decodeAddress(addr string, params *chaincfg.Params) (btcutil.Address, error) {
	address, err := btcutil.DecodeAddress(addr, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	if !address.IsForNet(params) {
		return nil, ErrInvalidAddress
	}
	return address, nil
}

package bitcoind

import (
	"errors"

	"github.com/btcsuite/btcd/btcjson"
)

var (
	// ErrNullWalletName ...
	ErrNullWalletName = errors.New("wallet name must not be null")
	// ErrInvalidRPCURL ...
	ErrInvalidRPCURL = errors.New("rpc url must be in the form [http://]host:port")
	// ErrNullOutputs ...
	ErrNullOutputs = errors.New("at least one output is required to fund a psbt")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("address is invalid or belongs to another network")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a positive number of satoshis")
	// ErrNodeUnavailable is returned when too many calls to the node failed
	// and requests are temporarily refused.
	ErrNodeUnavailable = errors.New("bitcoin node seems down, retry later")
)

// bitcoind error codes not exported by btcjson.
const (
	rpcWalletNotFound       btcjson.RPCErrorCode = -18
	rpcWalletAlreadyLoaded  btcjson.RPCErrorCode = -35
	rpcInvalidAddressOrKey  btcjson.RPCErrorCode = -5
	rpcVerifyAlreadyInChain btcjson.RPCErrorCode = -27
)

// ImportDescriptorError reports a descriptor that bitcoind refused to import.
type ImportDescriptorError struct {
	Descriptor string
	Code       int
	Message    string
}

func (e *ImportDescriptorError) Error() string {
	return "failed to import descriptor " + e.Descriptor + ": " + e.Message
}

func isRPCError(err error, code btcjson.RPCErrorCode) bool {
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Code == code
	}
	return false
}

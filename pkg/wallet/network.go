package wallet

import (
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network is the chain extended keys and addresses are bound to.
type Network int

const (
	NetworkRegtest Network = iota
	NetworkTestnet
	NetworkSignet
	NetworkMainnet
)

var networkNames = map[Network]string{
	NetworkRegtest: "regtest",
	NetworkTestnet: "testnet",
	NetworkSignet:  "signet",
	NetworkMainnet: "mainnet",
}

// ParseNetwork converts the given name to a Network. Both "bitcoin" and
// "mainnet" refer to the main chain.
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "regtest":
		return NetworkRegtest, nil
	case "testnet", "testnet3":
		return NetworkTestnet, nil
	case "signet":
		return NetworkSignet, nil
	case "mainnet", "bitcoin":
		return NetworkMainnet, nil
	default:
		return 0, ErrInvalidNetwork
	}
}

func (n Network) String() string {
	if name, ok := networkNames[n]; ok {
		return name
	}
	return "unknown"
}

// Params returns the chain params of the network
func (n Network) Params() *chaincfg.Params {
	switch n {
	case NetworkTestnet:
		return &chaincfg.TestNet3Params
	case NetworkSignet:
		return &chaincfg.SigNetParams
	case NetworkMainnet:
		return &chaincfg.MainNetParams
	default:
		return &chaincfg.RegressionNetParams
	}
}

func (n Network) validate() error {
	if _, ok := networkNames[n]; !ok {
		return ErrInvalidNetwork
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tdex-network/descwallet/internal/infrastructure/node/bitcoind"
	"github.com/tdex-network/descwallet/pkg/mathutil"
	"github.com/tdex-network/descwallet/pkg/wallet"
)

const (
	// RPCURLKey is the http endpoint of the bitcoind JSON-RPC interface
	RPCURLKey = "RPC_URL"
	// RPCUserKey is the user for the bitcoind basic auth
	RPCUserKey = "RPC_USER"
	// RPCPasswordKey is the password for the bitcoind basic auth
	RPCPasswordKey = "RPC_PASSWORD"
	// RPCRateLimitKey is the max number of RPC calls per second made to bitcoind
	RPCRateLimitKey = "RPC_RATE_LIMIT"
	// NetworkKey is one of mainnet, testnet, signet or regtest
	NetworkKey = "NETWORK"
	// DatadirKey is the local data directory to store the internal state of the wallet
	DatadirKey = "DATADIR"
	// NodeWalletKey is the name of the bitcoind wallet used to mine and fund
	// the descriptor wallet during a run
	NodeWalletKey = "NODE_WALLET"
	// PassphraseKey is the BIP39 passphrase used to derive the master key
	PassphraseKey = "PASSPHRASE"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// FundAmountKey is the amount in BTC sent from the node wallet to the
	// descriptor wallet
	FundAmountKey = "FUND_AMOUNT"
	// SendAmountKey is the amount in BTC sent back from the descriptor wallet
	// to the node wallet
	SendAmountKey = "SEND_AMOUNT"
	// MaturityBlocksKey is the number of blocks mined to make the coinbase
	// outputs of the node wallet spendable
	MaturityBlocksKey = "MATURITY_BLOCKS"
	// AddressLookaheadKey is the size of the address range imported into
	// bitcoind for every descriptor
	AddressLookaheadKey = "ADDRESS_LOOKAHEAD"

	DbLocation = "db"
)

var defaultDatadir = btcutil.AppDataDir("descwallet", false)

// Config holds the whole configuration of a descwallet process.
type Config struct {
	RPCURL         string
	RPCUser        string
	RPCPassword    string
	RPCRateLimit   int
	Network        wallet.Network
	Datadir        string
	NodeWallet     string
	Passphrase     string
	LogLevel       log.Level
	FundAmount     int64
	SendAmount     int64
	MaturityBlocks int64
	Lookahead      uint32
}

// DbDir returns the directory of the embedded database.
func (c Config) DbDir() string {
	return filepath.Join(c.Datadir, DbLocation)
}

// Load reads the configuration from DESCWALLET_ prefixed environment
// variables, validates it and makes sure the datadir exists.
func Load() (*Config, error) {
	vip := viper.New()
	vip.SetEnvPrefix("DESCWALLET")
	vip.AutomaticEnv()
	vip.AllowEmptyEnv(true)

	vip.SetDefault(RPCURLKey, "http://127.0.0.1:18443")
	vip.SetDefault(RPCUserKey, "admin")
	vip.SetDefault(RPCPasswordKey, "password")
	vip.SetDefault(RPCRateLimitKey, 100)
	vip.SetDefault(NetworkKey, wallet.NetworkRegtest.String())
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(NodeWalletKey, "test")
	vip.SetDefault(PassphraseKey, "random password")
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(FundAmountKey, "10")
	vip.SetDefault(SendAmountKey, "5")
	vip.SetDefault(MaturityBlocksKey, 101)
	vip.SetDefault(AddressLookaheadKey, 100)

	cfg, err := fromViper(vip)
	if err != nil {
		return nil, fmt.Errorf("error while validating config: %s", err)
	}

	if err := makeDirectoryIfNotExists(cfg.DbDir()); err != nil {
		return nil, fmt.Errorf("error while creating datadir: %s", err)
	}

	return cfg, nil
}

func fromViper(vip *viper.Viper) (*Config, error) {
	rpcURL := vip.GetString(RPCURLKey)
	if _, err := bitcoind.ParseRPCURL(rpcURL); err != nil {
		return nil, fmt.Errorf("invalid %s: %s", RPCURLKey, err)
	}

	network, err := wallet.ParseNetwork(vip.GetString(NetworkKey))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", NetworkKey, err)
	}

	datadir := vip.GetString(DatadirKey)
	if len(datadir) <= 0 {
		return nil, fmt.Errorf("missing datadir")
	}

	nodeWallet := vip.GetString(NodeWalletKey)
	if len(nodeWallet) <= 0 {
		return nil, fmt.Errorf("missing node wallet name")
	}

	logLevel := vip.GetInt(LogLevelKey)
	if logLevel < int(log.PanicLevel) || logLevel > int(log.TraceLevel) {
		return nil, fmt.Errorf("%s must be in range [0, 6]", LogLevelKey)
	}

	fundAmount, err := mathutil.ParseBTC(vip.GetString(FundAmountKey))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", FundAmountKey, err)
	}
	sendAmount, err := mathutil.ParseBTC(vip.GetString(SendAmountKey))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", SendAmountKey, err)
	}
	if sendAmount >= fundAmount {
		return nil, fmt.Errorf(
			"%s must be lower than %s to leave room for fees",
			SendAmountKey, FundAmountKey,
		)
	}

	maturityBlocks := vip.GetInt64(MaturityBlocksKey)
	if maturityBlocks <= 0 {
		return nil, fmt.Errorf("%s must be greater than 0", MaturityBlocksKey)
	}

	lookahead := vip.GetInt(AddressLookaheadKey)
	if lookahead <= 0 {
		return nil, fmt.Errorf("%s must be greater than 0", AddressLookaheadKey)
	}

	rateLimit := vip.GetInt(RPCRateLimitKey)
	if rateLimit <= 0 {
		return nil, fmt.Errorf("%s must be greater than 0", RPCRateLimitKey)
	}

	return &Config{
		RPCURL:         rpcURL,
		RPCUser:        vip.GetString(RPCUserKey),
		RPCPassword:    vip.GetString(RPCPasswordKey),
		RPCRateLimit:   rateLimit,
		Network:        network,
		Datadir:        datadir,
		NodeWallet:     nodeWallet,
		Passphrase:     vip.GetString(PassphraseKey),
		LogLevel:       log.Level(logLevel),
		FundAmount:     fundAmount,
		SendAmount:     sendAmount,
		MaturityBlocks: maturityBlocks,
		Lookahead:      uint32(lookahead),
	}, nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

package ports

// WalletOpts are the options for creating a node wallet.
type WalletOpts struct {
	// WatchOnly creates a wallet with private keys disabled
	WatchOnly bool
	Blank     bool
}

type Balance interface {
	GetConfirmedBalance() int64
	GetUnconfirmedBalance() int64
	GetImmatureBalance() int64
}

type UtxoKey interface {
	GetTxid() string
	GetIndex() uint32
}

type Utxo interface {
	UtxoKey
	GetValue() int64
	GetScript() []byte
	GetAddress() string
	GetConfirmations() int64
}

// ImportDescriptorRequest is one entry of an importdescriptors call.
type ImportDescriptorRequest struct {
	Descriptor string
	Active     bool
	RangeStart uint32
	RangeEnd   uint32
	Internal   bool
	// Timestamp is a unix time, or 0 for "now"
	Timestamp int64
	Label     string
}

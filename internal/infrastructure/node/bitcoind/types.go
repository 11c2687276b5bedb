package bitcoind

import "github.com/shopspring/decimal"

type balance struct {
	confirmed   int64
	unconfirmed int64
	immature    int64
}

func (b balance) GetConfirmedBalance() int64   { return b.confirmed }
func (b balance) GetUnconfirmedBalance() int64 { return b.unconfirmed }
func (b balance) GetImmatureBalance() int64    { return b.immature }

type utxo struct {
	txid          string
	index         uint32
	value         int64
	script        []byte
	address       string
	confirmations int64
}

func (u utxo) GetTxid() string         { return u.txid }
func (u utxo) GetIndex() uint32        { return u.index }
func (u utxo) GetValue() int64         { return u.value }
func (u utxo) GetScript() []byte       { return u.script }
func (u utxo) GetAddress() string      { return u.address }
func (u utxo) GetConfirmations() int64 { return u.confirmations }

type balanceDetails struct {
	Trusted          decimal.Decimal `json:"trusted"`
	UntrustedPending decimal.Decimal `json:"untrusted_pending"`
	Immature         decimal.Decimal `json:"immature"`
}

type getBalancesResult struct {
	Mine balanceDetails `json:"mine"`
}

type importDescriptorRequest struct {
	Descriptor string      `json:"desc"`
	Active     bool        `json:"active"`
	Range      []uint32    `json:"range,omitempty"`
	Internal   bool        `json:"internal"`
	Timestamp  interface{} `json:"timestamp"`
	Label      string      `json:"label,omitempty"`
}

type rpcErrorResult struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type importDescriptorResult struct {
	Success  bool            `json:"success"`
	Warnings []string        `json:"warnings"`
	Error    *rpcErrorResult `json:"error"`
}

type fundedPsbtResult struct {
	Psbt      string          `json:"psbt"`
	Fee       decimal.Decimal `json:"fee"`
	ChangePos int             `json:"changepos"`
}

package application_test

import (
	"context"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/descwallet/internal/core/application"
	"github.com/tdex-network/descwallet/internal/core/domain"
	"github.com/tdex-network/descwallet/internal/core/ports"
)

// **** Node ****

type mockNode struct {
	mock.Mock
}

func (m *mockNode) CreateOrLoadWallet(
	ctx context.Context, name string, opts ports.WalletOpts,
) error {
	args := m.Called(ctx, name, opts)
	return args.Error(0)
}

func (m *mockNode) Wallet(name string) (ports.NodeWallet, error) {
	args := m.Called(name)

	var res ports.NodeWallet
	if a := args.Get(0); a != nil {
		res = a.(ports.NodeWallet)
	}
	return res, args.Error(1)
}

func (m *mockNode) GetBlockCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	var res int64
	if a := args.Get(0); a != nil {
		res = a.(int64)
	}
	return res, args.Error(1)
}

func (m *mockNode) Close() {
	m.Called()
}

// **** NodeWallet ****

type mockNodeWallet struct {
	mock.Mock
}

func (m *mockNodeWallet) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockNodeWallet) NewAddress(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockNodeWallet) GenerateToAddress(
	ctx context.Context, numBlocks int64, addr string,
) ([]string, error) {
	args := m.Called(ctx, numBlocks, addr)

	var res []string
	if a := args.Get(0); a != nil {
		res = a.([]string)
	}
	return res, args.Error(1)
}

func (m *mockNodeWallet) SendToAddress(
	ctx context.Context, addr string, sats int64,
) (string, error) {
	args := m.Called(ctx, addr, sats)
	return args.String(0), args.Error(1)
}

func (m *mockNodeWallet) Balance(ctx context.Context) (ports.Balance, error) {
	args := m.Called(ctx)

	var res ports.Balance
	if a := args.Get(0); a != nil {
		res = a.(ports.Balance)
	}
	return res, args.Error(1)
}

func (m *mockNodeWallet) ListUnspent(ctx context.Context) ([]ports.Utxo, error) {
	args := m.Called(ctx)

	var res []ports.Utxo
	if a := args.Get(0); a != nil {
		res = a.([]ports.Utxo)
	}
	return res, args.Error(1)
}

func (m *mockNodeWallet) ImportDescriptors(
	ctx context.Context, reqs []ports.ImportDescriptorRequest,
) error {
	args := m.Called(ctx, reqs)
	return args.Error(0)
}

func (m *mockNodeWallet) FundPsbt(
	ctx context.Context, outputs map[string]int64,
) (string, error) {
	args := m.Called(ctx, outputs)
	return args.String(0), args.Error(1)
}

func (m *mockNodeWallet) GetTransaction(
	ctx context.Context, txid string,
) (*wire.MsgTx, error) {
	args := m.Called(ctx, txid)

	var res *wire.MsgTx
	if a := args.Get(0); a != nil {
		res = a.(*wire.MsgTx)
	}
	return res, args.Error(1)
}

func (m *mockNodeWallet) BroadcastTransaction(
	ctx context.Context, tx *wire.MsgTx,
) (string, error) {
	args := m.Called(ctx, tx)
	return args.String(0), args.Error(1)
}

func (m *mockNodeWallet) Close() {
	m.Called()
}

// **** WalletService ****

type mockWalletService struct {
	mock.Mock
}

func (m *mockWalletService) CreateWallet(
	ctx context.Context, receive, change string,
) (*domain.Wallet, error) {
	args := m.Called(ctx, receive, change)

	var res *domain.Wallet
	if a := args.Get(0); a != nil {
		res = a.(*domain.Wallet)
	}
	return res, args.Error(1)
}

func (m *mockWalletService) LoadWallet(
	ctx context.Context, name string,
) (*domain.Wallet, error) {
	args := m.Called(ctx, name)

	var res *domain.Wallet
	if a := args.Get(0); a != nil {
		res = a.(*domain.Wallet)
	}
	return res, args.Error(1)
}

func (m *mockWalletService) Sync(ctx context.Context) (*application.SyncInfo, error) {
	args := m.Called(ctx)

	var res *application.SyncInfo
	if a := args.Get(0); a != nil {
		res = a.(*application.SyncInfo)
	}
	return res, args.Error(1)
}

func (m *mockWalletService) NewAddress(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockWalletService) Balance(ctx context.Context) (domain.Balance, error) {
	args := m.Called(ctx)

	var res domain.Balance
	if a := args.Get(0); a != nil {
		res = a.(domain.Balance)
	}
	return res, args.Error(1)
}

func (m *mockWalletService) Send(
	ctx context.Context, address string, sats int64,
) (string, error) {
	args := m.Called(ctx, address, sats)
	return args.String(0), args.Error(1)
}

func (m *mockWalletService) VerifyTransaction(
	ctx context.Context, tx *wire.MsgTx,
) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// **** ports types ****

type testBalance struct {
	confirmed, unconfirmed, immature int64
}

func (b testBalance) GetConfirmedBalance() int64   { return b.confirmed }
func (b testBalance) GetUnconfirmedBalance() int64 { return b.unconfirmed }
func (b testBalance) GetImmatureBalance() int64    { return b.immature }

type testUtxo struct {
	txid          string
	index         uint32
	value         int64
	script        []byte
	address       string
	confirmations int64
}

func (u testUtxo) GetTxid() string         { return u.txid }
func (u testUtxo) GetIndex() uint32        { return u.index }
func (u testUtxo) GetValue() int64         { return u.value }
func (u testUtxo) GetScript() []byte       { return u.script }
func (u testUtxo) GetAddress() string      { return u.address }
func (u testUtxo) GetConfirmations() int64 { return u.confirmations }

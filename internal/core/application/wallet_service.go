package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/descwallet/internal/core/domain"
	"github.com/tdex-network/descwallet/internal/core/ports"
	"github.com/tdex-network/descwallet/pkg/wallet"
	"golang.org/x/sync/errgroup"
)

const (
	defaultLookahead = 100
	// maxScanWindows is how many lookahead windows past the imported range
	// are searched for the scripts of unspents reported by the node.
	maxScanWindows = 10
)

// WalletService manages one descriptor wallet watched by a bitcoind node and
// persisted in the local store. CreateWallet or LoadWallet must be called
// before any other method.
type WalletService interface {
	CreateWallet(ctx context.Context, receive, change string) (*domain.Wallet, error)
	LoadWallet(ctx context.Context, name string) (*domain.Wallet, error)
	Sync(ctx context.Context) (*SyncInfo, error)
	NewAddress(ctx context.Context) (string, error)
	Balance(ctx context.Context) (domain.Balance, error)
	Send(ctx context.Context, address string, sats int64) (string, error)
	VerifyTransaction(ctx context.Context, tx *wire.MsgTx) error
}

type walletService struct {
	node        ports.Node
	repoManager ports.RepoManager
	network     wallet.Network
	lookahead   uint32

	lock          *sync.RWMutex
	name          string
	nodeWallet    ports.NodeWallet
	descriptors   map[domain.Keychain]*wallet.Descriptor
	importedRange uint32
	signer        *wallet.Signer
}

func NewWalletService(
	node ports.Node,
	repoManager ports.RepoManager,
	network wallet.Network,
	lookahead uint32,
) WalletService {
	if lookahead == 0 {
		lookahead = defaultLookahead
	}
	return &walletService{
		node:        node,
		repoManager: repoManager,
		network:     network,
		lookahead:   lookahead,
		lock:        &sync.RWMutex{},
	}
}

// CreateWallet stores the wallet record for the given descriptors, unless
// already present, and has the node watch them. Secret descriptors make the
// wallet able to spend.
func (s *walletService) CreateWallet(
	ctx context.Context, receive, change string,
) (*domain.Wallet, error) {
	w, err := domain.NewWallet(receive, change, s.network)
	if err != nil {
		return nil, err
	}

	var signer *wallet.Signer
	isPrivate, err := areSecretDescriptors(receive, change)
	if err != nil {
		return nil, err
	}
	if isPrivate {
		if signer, err = wallet.NewSigner(receive, change); err != nil {
			return nil, err
		}
	}

	repo := s.repoManager.WalletRepository()
	stored, err := repo.GetWallet(ctx, w.Name)
	if err != nil {
		if !errors.Is(err, domain.ErrWalletNotFound) {
			return nil, err
		}
		if err := repo.AddWallet(ctx, w); err != nil {
			return nil, err
		}
		log.WithField("wallet", w.Name).Info("stored new wallet")
	} else {
		if err := stored.MatchDescriptors(receive, change); err != nil {
			return nil, err
		}
		w = stored
	}

	if err := s.open(ctx, w, signer, true); err != nil {
		return nil, err
	}
	return w, nil
}

// LoadWallet opens a previously created wallet in watch-only mode.
func (s *walletService) LoadWallet(
	ctx context.Context, name string,
) (*domain.Wallet, error) {
	w, err := s.repoManager.WalletRepository().GetWallet(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.open(ctx, w, nil, false); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *walletService) Sync(ctx context.Context) (*SyncInfo, error) {
	name, nodeWallet, err := s.current()
	if err != nil {
		return nil, err
	}
	logger := log.WithField("wallet", name)

	utxos, err := nodeWallet.ListUnspent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet unspents: %w", err)
	}
	height, err := s.node.GetBlockCount(ctx)
	if err != nil {
		return nil, err
	}

	utxoScripts := make([][]byte, 0, len(utxos))
	for _, u := range utxos {
		utxoScripts = append(utxoScripts, u.GetScript())
	}
	scripts, err := s.resolveScripts(utxoScripts)
	if err != nil {
		return nil, err
	}

	info := &SyncInfo{Height: height}
	unspents := make([]domain.Unspent, 0, len(utxos))
	seen := make(map[domain.UnspentKey]struct{}, len(utxos))
	used := make(map[domain.Keychain]uint32, 2)
	for _, u := range utxos {
		derivation, ok := scripts[string(u.GetScript())]
		if !ok {
			logger.Warnf("skipping unspent %s:%d of unknown script", u.GetTxid(), u.GetIndex())
			info.Unknown++
			continue
		}
		if last, ok := used[derivation.keychain]; !ok || derivation.index > last {
			used[derivation.keychain] = derivation.index
		}
		unspent := domain.Unspent{
			TxID:          u.GetTxid(),
			VOut:          u.GetIndex(),
			WalletName:    name,
			Value:         u.GetValue(),
			ScriptPubKey:  u.GetScript(),
			Address:       u.GetAddress(),
			Keychain:      derivation.keychain,
			Index:         derivation.index,
			Confirmations: u.GetConfirmations(),
		}
		unspents = append(unspents, unspent)
		seen[unspent.Key()] = struct{}{}
	}

	unspentRepo := s.repoManager.UnspentRepository()
	stored, err := unspentRepo.GetAvailableUnspents(ctx, name)
	if err != nil {
		return nil, err
	}
	spentKeys := make([]domain.UnspentKey, 0)
	for _, u := range stored {
		if _, ok := seen[u.Key()]; !ok {
			spentKeys = append(spentKeys, u.Key())
		}
	}

	if info.Added, err = unspentRepo.AddUnspents(ctx, unspents); err != nil {
		return nil, err
	}
	if info.Updated, err = unspentRepo.UpdateUnspents(ctx, unspents); err != nil {
		return nil, err
	}
	if info.Spent, err = unspentRepo.SpendUnspents(ctx, spentKeys); err != nil {
		return nil, err
	}

	if err := s.repoManager.WalletRepository().UpdateWallet(
		ctx, name, func(w *domain.Wallet) (*domain.Wallet, error) {
			for keychain, index := range used {
				if err := w.MarkUsed(keychain, index); err != nil {
					return nil, err
				}
			}
			w.Synced(height)
			return w, nil
		},
	); err != nil {
		return nil, err
	}

	// re-import once the last used index of a keychain gets within half a
	// lookahead of the end of the watched range
	for _, index := range used {
		if err := s.extendRange(ctx, name, nodeWallet, index, s.lookahead/2); err != nil {
			return nil, err
		}
	}

	logger.WithFields(log.Fields{
		"height":  info.Height,
		"added":   info.Added,
		"updated": info.Updated,
		"spent":   info.Spent,
	}).Debug("synced wallet")
	return info, nil
}

// NewAddress reserves the next receive index and returns its address.
func (s *walletService) NewAddress(ctx context.Context) (string, error) {
	name, nodeWallet, err := s.current()
	if err != nil {
		return "", err
	}

	var index uint32
	if err := s.repoManager.WalletRepository().UpdateWallet(
		ctx, name, func(w *domain.Wallet) (*domain.Wallet, error) {
			i, err := w.NextIndex(domain.KeychainExternal)
			if err != nil {
				return nil, err
			}
			index = i
			return w, nil
		},
	); err != nil {
		return "", err
	}

	// the node must watch every address handed out
	if err := s.extendRange(ctx, name, nodeWallet, index, 0); err != nil {
		return "", err
	}

	s.lock.RLock()
	desc := s.descriptors[domain.KeychainExternal]
	s.lock.RUnlock()

	addr, err := desc.Address(index, s.network.Params())
	if err != nil {
		return "", err
	}

	log.WithFields(log.Fields{"wallet": name, "index": index}).Debug("derived receive address")
	return addr.EncodeAddress(), nil
}

func (s *walletService) Balance(ctx context.Context) (domain.Balance, error) {
	name, _, err := s.current()
	if err != nil {
		return domain.Balance{}, err
	}
	return s.repoManager.UnspentRepository().GetBalance(ctx, name)
}

// Send pays sats to address with coins of the wallet. The transaction is
// funded by the node, signed and verified locally, then broadcast.
func (s *walletService) Send(
	ctx context.Context, address string, sats int64,
) (string, error) {
	name, nodeWallet, err := s.current()
	if err != nil {
		return "", err
	}

	s.lock.RLock()
	signer := s.signer
	s.lock.RUnlock()
	if signer == nil {
		return "", ErrWalletWatchOnly
	}

	if sats <= 0 {
		return "", ErrInvalidAmount
	}
	addr, err := btcutil.DecodeAddress(address, s.network.Params())
	if err != nil || !addr.IsForNet(s.network.Params()) {
		return "", ErrInvalidAddress
	}

	psbt, err := nodeWallet.FundPsbt(ctx, map[string]int64{address: sats})
	if err != nil {
		return "", fmt.Errorf("failed to fund psbt: %w", err)
	}
	signedPsbt, err := signer.SignPsbt(psbt)
	if err != nil {
		return "", fmt.Errorf("failed to sign psbt: %w", err)
	}
	tx, err := wallet.FinalizePsbt(signedPsbt)
	if err != nil {
		return "", err
	}

	if err := s.VerifyTransaction(ctx, tx); err != nil {
		return "", err
	}

	txid, err := nodeWallet.BroadcastTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("failed to broadcast transaction: %w", err)
	}

	spentKeys := make([]domain.UnspentKey, 0, len(tx.TxIn))
	for _, in := range tx.TxIn {
		spentKeys = append(spentKeys, domain.UnspentKey{
			TxID: in.PreviousOutPoint.Hash.String(),
			VOut: in.PreviousOutPoint.Index,
		})
	}
	if _, err := s.repoManager.UnspentRepository().SpendUnspents(
		ctx, spentKeys,
	); err != nil {
		log.WithError(err).Warn("failed to mark spent unspents")
	}

	log.WithFields(log.Fields{"wallet": name, "txid": txid}).Info("broadcasted transaction")
	return txid, nil
}

// VerifyTransaction runs the script engine on every input of tx. Each
// prevout must belong to a transaction known to the node and be locked to a
// script of this wallet, otherwise wallet.ErrPrevoutNotFound is returned.
func (s *walletService) VerifyTransaction(ctx context.Context, tx *wire.MsgTx) error {
	if tx == nil {
		return ErrNullTransaction
	}
	_, nodeWallet, err := s.current()
	if err != nil {
		return err
	}

	prevOuts, err := fetchPrevOuts(ctx, nodeWallet, tx)
	if err != nil {
		return err
	}
	prevScripts := make([][]byte, 0, len(prevOuts))
	for _, prevOut := range prevOuts {
		prevScripts = append(prevScripts, prevOut.PkScript)
	}
	scripts, err := s.resolveScripts(prevScripts)
	if err != nil {
		return err
	}
	for outpoint, prevOut := range prevOuts {
		if _, ok := scripts[string(prevOut.PkScript)]; !ok {
			return fmt.Errorf(
				"%w: %s is not owned by wallet", wallet.ErrPrevoutNotFound, outpoint,
			)
		}
	}

	return wallet.VerifyTransaction(tx, prevOuts)
}

func (s *walletService) open(
	ctx context.Context, w *domain.Wallet, signer *wallet.Signer, importDescs bool,
) error {
	if w.Network != s.network.String() {
		return ErrWalletNetworkMismatch
	}

	descriptors := make(map[domain.Keychain]*wallet.Descriptor, 2)
	for _, keychain := range []domain.Keychain{
		domain.KeychainExternal, domain.KeychainInternal,
	} {
		str, _ := w.Descriptor(keychain)
		desc, err := wallet.ParseDescriptor(str)
		if err != nil {
			return err
		}
		descriptors[keychain] = desc
	}

	if err := s.node.CreateOrLoadWallet(
		ctx, w.Name, ports.WalletOpts{WatchOnly: true, Blank: true},
	); err != nil {
		return err
	}
	nodeWallet, err := s.node.Wallet(w.Name)
	if err != nil {
		return err
	}

	rangeEnd := s.rangeEnd(w)
	if importDescs {
		if err := importWalletDescriptors(ctx, nodeWallet, w, rangeEnd); err != nil {
			return err
		}
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.name = w.Name
	s.nodeWallet = nodeWallet
	s.descriptors = descriptors
	s.importedRange = rangeEnd
	s.signer = signer

	log.WithFields(log.Fields{
		"wallet":    w.Name,
		"watchOnly": signer == nil,
	}).Info("opened wallet")
	return nil
}

func (s *walletService) current() (string, ports.NodeWallet, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.nodeWallet == nil {
		return "", nil, ErrWalletNotInitialized
	}
	return s.name, s.nodeWallet, nil
}

func (s *walletService) rangeEnd(w *domain.Wallet) uint32 {
	last := w.LastReceiveIndex
	if w.LastChangeIndex > last {
		last = w.LastChangeIndex
	}
	if last < 0 {
		return s.lookahead
	}
	return uint32(last) + s.lookahead
}

// extendRange re-imports the descriptors up to index plus the lookahead if
// index is less than margin indexes away from the end of the imported range.
func (s *walletService) extendRange(
	ctx context.Context, name string, nodeWallet ports.NodeWallet,
	index, margin uint32,
) error {
	s.lock.RLock()
	importedRange := s.importedRange
	s.lock.RUnlock()

	if uint64(index)+uint64(margin) < uint64(importedRange) {
		return nil
	}

	w, err := s.repoManager.WalletRepository().GetWallet(ctx, name)
	if err != nil {
		return err
	}
	rangeEnd := index + s.lookahead
	if err := importWalletDescriptors(ctx, nodeWallet, w, rangeEnd); err != nil {
		return err
	}

	s.lock.Lock()
	s.importedRange = rangeEnd
	s.lock.Unlock()
	return nil
}

type derivation struct {
	keychain domain.Keychain
	index    uint32
}

// resolveScripts maps every given script derived by the wallet to its
// derivation. Scripts outside the imported range are searched for in up to
// maxScanWindows further windows of lookahead indexes per keychain.
func (s *walletService) resolveScripts(scripts [][]byte) (map[string]derivation, error) {
	s.lock.RLock()
	descriptors := s.descriptors
	rangeEnd := s.importedRange
	s.lock.RUnlock()

	known, err := deriveScripts(descriptors, 0, rangeEnd)
	if err != nil {
		return nil, err
	}

	resolved := make(map[string]derivation, len(scripts))
	missing := make(map[string]struct{})
	for _, script := range scripts {
		if d, ok := known[string(script)]; ok {
			resolved[string(script)] = d
			continue
		}
		missing[string(script)] = struct{}{}
	}

	from := uint64(rangeEnd) + 1
	for i := 0; i < maxScanWindows && len(missing) > 0; i++ {
		if from > math.MaxInt32 {
			break
		}
		to := from + uint64(s.lookahead) - 1
		if to > math.MaxInt32 {
			to = math.MaxInt32
		}
		window, err := deriveScripts(descriptors, uint32(from), uint32(to))
		if err != nil {
			return nil, err
		}
		for script := range missing {
			if d, ok := window[script]; ok {
				resolved[script] = d
				delete(missing, script)
			}
		}
		from = to + 1
	}
	return resolved, nil
}

// deriveScripts maps the output scripts of every descriptor, in the
// index range [from, to], to their derivation.
func deriveScripts(
	descriptors map[domain.Keychain]*wallet.Descriptor, from, to uint32,
) (map[string]derivation, error) {
	scripts := make(map[string]derivation, 2*int(to-from+1))
	for keychain, desc := range descriptors {
		for i := from; ; i++ {
			script, err := desc.ScriptPubKey(i)
			if err != nil {
				return nil, err
			}
			scripts[string(script)] = derivation{keychain, i}
			if i == to {
				break
			}
		}
	}
	return scripts, nil
}

func importWalletDescriptors(
	ctx context.Context, nodeWallet ports.NodeWallet, w *domain.Wallet,
	rangeEnd uint32,
) error {
	reqs := []ports.ImportDescriptorRequest{
		{
			Descriptor: w.ReceiveDescriptor,
			Active:     true,
			RangeEnd:   rangeEnd,
		},
		{
			Descriptor: w.ChangeDescriptor,
			Active:     true,
			RangeEnd:   rangeEnd,
			Internal:   true,
		},
	}
	if err := nodeWallet.ImportDescriptors(ctx, reqs); err != nil {
		return fmt.Errorf("failed to import descriptors: %w", err)
	}
	return nil
}

// fetchPrevOuts returns the outputs spent by tx, fetching the parent
// transactions from the node concurrently.
func fetchPrevOuts(
	ctx context.Context, nodeWallet ports.NodeWallet, tx *wire.MsgTx,
) (map[wire.OutPoint]*wire.TxOut, error) {
	hashes := make([]chainhash.Hash, 0, len(tx.TxIn))
	seen := make(map[chainhash.Hash]struct{}, len(tx.TxIn))
	for _, in := range tx.TxIn {
		hash := in.PreviousOutPoint.Hash
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}
		hashes = append(hashes, hash)
	}

	lock := &sync.Mutex{}
	parents := make(map[chainhash.Hash]*wire.MsgTx, len(hashes))
	eg, egCtx := errgroup.WithContext(ctx)
	for _, hash := range hashes {
		hash := hash
		eg.Go(func() error {
			parent, err := nodeWallet.GetTransaction(egCtx, hash.String())
			if err != nil {
				if errors.Is(err, ports.ErrTransactionNotFound) {
					return fmt.Errorf("%w: %s", wallet.ErrPrevoutNotFound, hash)
				}
				return err
			}
			lock.Lock()
			defer lock.Unlock()
			parents[hash] = parent
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	prevOuts := make(map[wire.OutPoint]*wire.TxOut, len(tx.TxIn))
	for _, in := range tx.TxIn {
		outpoint := in.PreviousOutPoint
		parent := parents[outpoint.Hash]
		if parent == nil || int(outpoint.Index) >= len(parent.TxOut) {
			return nil, fmt.Errorf("%w: %s", wallet.ErrPrevoutNotFound, outpoint)
		}
		prevOuts[outpoint] = parent.TxOut[outpoint.Index]
	}
	return prevOuts, nil
}

func areSecretDescriptors(receive, change string) (bool, error) {
	receiveDesc, err := wallet.ParseDescriptor(receive)
	if err != nil {
		return false, err
	}
	changeDesc, err := wallet.ParseDescriptor(change)
	if err != nil {
		return false, err
	}
	if receiveDesc.IsPrivate() != changeDesc.IsPrivate() {
		return false, ErrMixedDescriptors
	}
	return receiveDesc.IsPrivate(), nil
}

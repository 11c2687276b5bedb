package bitcoind

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/rpcclient"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/descwallet/internal/core/ports"
	"github.com/tdex-network/descwallet/pkg/circuitbreaker"
	"go.uber.org/ratelimit"
)

const defaultRateLimit = 100

// Config holds the connection parameters of a bitcoind node.
type Config struct {
	// RPCURL is the node endpoint, with or without the http:// scheme
	RPCURL   string
	User     string
	Password string
	Network  *chaincfg.Params
	// RateLimit is the max number of requests per second sent to the node
	RateLimit int
}

func (c Config) validate() error {
	if _, err := ParseRPCURL(c.RPCURL); err != nil {
		return err
	}
	if c.Network == nil {
		return fmt.Errorf("missing network params")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	return nil
}

// rpc is the breaker and limiter shared by every client of the same node.
type rpc struct {
	cb      *gobreaker.CircuitBreaker
	limiter ratelimit.Limiter
}

type node struct {
	cfg    Config
	host   string
	client *rpcclient.Client
	rpc    *rpc

	lock    *sync.Mutex
	wallets map[string]*nodeWallet
}

// NewNode returns a client of the bitcoind node reachable at cfg.RPCURL. No
// connection is made until the first call.
func NewNode(cfg Config) (ports.Node, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	host, _ := ParseRPCURL(cfg.RPCURL)

	rateLimit := cfg.RateLimit
	if rateLimit == 0 {
		rateLimit = defaultRateLimit
	}

	client, err := newClient(cfg, host)
	if err != nil {
		return nil, err
	}

	return &node{
		cfg:    cfg,
		host:   host,
		client: client,
		rpc: &rpc{
			cb:      circuitbreaker.NewCircuitBreaker("bitcoind"),
			limiter: ratelimit.New(rateLimit),
		},
		lock:    &sync.Mutex{},
		wallets: make(map[string]*nodeWallet),
	}, nil
}

func (n *node) CreateOrLoadWallet(
	ctx context.Context, name string, opts ports.WalletOpts,
) error {
	if len(name) <= 0 {
		return ErrNullWalletName
	}

	if _, err := n.rpc.call(ctx, func() (interface{}, error) {
		return n.client.LoadWallet(name)
	}); err == nil {
		log.Debugf("loaded wallet %s", name)
		return nil
	} else if isRPCError(err, rpcWalletAlreadyLoaded) {
		return nil
	} else if !isRPCError(err, rpcWalletNotFound) {
		return fmt.Errorf("failed to load wallet %s: %w", name, err)
	}

	params, err := marshalParams(
		name, opts.WatchOnly, opts.Blank, "", false, true,
	)
	if err != nil {
		return err
	}
	if _, err := n.rpc.call(ctx, func() (interface{}, error) {
		return n.client.RawRequest("createwallet", params)
	}); err != nil {
		return fmt.Errorf("failed to create wallet %s: %w", name, err)
	}

	log.Debugf("created wallet %s", name)
	return nil
}

func (n *node) Wallet(name string) (ports.NodeWallet, error) {
	if len(name) <= 0 {
		return nil, ErrNullWalletName
	}

	n.lock.Lock()
	defer n.lock.Unlock()

	if w, ok := n.wallets[name]; ok {
		return w, nil
	}

	host := fmt.Sprintf("%s/wallet/%s", n.host, url.PathEscape(name))
	client, err := newClient(n.cfg, host)
	if err != nil {
		return nil, err
	}

	w := &nodeWallet{
		name:    name,
		network: n.cfg.Network,
		client:  client,
		rpc:     n.rpc,
		onClose: n.forget,
	}
	n.wallets[name] = w
	return w, nil
}

func (n *node) GetBlockCount(ctx context.Context) (int64, error) {
	res, err := n.rpc.call(ctx, func() (interface{}, error) {
		return n.client.GetBlockCount()
	})
	if err != nil {
		return 0, err
	}
	return res.(int64), nil
}

func (n *node) Close() {
	n.lock.Lock()
	wallets := make([]*nodeWallet, 0, len(n.wallets))
	for _, w := range n.wallets {
		wallets = append(wallets, w)
	}
	n.lock.Unlock()

	for _, w := range wallets {
		w.Close()
	}
	n.client.Shutdown()
}

func (n *node) forget(name string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	delete(n.wallets, name)
}

// call runs fn through the rate limiter and the circuit breaker. Errors
// returned by the node itself do not count as breaker failures.
func (r *rpc) call(
	ctx context.Context, fn func() (interface{}, error),
) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.limiter.Take()

	var rpcErr *btcjson.RPCError
	res, err := r.cb.Execute(func() (interface{}, error) {
		res, err := fn()
		if e, ok := err.(*btcjson.RPCError); ok {
			rpcErr = e
			return nil, nil
		}
		return res, err
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, ErrNodeUnavailable
		}
		return nil, err
	}
	if rpcErr != nil {
		return nil, rpcErr
	}
	return res, nil
}

func newClient(cfg Config, host string) (*rpcclient.Client, error) {
	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         host,
		User:         cfg.User,
		Pass:         cfg.Password,
		Params:       cfg.Network.Name,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}

// ParseRPCURL validates an endpoint in the form [http://]host:port and returns
// its host:port part.
func ParseRPCURL(rpcURL string) (string, error) {
	if len(rpcURL) <= 0 {
		return "", ErrInvalidRPCURL
	}
	if !strings.Contains(rpcURL, "://") {
		rpcURL = "http://" + rpcURL
	}
	u, err := url.Parse(rpcURL)
	if err != nil || u.Scheme != "http" || len(u.Host) <= 0 || len(u.Port()) <= 0 {
		return "", ErrInvalidRPCURL
	}
	return u.Host, nil
}

func marshalParams(params ...interface{}) ([]json.RawMessage, error) {
	rawParams := make([]json.RawMessage, 0, len(params))
	for _, p := range params {
		buf, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		rawParams = append(rawParams, buf)
	}
	return rawParams, nil
}

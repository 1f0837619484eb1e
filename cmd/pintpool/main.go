// pintpool is a standalone demonstration of the transaction pool core: it
// wires a validator against an in-memory account snapshot, submits a
// handful of synthetic transactions, and prints the pending pool's
// best-first iteration order.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"

	"github.com/Pyoyeongjong/pintL1/core/txpool"
	"github.com/Pyoyeongjong/pintL1/core/txpool/pinttx"
	"github.com/Pyoyeongjong/pintL1/core/txpool/subpool"
	"github.com/Pyoyeongjong/pintL1/core/txpool/txtypes"
	"github.com/Pyoyeongjong/pintL1/core/txpool/validate"
)

const clientIdentifier = "pintpool"

var app = &cli.App{
	Name:    clientIdentifier,
	Usage:   "transaction pool demonstration harness",
	Version: "1.0.0",
}

func init() {
	app.Action = run
	app.Flags = []cli.Flag{
		&cli.IntFlag{Name: "pending-buffer", Value: txpool.DefaultConfig.MaxNewPendingTxsNotifications, Usage: "pending-notification buffer size"},
		&cli.IntFlag{Name: "rejections-cap", Value: txpool.DefaultConfig.RecentRejectionsCap, Usage: "recent-rejection ring capacity"},
		&cli.Uint64Flag{Name: "fee-cap", Value: 1_000_000_000, Usage: "advisory fee cap passed to the validator (not enforced)"},
	}
	app.Before = func(ctx *cli.Context) error {
		log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, log.LevelInfo, true)))
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig binds the cli.Context's flags through a pflag.FlagSet into
// viper, the layering the rest of the pack uses for config precedence
// (flag > env > default) without hand-rolling it per flag.
func loadConfig(ctx *cli.Context) txpool.Config {
	fs := pflag.NewFlagSet(clientIdentifier, pflag.ContinueOnError)
	fs.Int("pending-buffer", ctx.Int("pending-buffer"), "")
	fs.Int("rejections-cap", ctx.Int("rejections-cap"), "")
	// Only flags given on the command line are parsed, which marks them
	// changed; viper ranks a changed flag above env, an unchanged one below.
	var args []string
	for _, name := range []string{"pending-buffer", "rejections-cap"} {
		if ctx.IsSet(name) {
			args = append(args, fmt.Sprintf("--%s=%d", name, ctx.Int(name)))
		}
	}
	_ = fs.Parse(args)

	v := viper.New()
	v.SetEnvPrefix("PINTPOOL")
	v.AutomaticEnv()
	_ = v.BindPFlags(fs)

	return txpool.Config{
		MaxNewPendingTxsNotifications: cast.ToInt(v.Get("pending-buffer")),
		RecentRejectionsCap:           cast.ToInt(v.Get("rejections-cap")),
	}
}

func run(ctx *cli.Context) error {
	config := loadConfig(ctx)
	feeCap := ctx.Uint64("fee-cap")

	state := newDemoState()
	validator := validate.NewPintValidatorBuilder[*pinttx.Transaction](state).
		SetTxFeeCap(feeCap).
		Build()
	ordering := subpool.Uint256Ordering[*pinttx.Transaction]{}

	pool := txpool.New[*pinttx.Transaction](validator, ordering, config)

	alice := common.HexToAddress("0x1111111111111111111111111111111111111111")
	state.setAccount(alice, 0, uint256.NewInt(1_000_000))

	for i, fee := range []uint64{10, 20, 5} {
		tx := pinttx.New(1, randomHash(byte(i)), alice, common.Address{}, uint64(i), uint256.NewInt(0), uint256.NewInt(fee))
		if _, err := pool.AddTransaction(context.Background(), txtypes.Local, tx); err != nil {
			fmt.Printf("rejected tx %d: %v\n", i, err)
			continue
		}
	}

	fmt.Printf("pending=%d parked=%d\n", pool.PendingLen(), pool.ParkedLen())

	best := pool.BestTransactions()
	for {
		tx := best.Next()
		if tx == nil {
			break
		}
		fmt.Printf("best: sender=%s nonce=%d fee=%s\n", tx.Transaction.Sender(), tx.Nonce(), tx.Cost())
	}

	if rejections := pool.RecentRejections(10); len(rejections) > 0 {
		fmt.Println("recent rejections:")
		for _, r := range rejections {
			fmt.Printf("  %s: %s\n", r.Hash, r.Kind)
		}
	}

	return nil
}

func randomHash(seed byte) common.Hash {
	var h common.Hash
	h[common.HashLength-1] = seed
	return h
}

// demoState is a trivial in-memory validate.StateProviderFactory: a single
// fixed snapshot, no block history, built only to exercise the pool above.
type demoState struct {
	accounts map[common.Address]*validate.Account
}

func newDemoState() *demoState {
	return &demoState{accounts: make(map[common.Address]*validate.Account)}
}

func (s *demoState) setAccount(addr common.Address, nonce uint64, balance *uint256.Int) {
	s.accounts[addr] = &validate.Account{Nonce: nonce, Balance: balance}
}

func (s *demoState) Latest() (validate.StateSnapshot, error) {
	return s, nil
}

func (s *demoState) StateByBlockNumber(uint64) (validate.StateSnapshot, error) {
	return s, nil
}

func (s *demoState) BasicAccount(addr common.Address) (*validate.Account, error) {
	return s.accounts[addr], nil
}

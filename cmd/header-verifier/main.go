// Package main runs the header verifier against a FACT0RN node.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/factorcore/internal/consensus/params"
	"github.com/goodnatureofminers/factorcore/internal/consensus/pow"
	"github.com/goodnatureofminers/factorcore/internal/fact0rn"
	"github.com/goodnatureofminers/factorcore/internal/metrics"
	"github.com/goodnatureofminers/factorcore/internal/repository/clickhouse"
	"github.com/goodnatureofminers/factorcore/internal/service/verifier"
	"github.com/goodnatureofminers/factorcore/internal/transport"
	"github.com/goodnatureofminers/factorcore/pkg/batcher"
)

type config struct {
	ClickhouseDSN string `long:"clickhouse-dsn" env:"HEADER_VERIFIER_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	Network       string `long:"network" env:"HEADER_VERIFIER_NETWORK" description:"network name (mainnet, testnet, signet, regtest)" required:"true"`

	RPCURL        string `long:"rpc-url" env:"HEADER_VERIFIER_RPC_URL" description:"FACT0RN RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser       string `long:"rpc-user" env:"HEADER_VERIFIER_RPC_USER" description:"RPC username, cookie auth when empty"`
	RPCPassword   string `long:"rpc-password" env:"HEADER_VERIFIER_RPC_PASSWORD" description:"RPC password"`
	RPCCookiePath string `long:"rpc-cookie" env:"HEADER_VERIFIER_RPC_COOKIE" description:"path to the node's .cookie file"`
	RPCRate       int    `long:"rpc-rps" env:"HEADER_VERIFIER_RPC_RPS" description:"max RPC requests per second, 0 for no limit" default:"200"`
	ZMQAddr       string `long:"zmq-addr" env:"HEADER_VERIFIER_ZMQ_ADDR" description:"zmq hashblock endpoint (zmq builds only)"`

	Workers       int           `long:"workers" env:"HEADER_VERIFIER_WORKERS" description:"parallel header fetches" default:"8"`
	FetchBatch    int           `long:"fetch-batch" env:"HEADER_VERIFIER_FETCH_BATCH" description:"headers per sync round" default:"500"`
	PollInterval  time.Duration `long:"poll-interval" env:"HEADER_VERIFIER_POLL_INTERVAL" description:"idle wait once caught up" default:"10s"`
	MaxReorgDepth int32         `long:"max-reorg-depth" env:"HEADER_VERIFIER_MAX_REORG_DEPTH" description:"deepest fork the verifier follows" default:"1000"`
	WriteBatch    int           `long:"write-batch" env:"HEADER_VERIFIER_WRITE_BATCH" description:"verdict rows per insert" default:"1000"`
	WriteInterval time.Duration `long:"write-interval" env:"HEADER_VERIFIER_WRITE_INTERVAL" description:"max delay before buffered verdicts are inserted" default:"5s"`

	GRPCAddr string `long:"grpc-addr" env:"HEADER_VERIFIER_GRPC_ADDR" description:"gRPC health server address" default:":8000"`
	HTTPAddr string `long:"http-addr" env:"HEADER_VERIFIER_HTTP_ADDR" description:"status and metrics address" default:":8001"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if cfg.ClickhouseDSN == "" {
		logger.Fatal("ClickHouse DSN is required")
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("header verifier failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	p, err := params.ForNetwork(cfg.Network)
	if err != nil {
		return err
	}

	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close repository", zap.Error(err))
		}
	}()

	rpcClient, err := fact0rn.NewClient(fact0rn.ClientConfig{
		URL:        cfg.RPCURL,
		User:       cfg.RPCUser,
		Password:   cfg.RPCPassword,
		CookiePath: cfg.RPCCookiePath,
		Network:    p.Network,
	})
	if err != nil {
		return fmt.Errorf("init fact0rn rpc client: %w", err)
	}
	defer func() {
		rpcClient.Shutdown()
		rpcClient.WaitForShutdown()
	}()

	source, err := fact0rn.NewSource(fact0rn.NewObservedClient(rpcClient, metrics.NewRPCClient(p.Network)), cfg.RPCRate)
	if err != nil {
		return err
	}
	validator, err := pow.NewValidator(logger, metrics.NewPowValidator(p.Network), p)
	if err != nil {
		return err
	}

	wake, err := startBlockSignal(ctx, cfg.ZMQAddr, logger)
	if err != nil {
		return err
	}

	svc, err := verifier.NewService(logger, p, source, repo, validator, metrics.NewHeaderVerifier(p.Network), verifier.Config{
		WorkerCount:   cfg.Workers,
		FetchBatch:    cfg.FetchBatch,
		PollInterval:  cfg.PollInterval,
		MaxReorgDepth: cfg.MaxReorgDepth,
		Write: batcher.Config{
			Size:     cfg.WriteBatch,
			Interval: cfg.WriteInterval,
		},
	}, wake)
	if err != nil {
		return err
	}

	status, err := transport.NewStatusHandler(logger, p.Network, svc.Chain(), repo, svc)
	if err != nil {
		return err
	}

	health, err := startGRPCServer(ctx, cfg.GRPCAddr, logger)
	if err != nil {
		return err
	}
	go reportHealth(ctx, health, svc)

	if err := startHTTPServer(ctx, cfg.HTTPAddr, cfg.GRPCAddr, status, logger); err != nil {
		return err
	}

	logger.Info("starting header verifier",
		zap.String("network", p.Network),
		zap.String("rpc_url", cfg.RPCURL),
		zap.Int("workers", cfg.Workers),
	)
	return svc.Run(ctx)
}

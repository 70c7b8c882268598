// Package node wires storage, the service registry, the transaction executor
// and the RPC server into a runnable ledger node.
package node

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Klingon-tech/klingnet-tokens/config"
	klog "github.com/Klingon-tech/klingnet-tokens/internal/log"
	"github.com/Klingon-tech/klingnet-tokens/internal/rpc"
	"github.com/Klingon-tech/klingnet-tokens/internal/service"
	"github.com/Klingon-tech/klingnet-tokens/internal/storage"
	"github.com/Klingon-tech/klingnet-tokens/internal/token"
	"github.com/rs/zerolog"
)

// Node is a fully-initialized ledger node.
type Node struct {
	cfg    *config.Config
	logger zerolog.Logger

	// Core
	db       storage.DB
	registry *service.Registry
	executor *service.Executor

	// RPC
	rpcServer *rpc.Server

	// Lifecycle
	stopOnce sync.Once
}

// New creates and initializes a new Node: logger, storage, services and the
// executor. The RPC server is created but not bound; call Start for that.
func New(cfg *config.Config) (*Node, error) {
	// ── 1. Init logger ──────────────────────────────────────────────
	logFile := expandHome(cfg.Log.File)
	if logFile == "" {
		logsDir := cfg.LogsDir()
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = filepath.Join(logsDir, "tokend.log")
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.Node

	logger.Info().
		Str("network", string(cfg.Network)).
		Str("storage", string(cfg.Storage.Engine)).
		Msg("Starting Klingnet token ledger node")

	// ── 2. Open storage ─────────────────────────────────────────────
	db, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	// ── 3. Services ─────────────────────────────────────────────────
	registry := service.NewRegistry()
	if err := token.Register(registry); err != nil {
		db.Close()
		return nil, fmt.Errorf("register token service: %w", err)
	}
	for _, svc := range registry.Services() {
		logger.Info().
			Uint16("service_id", svc.ID).
			Str("name", svc.Name).
			Int("messages", len(svc.Messages)).
			Msg("Service registered")
	}

	// ── 4. Executor ─────────────────────────────────────────────────
	executor, err := service.NewExecutor(db, registry)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create executor: %w", err)
	}

	// ── 5. RPC server ───────────────────────────────────────────────
	var rpcServer *rpc.Server
	if cfg.RPC.Enabled {
		rpcServer = rpc.New(cfg.RPCListenAddr(), executor, string(cfg.Network), cfg.RPC)
	} else {
		logger.Warn().Msg("RPC disabled by config")
	}

	return &Node{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		registry:  registry,
		executor:  executor,
		rpcServer: rpcServer,
	}, nil
}

// openStorage opens the configured storage engine.
func openStorage(cfg *config.Config) (storage.DB, error) {
	switch cfg.Storage.Engine {
	case config.EngineMemory:
		klog.Storage.Warn().Msg("Using in-memory storage; ledger state is lost on shutdown")
		return storage.NewMemory(), nil
	case config.EngineBadger, "":
		path := expandHome(cfg.LedgerDir())
		db, err := storage.NewBadger(path)
		if err != nil {
			return nil, fmt.Errorf("open database at %s: %w", path, err)
		}
		klog.Storage.Info().Str("path", path).Msg("Database opened")
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported storage engine %q", cfg.Storage.Engine)
	}
}

// Start binds the RPC server and reports ledger state.
func (n *Node) Start() error {
	if n.rpcServer != nil {
		if err := n.rpcServer.Start(); err != nil {
			return fmt.Errorf("start RPC at %s: %w", n.cfg.RPCListenAddr(), err)
		}
	}

	count, err := n.TokenCount()
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}

	n.logger.Info().
		Int("tokens", count).
		Str("rpc", n.RPCAddr()).
		Msg("Node started successfully")

	return nil
}

// Stop performs graceful shutdown in reverse order. It is safe to call more
// than once.
func (n *Node) Stop() {
	n.stopOnce.Do(func() {
		if n.rpcServer != nil {
			if err := n.rpcServer.Stop(); err != nil {
				n.logger.Warn().Err(err).Msg("RPC shutdown")
			}
		}
		if n.db != nil {
			if err := n.db.Close(); err != nil {
				n.logger.Warn().Err(err).Msg("Database close")
			}
		}
		n.logger.Info().Msg("Goodbye!")
	})
}

// RPCAddr returns the address the RPC server is listening on.
func (n *Node) RPCAddr() string {
	if n.rpcServer == nil {
		return ""
	}
	return n.rpcServer.Addr()
}

// Executor returns the node's transaction executor.
func (n *Node) Executor() *service.Executor {
	return n.executor
}

// TokenCount returns the number of tokens in the ledger.
func (n *Node) TokenCount() (int, error) {
	snap := n.executor.Snapshot()
	defer snap.Release()
	return token.NewSchema(snap).Count()
}

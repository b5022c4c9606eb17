package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/groovechain/groovechain/foundation/blockchain/genesis"
	"github.com/groovechain/groovechain/foundation/blockchain/miner"
	"github.com/groovechain/groovechain/foundation/blockchain/worker"
	"github.com/groovechain/groovechain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("MINER")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Miner struct {
			Name             string        `conf:"default:miner1"`
			GenesisPath      string        `conf:"default:zblock/genesis.json"`
			TipCheckInterval time.Duration `conf:"default:2s"`
		}
		Node struct {
			Host string `conf:"default:0.0.0.0:9080"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "MINER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting miner", "version", build, "name", cfg.Miner.Name)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Miner Support

	// The miner must load the same genesis file as the node. A different file
	// produces a different derived genesis block and the node will reject
	// everything this miner submits.
	gen, err := genesis.Load(cfg.Miner.GenesisPath)
	if err != nil {
		return fmt.Errorf("unable to load genesis file: %w", err)
	}
	log.Infow("startup", "status", "genesis loaded", "chain_id", gen.ChainID, "difficulty", gen.Difficulty, "genesis_id", gen.Block().ID)

	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...))
	}

	// The move payload carried by each block is random. The source does not
	// need to be cryptographic, only non-degenerate across miners.
	src := rand.New(rand.NewSource(time.Now().UnixNano()))

	mnr, err := miner.New(miner.Config{
		MinerLabel: cfg.Miner.Name,
		NodeHost:   cfg.Node.Host,
		Genesis:    gen,
		MoveSource: src,
		EvHandler:  ev,
	})
	if err != nil {
		return fmt.Errorf("unable to construct miner: %w", err)
	}

	// The worker package implements the mining loop and the tip watch. The
	// worker will register itself with the miner.
	worker.Run(mnr, cfg.Miner.TipCheckInterval, ev)
	defer mnr.Shutdown()

	// =========================================================================
	// Shutdown

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	sig := <-shutdown
	log.Infow("shutdown", "status", "shutdown started", "signal", sig)
	defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

	return nil
}

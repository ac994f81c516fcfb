// This program runs the escape time puzzle search standalone so puzzle
// parameterizations can be explored without a running node.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
	"github.com/ardanlabs/juliachain/foundation/blockchain/julia"
	"github.com/ardanlabs/juliachain/foundation/logger"
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
		Puzzle struct {
			BlockID          string  `conf:"help:derive the puzzle from this block id instead of the explicit parameters"`
			CRe              float64 `conf:"default:0.5"`
			CIm              float64 `conf:"default:0.5"`
			ReMin            float64 `conf:"default:0"`
			ReMax            float64 `conf:"default:0.5"`
			TargetIterations uint    `conf:"default:10"`
		}
		Search struct {
			Threads   int           `conf:"default:0,help:searcher goroutines to run. 0 means one per CPU"`
			Timeout   time.Duration `conf:"default:5m"`
			KeepGoing bool          `conf:"default:false,help:keep searching for more solutions after the first"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

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
	// Puzzle Parameters

	params := julia.Params{
		C:                complex(cfg.Puzzle.CRe, cfg.Puzzle.CIm),
		ReMin:            cfg.Puzzle.ReMin,
		ReMax:            cfg.Puzzle.ReMax,
		TargetIterations: uint16(cfg.Puzzle.TargetIterations),
	}

	// A block id overrides the explicit parameters so the search poses the
	// exact puzzle a node would pose for that block.
	if cfg.Puzzle.BlockID != "" {
		params = julia.ParamsForBlock(database.BlockID(cfg.Puzzle.BlockID))
	}

	log.Infow("startup", "status", "puzzle configured", "c", fmt.Sprintf("%v", params.C),
		"reMin", params.ReMin, "reMax", params.ReMax, "target", params.TargetIterations)

	// =========================================================================
	// Search

	threads := cfg.Search.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Search.Timeout)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(threads)

	for i := 0; i < threads; i++ {
		go func(searcher int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(rand.Int63()))

			for {
				started := time.Now()

				candidate, err := julia.Solve(ctx, params, rng)
				if err != nil {
					return
				}

				log.Infow("solution", "searcher", searcher, "candidate", fmt.Sprintf("%v", candidate),
					"since", time.Since(started))

				if !cfg.Search.KeepGoing {
					cancel()
					return
				}
			}
		}(i)
	}

	wg.Wait()

	if err := ctx.Err(); errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("search timed out: %w", err)
	}

	return nil
}

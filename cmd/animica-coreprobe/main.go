// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Command animica-coreprobe replays a JSON or CBOR block stream
// through a consensuscore.Core and prints the accept/reject decision
// trace. It carries no CLI framework dependency, matching the
// teacher's own cmd/checker — plain flag, a network preset, and a
// straight-line main — since spec.md §6 leaves the host process
// ("the caller's responsibility") deliberately outside the core.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

var logger = slog.Default().With("module", "coreprobe")

func main() {
	network := flag.String("network", "testnet", "Policy preset: testnet or mainnet")
	genesisPath := flag.String("genesis", "", "Path to the genesis header (json or cbor, matching -format)")
	genesisWeight := flag.Int64("genesis-weight", 0, "Fixed-point (micronat) weight genesis itself contributes to cumulative fork-choice weight")
	blocksPath := flag.String("blocks", "", "Path to the block stream file to replay")
	format := flag.String("format", "json", "Block stream encoding: json or cbor")
	httpAddr := flag.String("http", "", "If set, serve a read-only introspection HTTP API on this address after replay (e.g. :8080)")
	flag.Parse()

	if *genesisPath == "" || *blocksPath == "" {
		logger.Error("both -genesis and -blocks are required")
		flag.Usage()
		os.Exit(2)
	}

	core, err := buildCore(*network, *genesisPath, *genesisWeight, *format)
	if err != nil {
		logger.Error("failed to construct core", "err", err)
		os.Exit(1)
	}

	blocks, err := loadBlocks(*blocksPath, *format)
	if err != nil {
		logger.Error("failed to load block stream", "err", err)
		os.Exit(1)
	}

	replay(core, blocks)

	if *httpAddr != "" {
		if err := serveHTTP(*httpAddr, core); err != nil {
			logger.Error("http server exited", "err", err)
			os.Exit(1)
		}
	}
}

func replay(core *probeCore, blocks []probeBlock) {
	accepted, shares, rejected := 0, 0, 0
	for i, b := range blocks {
		out, err := core.submit(b)
		if err != nil {
			rejected++
			fmt.Printf("block %d: error: %v\n", i, err)
			continue
		}
		switch out.kind {
		case "BlockAccepted":
			accepted++
		case "ShareReceipt":
			shares++
		default:
			rejected++
		}
		fmt.Printf("block %d: height=%d kind=%s s=%d theta=%d reason=%v\n",
			i, out.height, out.kind, out.s, out.theta, out.reason)
	}
	fmt.Printf("replay complete: accepted=%d shares=%d rejected=%d total=%d\n",
		accepted, shares, rejected, len(blocks))
}

// Copyright (c) 2015-2024 The libbitcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/davecgh/go-spew/spew"
	flags "github.com/jessevdk/go-flags"

	"github.com/mstiv/libbitcoin/chain"
	"github.com/mstiv/libbitcoin/txscript"
)

type config struct {
	InFile     string `short:"i" long:"infile" description:"File containing the hex-encoded transaction (stdin when omitted and no argument is given)"`
	Bip16      bool   `long:"bip16" description:"Count pay-to-script-hash signature operations"`
	Verbose    bool   `short:"v" long:"verbose" description:"Dump the decoded structure"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level (trace, debug, info, warn, error, critical)" default:"info"`
}

var log btclog.Logger

// loadTxHex returns the hex string to decode, preferring a positional
// argument, then the input file, then stdin.
func loadTxHex(cfg *config, remaining []string) (string, error) {
	if len(remaining) > 0 {
		return remaining[0], nil
	}
	if cfg.InFile != "" {
		b, err := os.ReadFile(cfg.InFile)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// dumpTx prints a human-readable breakdown of the decoded transaction.
func dumpTx(tx *chain.Transaction, bip16 bool) {
	fmt.Printf("txid: %s\n", tx.TxHash())
	fmt.Printf("version: %d\n", tx.Version)
	fmt.Printf("locktime: %d\n", tx.LockTime)
	fmt.Printf("coinbase: %v\n", tx.IsCoinbase())
	fmt.Printf("serialized size: %d\n", tx.SerializeSize())
	fmt.Printf("sigops: %d\n", tx.SigOpCount(bip16, nil))

	for i, in := range tx.Inputs {
		fmt.Printf("input %d:\n", i)
		fmt.Printf("  outpoint: %s\n", in.PreviousOutput)
		fmt.Printf("  script: %s\n", in.Script.String())
		fmt.Printf("  sequence: %#08x (final: %v)\n", in.Sequence,
			in.IsFinal())
		fmt.Printf("  sigops: %d\n", in.SigOpCount(bip16, nil))
	}
	for i, out := range tx.Outputs {
		fmt.Printf("output %d:\n", i)
		fmt.Printf("  value: %d\n", out.Value)
		fmt.Printf("  script: %s\n", out.Script.String())
		fmt.Printf("  sigops: %d\n", out.SigOpCount())
	}
}

// realMain is the real main function for showtx.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is
// called.
func realMain() error {
	cfg := config{}
	parser := flags.NewParser(&cfg, flags.Default)
	remaining, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	backend := btclog.NewBackend(os.Stderr)
	log = backend.Logger("MAIN")
	chainLog := backend.Logger("CHAN")
	scriptLog := backend.Logger("SCRP")
	if level, ok := btclog.LevelFromString(cfg.DebugLevel); ok {
		log.SetLevel(level)
		chainLog.SetLevel(level)
		scriptLog.SetLevel(level)
	} else {
		return fmt.Errorf("invalid debug level %q", cfg.DebugLevel)
	}
	chain.UseLogger(chainLog)
	txscript.UseLogger(scriptLog)

	txHex, err := loadTxHex(&cfg, remaining)
	if err != nil {
		return fmt.Errorf("unable to load transaction hex: %v", err)
	}
	serialized, err := hex.DecodeString(strings.TrimSpace(txHex))
	if err != nil {
		return fmt.Errorf("invalid transaction hex: %v", err)
	}

	var tx chain.Transaction
	if err := tx.FromBytes(serialized); err != nil {
		return fmt.Errorf("unable to decode transaction: %v", err)
	}
	log.Debugf("decoded %d byte transaction %s", tx.SerializeSize(),
		tx.TxHash())

	dumpTx(&tx, cfg.Bip16)
	if cfg.Verbose {
		fmt.Print(spew.Sdump(tx))
	}
	return nil
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

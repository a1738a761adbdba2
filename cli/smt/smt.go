/*
Package smt contains CLI commands operating on the persistent trie and the
interactive trie shell.
*/
package smt

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/michaelliao/eth-smt/cli/options"
	"github.com/michaelliao/eth-smt/pkg/config"
	"github.com/michaelliao/eth-smt/pkg/core/smt"
	"github.com/michaelliao/eth-smt/pkg/core/storage"
	"github.com/michaelliao/eth-smt/pkg/services/metrics"
	"github.com/michaelliao/eth-smt/pkg/util"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// Various errors.
var (
	ErrMissingParameter = errors.New("missing argument")
	ErrInvalidParameter = errors.New("can't parse argument")
)

// NewCommands returns trie commands.
func NewCommands() []cli.Command {
	return []cli.Command{
		{
			Name:      "put",
			Usage:     "Set values in the persistent trie as a single new version",
			UsageText: "smt put [--config-file file] [--debug] <address> <value> [<address> <value> ...]",
			Description: `Sets one or more values, every <address> is 0x-prefixed 40 lower-case
hex digits and every <value> is hex data of a positive multiple of 32 bytes.
All pairs are committed as one version. Example:
> smt put 0x0125e02fa10caf6128207bc920ca41b85194bb79 4162416241624162416241624162416241624162416241624162416241624162`,
			Action: handlePut,
			Flags:  options.Common,
		},
		{
			Name:      "get",
			Usage:     "Print the value stored at the address",
			UsageText: "smt get [--config-file file] [--debug] <address>",
			Action:    handleGet,
			Flags:     options.Common,
		},
		{
			Name:      "root",
			Usage:     "Print the latest root hash and version",
			UsageText: "smt root [--config-file file] [--debug]",
			Action:    handleRoot,
			Flags:     options.Common,
		},
		{
			Name:      "dump",
			Usage:     "Print all nodes of the latest trie version",
			UsageText: "smt dump [--config-file file] [--debug]",
			Action:    handleDump,
			Flags:     options.Common,
		},
		{
			Name:      "shell",
			Usage:     "Start an interactive shell over an in-memory trie",
			UsageText: "smt shell [--config-file file] [--debug]",
			Action:    handleShell,
			Flags:     options.Common,
		},
	}
}

// persistentTrie is a trie opened over the configured store.
type persistentTrie struct {
	*smt.Trie
	store *smt.KVStore
	log   *zap.Logger
	prom  *metrics.Service
	pprof *metrics.Service
}

func (p *persistentTrie) Close() {
	p.prom.ShutDown()
	p.pprof.ShutDown()
	if err := p.store.Close(); err != nil {
		p.log.Error("failed to close the DB", zap.Error(err))
	}
	_ = p.log.Sync()
}

func newLogger(ctx *cli.Context, cfg config.Config) (*zap.Logger, error) {
	log, _, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	return log, nil
}

// openTrie opens the latest trie version from the configured store creating
// an empty one if there is none yet.
func openTrie(ctx *cli.Context) (*persistentTrie, error) {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	log, err := newLogger(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := cfg.ApplicationConfiguration
	db, err := storage.NewStore(app.DBConfiguration)
	if err != nil {
		return nil, cli.NewExitError(fmt.Errorf("could not initialize storage: %w", err), 1)
	}
	kv, err := smt.NewKVStore(db, smt.KVStoreOptions{
		CacheSize: app.Trie.CacheSize,
		Compress:  app.Trie.Compress,
	}, log)
	if err != nil {
		_ = db.Close()
		return nil, cli.NewExitError(err, 1)
	}
	p := &persistentTrie{
		store: kv,
		log:   log,
		prom:  metrics.NewPrometheusService(app.Prometheus, log),
		pprof: metrics.NewPprofService(app.Pprof, log),
	}
	root, err := kv.LatestRoot()
	if err == nil {
		p.Trie, err = smt.Open(kv, root, log)
	}
	if err == nil {
		err = p.prom.Start()
	}
	if err == nil {
		err = p.pprof.Start()
	}
	if err != nil {
		p.Close()
		return nil, cli.NewExitError(err, 1)
	}
	return p, nil
}

func parseAddress(s string) (util.Uint160, error) {
	a, err := util.ParseAddress(s)
	if err != nil {
		return a, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return a, nil
}

func parseValue(s string) ([]byte, error) {
	v, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: value %q is not hex", ErrInvalidParameter, s)
	}
	if err := smt.CheckValue(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return v, nil
}

// parseKeyValues parses address and value pairs.
func parseKeyValues(args []string) ([]smt.KeyValue, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, fmt.Errorf("%w: expected <address> <value> pairs", ErrMissingParameter)
	}
	kvs := make([]smt.KeyValue, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		a, err := parseAddress(args[i])
		if err != nil {
			return nil, err
		}
		v, err := parseValue(args[i+1])
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, smt.KeyValue{Address: a, Value: v})
	}
	return kvs, nil
}

func handlePut(ctx *cli.Context) error {
	kvs, err := parseKeyValues(ctx.Args())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	p, err := openTrie(ctx)
	if err != nil {
		return err
	}
	defer p.Close()
	if err := p.UpdateBatch(kvs); err != nil {
		return cli.NewExitError(err, 1)
	}
	printRoot(ctx.App.Writer, p.Trie)
	return nil
}

func handleGet(ctx *cli.Context) error {
	if len(ctx.Args()) != 1 {
		return cli.NewExitError(fmt.Errorf("%w: <address>", ErrMissingParameter), 1)
	}
	a, err := parseAddress(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	p, err := openTrie(ctx)
	if err != nil {
		return err
	}
	defer p.Close()
	return printValue(ctx.App.Writer, p.Trie, a)
}

func handleRoot(ctx *cli.Context) error {
	p, err := openTrie(ctx)
	if err != nil {
		return err
	}
	defer p.Close()
	printRoot(ctx.App.Writer, p.Trie)
	return nil
}

func handleDump(ctx *cli.Context) error {
	p, err := openTrie(ctx)
	if err != nil {
		return err
	}
	defer p.Close()
	if err := dumpTrie(ctx.App.Writer, p.Trie); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func printRoot(w io.Writer, t *smt.Trie) {
	fmt.Fprintf(w, "root: %s\nversion: %d\n", t.StateRoot().StringPrefixed(), t.Version())
}

func printValue(w io.Writer, t *smt.Trie, a util.Uint160) error {
	v, err := t.Get(a)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if len(v) == 0 {
		fmt.Fprintln(w, "<empty>")
		return nil
	}
	fmt.Fprintln(w, "0x"+hex.EncodeToString(v))
	return nil
}

// dumpTrie prints every node indented by its depth.
func dumpTrie(w io.Writer, t *smt.Trie) error {
	return t.Traverse(func(n smt.Node, depth int) bool {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), n)
		return true
	})
}

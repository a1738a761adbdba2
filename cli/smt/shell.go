package smt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/michaelliao/eth-smt/pkg/config"
	"github.com/michaelliao/eth-smt/pkg/core/smt"
	"github.com/michaelliao/eth-smt/pkg/util"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const shellKey = "shell"

var shellCommands = []cli.Command{
	{
		Name:      "put",
		Usage:     "Set value at the address creating a new version",
		UsageText: `put <address> <value>`,
		Description: `put <address> <value>
both parameters are mandatory, example:
> put 0x0125e02fa10caf6128207bc920ca41b85194bb79 0x4162416241624162416241624162416241624162416241624162416241624162`,
		Action: handlePutShell,
	},
	{
		Name:      "put2",
		Usage:     "Set two values in a single new version",
		UsageText: `put2 <address1> <value1> <address2> <value2>`,
		Action:    handlePut2Shell,
	},
	{
		Name:      "get",
		Usage:     "Show value at the address",
		UsageText: `get <address>`,
		Action:    handleGetShell,
	},
	{
		Name:   "root",
		Usage:  "Show the current root hash",
		Action: handleRootShell,
	},
	{
		Name:   "version",
		Usage:  "Show the current version",
		Action: handleVersionShell,
	},
	{
		Name:      "snapshot",
		Usage:     "Save a copy of the store and the current root under a name",
		UsageText: `snapshot <name>`,
		Action:    handleSnapshot,
	},
	{
		Name:      "open",
		Usage:     "Continue from a named snapshot",
		UsageText: `open <name>`,
		Action:    handleOpen,
	},
	{
		Name:   "dump",
		Usage:  "Show all trie nodes",
		Action: handleDumpShell,
	},
	{
		Name:   "exit",
		Usage:  "Exit the shell",
		Action: handleExit,
	},
}

var completer *readline.PrefixCompleter

func init() {
	var pcItems []readline.PrefixCompleterInterface
	for _, c := range shellCommands {
		pcItems = append(pcItems, readline.PcItem(c.Name))
	}
	completer = readline.NewPrefixCompleter(pcItems...)
}

type snapshot struct {
	store *smt.MemoryStore
	root  util.Uint256
}

// Shell is an interactive shell over an in-memory trie with named snapshots.
type Shell struct {
	app       *cli.App
	rl        *readline.Instance
	log       *zap.Logger
	store     *smt.MemoryStore
	trie      *smt.Trie
	snapshots map[string]snapshot
	exited    bool
}

// NewShell returns a new Shell using the provided readline config. A nil
// logger disables logging.
func NewShell(c *readline.Config, log *zap.Logger) (*Shell, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if c.AutoComplete == nil {
		// Autocomplete commands on TAB.
		c.AutoComplete = completer
	}
	l, err := readline.NewEx(c)
	if err != nil {
		return nil, fmt.Errorf("failed to create readline instance: %w", err)
	}
	ctl := cli.NewApp()
	ctl.Name = "SMT shell"

	// Note: need to set empty `ctl.HelpName` and `ctl.UsageText`, otherwise
	// `filepath.Base(os.Args[0])` will be used.
	ctl.HelpName = ""
	ctl.UsageText = ""

	ctl.Writer = l.Stdout()
	ctl.ErrWriter = l.Stderr()
	ctl.Version = config.Version
	ctl.Usage = "Interactive sparse Merkle trie shell"

	// Override default error handler in order not to exit on error.
	ctl.ExitErrHandler = func(context *cli.Context, err error) {}

	ctl.Commands = shellCommands

	store := smt.NewMemoryStore()
	tr, err := smt.Open(store, nil, log)
	if err != nil {
		_ = l.Close()
		return nil, err
	}
	s := &Shell{
		app:       ctl,
		rl:        l,
		log:       log,
		store:     store,
		trie:      tr,
		snapshots: make(map[string]snapshot),
	}
	ctl.Metadata = map[string]interface{}{shellKey: s}
	s.changePrompt()
	return s, nil
}

func getShell(app *cli.App) *Shell {
	return app.Metadata[shellKey].(*Shell)
}

func (s *Shell) changePrompt() {
	s.rl.SetPrompt(fmt.Sprintf("\033[32mSMT %d >\033[0m ", s.trie.Version()))
}

// Run waits for user input from Stdin and executes the passed command until
// exit or the end of input.
func (s *Shell) Run() error {
	for !s.exited {
		line, err := s.rl.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil // OK, stop execution.
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err) // Critical error, stop execution.
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		args, err := shellquote.Split(line)
		if err != nil {
			writeErr(s.app.ErrWriter, fmt.Errorf("failed to parse arguments: %w", err))
			continue // Not a critical error, continue execution.
		}

		err = s.app.Run(append([]string{"smt"}, args...))
		if err != nil {
			writeErr(s.app.ErrWriter, err) // Various command/flags parsing errors and execution errors.
		}
	}
	return nil
}

// Close releases the terminal.
func (s *Shell) Close() error {
	return s.rl.Close()
}

func writeErr(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)
}

func handleShell(ctx *cli.Context) error {
	cfg, err := shellConfig(ctx.String("config-file"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, err := newLogger(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	s, err := NewShell(&readline.Config{}, log)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer s.Close()
	return s.Run()
}

// shellConfig loads the shell configuration. The shell is in-memory only, so
// a missing default config is fine, an explicitly given one must be valid.
func shellConfig(configFile string) (config.Config, error) {
	if configFile != "" {
		return config.LoadFile(configFile)
	}
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		return config.Config{}, nil
	}
	return cfg, err
}

func handlePutShell(c *cli.Context) error {
	if len(c.Args()) != 2 {
		return fmt.Errorf("%w: <address> <value>", ErrMissingParameter)
	}
	return putShell(c)
}

func handlePut2Shell(c *cli.Context) error {
	if len(c.Args()) != 4 {
		return fmt.Errorf("%w: <address1> <value1> <address2> <value2>", ErrMissingParameter)
	}
	return putShell(c)
}

func putShell(c *cli.Context) error {
	kvs, err := parseKeyValues(c.Args())
	if err != nil {
		return err
	}
	s := getShell(c.App)
	if err := s.trie.UpdateBatch(kvs); err != nil {
		return err
	}
	s.changePrompt()
	fmt.Fprintln(c.App.Writer, s.trie.StateRoot().StringPrefixed())
	return nil
}

func handleGetShell(c *cli.Context) error {
	if len(c.Args()) != 1 {
		return fmt.Errorf("%w: <address>", ErrMissingParameter)
	}
	a, err := parseAddress(c.Args().First())
	if err != nil {
		return err
	}
	return printValue(c.App.Writer, getShell(c.App).trie, a)
}

func handleRootShell(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, getShell(c.App).trie.StateRoot().StringPrefixed())
	return nil
}

func handleVersionShell(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, getShell(c.App).trie.Version())
	return nil
}

func handleSnapshot(c *cli.Context) error {
	if len(c.Args()) != 1 {
		return fmt.Errorf("%w: <name>", ErrMissingParameter)
	}
	s := getShell(c.App)
	name := c.Args().First()
	s.snapshots[name] = snapshot{store: s.store.Copy(), root: s.trie.StateRoot()}
	fmt.Fprintf(c.App.Writer, "snapshot %q saved at version %d\n", name, s.trie.Version())
	return nil
}

func handleOpen(c *cli.Context) error {
	if len(c.Args()) != 1 {
		return fmt.Errorf("%w: <name>", ErrMissingParameter)
	}
	s := getShell(c.App)
	name := c.Args().First()
	snap, ok := s.snapshots[name]
	if !ok {
		return fmt.Errorf("%w: unknown snapshot %q", ErrInvalidParameter, name)
	}
	// The snapshot stays reusable, the shell continues on its copy.
	store := snap.store.Copy()
	tr, err := smt.Open(store, &snap.root, s.log)
	if err != nil {
		return err
	}
	s.store, s.trie = store, tr
	s.changePrompt()
	fmt.Fprintf(c.App.Writer, "opened %q at version %d\n", name, tr.Version())
	return nil
}

func handleDumpShell(c *cli.Context) error {
	return dumpTrie(c.App.Writer, getShell(c.App).trie)
}

func handleExit(c *cli.Context) error {
	getShell(c.App).exited = true
	fmt.Fprintln(c.App.Writer, "Bye!")
	return nil
}

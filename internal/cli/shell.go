package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/waqt/internal/logging"
)

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Run waqt subcommands from an interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := &shell{
				version:   cmd.Root().Version,
				inherited: inheritedFlags(cmd.Root()),
				out:       cmd.OutOrStdout(),
			}
			return sh.run(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "waqt> ", "Prompt string")
	return cmd
}

// shell executes lines against fresh command trees.
type shell struct {
	version string
	// inherited are the global flags the shell itself was started with.
	inherited []string
	out       io.Writer
}

// inheritedFlags returns the explicitly set global flags as arguments.
func inheritedFlags(root *cobra.Command) []string {
	var args []string
	root.PersistentFlags().Visit(func(f *pflag.Flag) {
		if f.Name == "verbose" {
			return
		}
		args = append(args, "--"+f.Name+"="+f.Value.String())
	})
	return args
}

func (sh *shell) run(prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "waqt-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(sh.out, "Interactive shell. Type 'help' for examples, 'exit' to leave.")

	shellVerbosity = verbosity
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(sh.out)
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(sh.out)
			return nil
		}
		if err != nil {
			return err
		}
		if done := sh.line(strings.TrimSpace(line)); done {
			return nil
		}
	}
}

// line executes one input and reports whether the shell should exit.
func (sh *shell) line(line string) bool {
	switch line {
	case "":
		return false
	case "exit", "quit":
		fmt.Fprintln(sh.out, "Bye!")
		return true
	case "help":
		printShellHelp(sh.out)
		return false
	}

	tokens, err := shlex.Split(line)
	if err != nil {
		fmt.Fprintf(sh.out, "Parse error: %v\n", err)
		return false
	}
	if len(tokens) == 0 {
		return false
	}

	switch tokens[0] {
	case "log":
		if err := handleShellLog(tokens[1:], sh.out); err != nil {
			fmt.Fprintf(sh.out, "log: %v\n", err)
		}
		return false
	case "shell":
		fmt.Fprintln(sh.out, "Already in the shell. Enter a command or 'exit' to leave.")
		return false
	}

	if err := sh.execute(tokens); err != nil {
		fmt.Fprintf(sh.out, "command error: %v\n", err)
	}
	return false
}

// execute runs args against a fresh command tree so flags never leak
// from one line to the next.
func (sh *shell) execute(args []string) error {
	root := NewRootCmd(sh.version)
	root.SetArgs(append(args, sh.inherited...))
	root.SetOut(sh.out)
	root.SetErr(sh.out)
	return root.Execute()
}

func handleShellLog(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 3)")
	fs.BoolVarP(&show, "show", "s", false, "Show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if vcount > 0 && !show {
		shellVerbosity = min(vcount, logging.MaxVerbosity)
		logging.SetVerbosity(shellVerbosity)
		fmt.Fprintf(out, "log level set to %s (-v x%d)\n", logging.LevelFor(shellVerbosity), shellVerbosity)
		return nil
	}
	fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelFor(shellVerbosity), shellVerbosity)
	return nil
}

func printShellHelp(out io.Writer) {
	fmt.Fprintln(out, `Examples:
  next --format compact          # one-line status
  list 3                         # three-day grid
  config set asr.mode b          # change the Asr mode
  config show                    # current settings
  log -vv                        # debug logging for this session
  log --show                     # current log level
  exit / quit                    # leave the shell`)
}

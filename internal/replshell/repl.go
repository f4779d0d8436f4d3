// Package replshell is an interactive shell for exploring the type/trait
// engine's scenarios one at a time: a peterh/liner-driven read-eval-print
// loop with history persisted to a temp file and fatih/color-highlighted
// output. It never parses source. There is no front-end language here,
// only the instantiate/check/select operations the engine exposes
// directly, so the shell's "expressions" are scenario names.
package replshell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/luminalang/lyte/internal/demo"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// REPL is a scenario-exploring shell over internal/demo.
type REPL struct {
	scenarios map[string]demo.Scenario
	order     []string
	history   []string
}

// New builds a REPL preloaded with every scenario from demo.All.
func New() *REPL {
	r := &REPL{scenarios: make(map[string]demo.Scenario)}
	for _, s := range demo.All() {
		r.scenarios[s.Name] = s
		r.order = append(r.order, s.Name)
	}
	return r
}

const historyFileName = ".tyexplore_history"

// Start runs the read-eval-print loop until the user quits or input hits
// EOF. Input is read from the terminal through liner; in is not read.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), historyFileName)
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(partial string) (c []string) {
		candidates := append([]string{":help", ":list", ":quit"}, r.order...)
		for _, cand := range candidates {
			if strings.HasPrefix(cand, partial) {
				c = append(c, cand)
			}
		}
		return
	})

	fmt.Fprintf(out, "%s\n", bold("tyexplore"))
	fmt.Fprintln(out, dim("Type :list to see scenarios, :help for commands, :quit to exit"))
	fmt.Fprintln(out)

	for {
		input, err := line.Prompt("ty> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		r.history = append(r.history, input)

		switch {
		case input == ":quit" || input == ":q" || input == ":exit":
			fmt.Fprintln(out, green("Goodbye!"))
			if f, err := os.Create(historyFile); err == nil {
				_, _ = line.WriteHistory(f)
				f.Close()
			}
			return
		case input == ":help":
			r.printHelp(out)
		case input == ":list":
			r.printList(out)
		default:
			r.runScenario(input, out)
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, cyan(":list"), "- show every scenario name and its description")
	fmt.Fprintln(out, cyan(":quit"), "- exit")
	fmt.Fprintln(out, cyan("<name>"), "- run the named scenario")
}

func (r *REPL) printList(out io.Writer) {
	names := make([]string, 0, len(r.order))
	names = append(names, r.order...)
	sort.Strings(names)
	for _, name := range names {
		s := r.scenarios[name]
		fmt.Fprintf(out, "  %s  %s\n", yellow(s.Name), dim(s.Description))
	}
}

func (r *REPL) runScenario(name string, out io.Writer) {
	s, ok := r.scenarios[name]
	if !ok {
		fmt.Fprintf(out, "%s: unknown scenario %q (try :list)\n", red("Error"), name)
		return
	}
	result, err := s.Run()
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
		return
	}
	fmt.Fprintf(out, "%s %s\n", green("OK"), result)
}

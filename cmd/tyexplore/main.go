package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/luminalang/lyte/internal/demo"
	"github.com/luminalang/lyte/internal/replshell"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		replFlag = flag.Bool("repl", false, "launch the interactive scenario shell")
		helpFlag = flag.Bool("help", false, "show help")
	)
	flag.Parse()

	if *helpFlag {
		printHelp()
		return
	}

	if *replFlag {
		replshell.New().Start(os.Stdin, os.Stdout)
		return
	}

	if flag.NArg() > 0 {
		runOne(flag.Arg(0))
		return
	}

	runAll()
}

func printHelp() {
	fmt.Println("tyexplore - walkthroughs of the type/trait resolution engine")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tyexplore            run every scenario and print its result")
	fmt.Println("  tyexplore <name>     run a single scenario")
	fmt.Println("  tyexplore -repl      open an interactive shell over the scenarios")
}

func runAll() {
	fmt.Println(bold("Type/Trait Engine Demo"))
	fmt.Println("=======================")
	fmt.Println()
	for _, s := range demo.All() {
		fmt.Printf("%s: %s\n", bold(s.Name), s.Description)
		result, err := s.Run()
		if err != nil {
			fmt.Printf("  %s %v\n", red("FAIL"), err)
			continue
		}
		fmt.Printf("  %s %s\n", green("OK"), result)
	}
}

func runOne(name string) {
	for _, s := range demo.All() {
		if s.Name == name {
			result, err := s.Run()
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", red("FAIL"), err)
				os.Exit(1)
			}
			fmt.Printf("%s %s\n", green("OK"), result)
			return
		}
	}
	fmt.Fprintf(os.Stderr, "%s: unknown scenario %q\n", red("Error"), name)
	os.Exit(1)
}

package main

import (
	"fmt"
	"os"
)

const usageText = `jasper is a chat console for the local Jasper assistant.

Usage:
  jasper <command> [flags]

Commands:
  ask      send one query and print the answer
  status   show background indexing status
  open     open an indexed file or email on the desktop
  restart  restart the backend and wait for it to come back
  console  serve the web console
  ui       run the terminal UI
  config   print configuration (effective or defaults)
  help     show help

Flags:
  -h, --help   show help

Examples:
  jasper ask "where is the Q3 report"
  jasper status --watch
  jasper open --provider OUTLOOK <message-id>
  jasper console --addr 127.0.0.1:8800
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}

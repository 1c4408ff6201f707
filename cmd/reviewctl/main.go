// Command reviewctl scores review files locally and chats with a running server.
package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	log.SetFlags(log.Ltime)
	if err := runCLI(os.Args[1:]); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func runCLI(argv []string) error {
	if len(argv) < 1 {
		printUsage()
		return nil
	}

	command := argv[0]
	args := argv[1:]

	switch command {
	case "score":
		return runScoreCmd(args)
	case "chat":
		return runChatCmd(args)
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  reviewctl score --in reviews.csv --out out/ [--backend lexicon] [--charts out/charts.html]")
	fmt.Println("  reviewctl chat --addr ws://localhost:8080/ws --session sess_...")
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/clintecker/clanker-radio-sub000/internal/config"
	"github.com/clintecker/clanker-radio-sub000/internal/engine"
)

// enginectl sends one raw command to the broadcast engine and prints the
// response body. Debug tooling gets the long timeout so a busy engine can
// be inspected instead of abandoned.
func main() {
	socket := flag.String("socket", "", "Override engine socket path")
	timeout := flag.Duration("timeout", engine.DebugTimeout, "Response timeout")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: enginectl [-socket PATH] [-timeout DUR] COMMAND [ARGS...]")
		os.Exit(1)
	}

	cfg := config.Load()
	path := cfg.Engine.SocketPath
	if *socket != "" {
		path = *socket
	}

	command := strings.Join(flag.Args(), " ")
	client := engine.NewClient(path)

	start := time.Now()
	body, err := client.SendCommand(command, *timeout)
	if err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}

	fmt.Println(body)
	log.Printf("✅ %q answered in %s", command, time.Since(start).Round(time.Millisecond))
}

// Command play runs one maze in the terminal. Each input line is a remote
// command such as "press up"; "help" prints the command list.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/boolmaze-server/internal/boolmaze"
	"github.com/vancomm/boolmaze-server/internal/session"
)

var (
	serial  string
	seed    uint64
	verbose bool
)

func init() {
	flag.StringVar(&serial, "serial", "", "bomb serial number, random when empty")
	flag.Uint64Var(&seed, "seed", 0, "digit source seed, random when 0")
	flag.BoolVar(&verbose, "v", false, "log every module event")
}

func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if seed == 0 {
		seed = new(maphash.Hash).Sum64()
	}
	rnd := rand.New(rand.NewPCG(seed, seed))

	if serial == "" {
		serial = session.GenerateSerial(rnd)
	}

	m, err := boolmaze.New(serial, rnd, boolmaze.WithLogger(log))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(m)
	strikes := 0

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "help":
			fmt.Println(boolmaze.HelpMessage)
			continue
		case "quit", "exit":
			return
		}

		res, ok := m.Execute(line)
		if !ok {
			fmt.Println("unknown command, try \"help\"")
			continue
		}
		if res.Strike() {
			strikes += 1
		}
		if res.Attempt != nil && !res.Attempt.Legal {
			fmt.Printf("strike: %s reads %s with display %d\n", res.Attempt.Target, res.Attempt.ShownGate(), res.Digit)
		}
		fmt.Println(m)
		if m.Solved() {
			fmt.Printf("solved with %d strikes\n", strikes)
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
}

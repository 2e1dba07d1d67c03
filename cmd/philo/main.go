// Command philo runs the dining-philosophers demo on the kernel. The
// fork kind, participant count, priority mode and allocation mode are
// all selectable; the demo runs until interrupted unless -cycles is
// set.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"

	"ember/app/philo"
	"ember/internal/buildinfo"
	"ember/kernel"
)

const banner = `Demo Description
----------------
An implementation of a solution to the Dining Philosophers
problem (a classic multi-thread synchronization problem).
This particular implementation demonstrates the usage of multiple
preemptible and cooperative threads of differing priorities, as
well as %s forks of kind %q and thread sleeping.
`

// consoleSink writes each philosopher's status on its own console row
// using cursor addressing, mirroring the original demo's display. With
// -plain it degrades to one line per event.
type consoleSink struct {
	mu    sync.Mutex
	plain bool
}

func (s *consoleSink) Line(id int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plain {
		fmt.Println(text)
		return
	}
	fmt.Printf("\x1b[%d;1H%s\n", id+1, text)
}

func main() {
	var (
		kindName = flag.String("forks", "mutex", "fork kind: semaphore, mutex, fifo, lifo or stack")
		count    = flag.Int("n", 6, "number of philosophers")
		samePrio = flag.Bool("same-prio", false, "run every philosopher at priority 0")
		static   = flag.Bool("static", false, "use the static fork table")
		cycles   = flag.Int("cycles", 0, "eat/think rounds per philosopher, 0 = forever")
		plain    = flag.Bool("plain", false, "plain line output instead of cursor addressing")
		version  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println("philo", buildinfo.Version)
		return
	}

	kind, err := kernel.ParseKind(*kindName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	alloc := "dynamic"
	if *static {
		alloc = "static"
	}
	if !*plain {
		fmt.Print("\x1b[2J") // clear screen; rows 1..n belong to the table
		fmt.Printf("\x1b[%d;1H", *count+2)
	}
	fmt.Printf(banner, alloc, kind)

	cfg := philo.Config{
		Philosophers: *count,
		Forks:        kind,
		SamePriority: *samePrio,
		Static:       *static,
		Cycles:       *cycles,
		Sink:         &consoleSink{plain: *plain},
	}
	st, err := philo.Run(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !*plain {
		fmt.Printf("\x1b[%d;1H", *count+10)
	}
	for i, n := range st.Cycles {
		fmt.Printf("philosopher %d: %d cycles, max wait %v\n", i, n, st.MaxWait[i])
	}
}

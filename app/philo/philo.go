// Package philo runs the dining-philosophers workload on top of the
// kernel, exercising the uniform fork surface with any of the five
// synchronization kinds. Each philosopher acquires its two forks in
// ascending index order (Dijkstra's solution), so the table makes
// progress for any kind and any priority assignment.
package philo

import (
	"fmt"
	"time"

	"ember/kernel"
)

// MaxPhilosophers bounds the static fork table.
const MaxPhilosophers = 16

// Sink receives plain status lines, one per philosopher state change.
// The id identifies the philosopher for sinks that position output.
type Sink interface {
	Line(id int, text string)
}

// DelayFunc supplies eat/think delays. uptime is the kernel tick count
// at the time of the call.
type DelayFunc func(uptime uint64, id int) time.Duration

// Config selects the workload shape. The zero value runs six
// philosophers on mutex forks with split priorities, forever.
type Config struct {
	// Philosophers is the participant count. Defaults to 6; minimum 2.
	Philosophers int

	// Forks selects the synchronization kind backing every fork.
	Forks kernel.Kind

	// SamePriority runs every philosopher preemptible at priority 0.
	// Otherwise priorities split: philosopher i gets -(i - n/2), making
	// the last two cooperative for the default table of six.
	SamePriority bool

	// Static reuses the package-level fork table instead of allocating
	// per run. At most one static run may be active at a time.
	Static bool

	// Cycles is the number of eat/think rounds per philosopher.
	// 0 means run forever (Run never returns).
	Cycles int

	// Delay supplies eat/think durations. Nil uses a pseudo-random
	// delay of 100ms..3200ms derived from uptime and philosopher id.
	Delay DelayFunc

	// Sink receives status lines. Nil discards them.
	Sink Sink
}

// Stats reports per-philosopher progress collected during a bounded
// run.
type Stats struct {
	// Cycles counts completed eat/think rounds per philosopher.
	Cycles []int

	// MaxWait is the longest span each philosopher spent from starving
	// to holding both forks.
	MaxWait []time.Duration
}

// static fork table for Config.Static, the counterpart of the
// compile-time object array in the original demo.
var staticForks [MaxPhilosophers]kernel.Fork

// Run builds a kernel, seats the philosophers, and runs the table.
// With Cycles > 0 it returns the collected stats once every
// philosopher has finished; with Cycles == 0 it runs forever.
func Run(cfg Config) (*Stats, error) {
	n := cfg.Philosophers
	if n == 0 {
		n = 6
	}
	if n < 2 {
		return nil, fmt.Errorf("philo: need at least 2 philosophers, got %d", n)
	}
	if cfg.Static && n > MaxPhilosophers {
		return nil, fmt.Errorf("philo: static table seats %d, got %d", MaxPhilosophers, n)
	}
	delay := cfg.Delay
	if delay == nil {
		delay = randomDelay
	}

	k := kernel.New()

	var forks []kernel.Fork
	if cfg.Static {
		for i := 0; i < n; i++ {
			staticForks[i] = kernel.NewFork(k, cfg.Forks)
		}
		forks = staticForks[:n]
	} else {
		forks = make([]kernel.Fork, n)
		for i := range forks {
			forks[i] = kernel.NewFork(k, cfg.Forks)
		}
	}

	st := &Stats{
		Cycles:  make([]int, n),
		MaxWait: make([]time.Duration, n),
	}

	for i := 0; i < n; i++ {
		id := i
		first, second := orderedForks(forks, id)
		prio := priority(cfg, id, n)
		k.Spawn(prio, func(c *kernel.Context) {
			dine(c, id, first, second, &cfg, delay, st)
		}, kernel.ThreadOptions{Name: fmt.Sprintf("phil-%d", id)})
	}

	k.Run()
	return st, nil
}

// orderedForks returns the philosopher's two forks in ascending table
// index order; the last philosopher wraps and therefore leads with
// fork 0.
func orderedForks(forks []kernel.Fork, id int) (first, second kernel.Fork) {
	if id == len(forks)-1 {
		return forks[0], forks[id]
	}
	return forks[id], forks[id+1]
}

func priority(cfg Config, id, n int) int {
	if cfg.SamePriority {
		return 0
	}
	return -(id - n/2)
}

func dine(c *kernel.Context, id int, first, second kernel.Fork, cfg *Config, delay DelayFunc, st *Stats) {
	for cycle := 0; cfg.Cycles == 0 || cycle < cfg.Cycles; cycle++ {
		report(c, cfg, id, "       STARVING       ", 0)
		hungry := c.Uptime()
		take(first)
		report(c, cfg, id, "   HOLDING ONE FORK   ", 0)
		take(second)

		wait := time.Duration(c.Uptime()-hungry) * kernel.Tick
		if wait > st.MaxWait[id] {
			st.MaxWait[id] = wait
		}

		d := delay(c.Uptime(), id)
		report(c, cfg, id, "  EATING  [ %d ms ]   ", d)
		c.Sleep(d)

		drop(second)
		report(c, cfg, id, "   DROPPED ONE FORK   ", 0)
		drop(first)
		st.Cycles[id]++

		d = delay(c.Uptime(), id)
		report(c, cfg, id, " THINKING [ %d ms ]   ", d)
		c.Sleep(d)
	}
}

// take acquires a fork unconditionally. Forever waits cannot fail.
func take(f kernel.Fork) {
	if err := f.Take(kernel.Forever()); err != nil {
		panic("philo: fork take failed: " + err.Error())
	}
}

func drop(f kernel.Fork) {
	if err := f.Drop(); err != nil {
		panic("philo: fork drop failed: " + err.Error())
	}
}

func report(c *kernel.Context, cfg *Config, id int, format string, d time.Duration) {
	if cfg.Sink == nil {
		return
	}
	prio := c.Thread().Priority()
	tag := "P"
	if prio < 0 {
		tag = "C"
	}
	state := format
	if d != 0 {
		state = fmt.Sprintf(format, d.Milliseconds())
	}
	cfg.Sink.Line(id, fmt.Sprintf("Philosopher %d [%s:%2d] %s", id, tag, prio, state))
}

// randomDelay derives a pseudo-random delay between 100ms and 3200ms
// from uptime and philosopher id.
func randomDelay(uptime uint64, id int) time.Duration {
	tenths := (uptime / 100 * uint64(id+1)) & 0x1f
	return time.Duration(tenths+1) * 100 * time.Millisecond
}

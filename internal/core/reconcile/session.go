package reconcile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
)

const sessionHelp = `Commands:
  orders [query]            list order keys (substring match, case-insensitive)
  orphans                   list orphan events
  show <orderKey>           show one order thread
  link <orphanId> <key>     link an orphan to an order (creates the order if new)
  unlink <eventId> <key>    move an event from an order back to the orphans
  create <orphanId> <key>   promote an orphan into a new order
  save <path>               write the current timeline state as JSON
  help                      show this help
  quit                      end the session`

// Session is a line-oriented interpreter over a Workflow, so the
// reconciliation surface can be driven from a terminal or a script.
type Session struct {
	workflow *Workflow
	out      io.Writer
}

// NewSession binds a workflow to an output stream.
func NewSession(w *Workflow, out io.Writer) *Session {
	return &Session{workflow: w, out: out}
}

// Run executes commands from in until quit or EOF.
func (s *Session) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if s.Execute(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs one command line and reports whether the session should end.
func (s *Session) Execute(line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	cmd, args := fields[0], fields[1:]
	switch strings.ToLower(cmd) {
	case "orders":
		s.listOrders(strings.Join(args, " "))
	case "orphans":
		s.listOrphans()
	case "show":
		if !s.requireArgs(args, 1, "show <orderKey>") {
			return false
		}
		s.showOrder(args[0])
	case "link":
		if !s.requireArgs(args, 2, "link <orphanId> <orderKey>") {
			return false
		}
		s.report(s.workflow.LinkToExisting(args[0], args[1]))
	case "unlink":
		if !s.requireArgs(args, 2, "unlink <eventId> <orderKey>") {
			return false
		}
		s.report(s.workflow.Unlink(args[0], args[1]))
	case "create":
		if !s.requireArgs(args, 2, "create <orphanId> <orderKey>") {
			return false
		}
		s.report(s.workflow.CreateOrder(args[0], args[1]))
	case "save":
		if !s.requireArgs(args, 1, "save <path>") {
			return false
		}
		s.save(args[0])
	case "help":
		fmt.Fprintln(s.out, sessionHelp)
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(s.out, "unknown command %q (try 'help')\n", cmd)
	}
	return false
}

func (s *Session) requireArgs(args []string, n int, usage string) bool {
	if len(args) != n {
		fmt.Fprintf(s.out, "usage: %s\n", usage)
		return false
	}
	return true
}

func (s *Session) listOrders(query string) {
	keys := s.workflow.SearchOrders(query)
	if len(keys) == 0 {
		fmt.Fprintln(s.out, "no matching orders")
		return
	}
	for _, key := range keys {
		thread, _ := s.workflow.Order(key)
		fmt.Fprintf(s.out, "%s  (%d events)\n", key, len(thread.Events))
	}
}

func (s *Session) listOrphans() {
	orphans := s.workflow.Orphans()
	if len(orphans) == 0 {
		fmt.Fprintln(s.out, "no orphan events")
		return
	}
	for _, ev := range orphans {
		fmt.Fprintf(s.out, "%s  %s  %s\n", ev.Id, ev.Category, displayDate(ev.When))
	}
}

func (s *Session) showOrder(key string) {
	thread, ok := s.workflow.Order(key)
	if !ok {
		fmt.Fprintf(s.out, "no such order: %s\n", key)
		return
	}
	fmt.Fprintf(s.out, "%s\n", thread.OrderKey)
	for _, ev := range thread.Events {
		fmt.Fprintf(s.out, "  %s  %s  %s\n", ev.Id, ev.Category, displayDate(ev.When))
	}
}

func (s *Session) report(applied bool, err error) {
	switch {
	case err != nil:
		fmt.Fprintf(s.out, "error: %v\n", err)
	case !applied:
		// Stale reference; the view the user acted on is out of date.
		fmt.Fprintln(s.out, "no-op: target not found (state may have changed)")
	default:
		fmt.Fprintln(s.out, "ok")
	}
}

func (s *Session) save(path string) {
	data, err := sonic.MarshalIndent(s.workflow.store.Snapshot(), "", "  ")
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "saved %s\n", path)
}

func displayDate(when string) string {
	if when == "" {
		return "(no date)"
	}
	return when
}

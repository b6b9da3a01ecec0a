// Package cuci implements the Coup Universal Command Interface: a Go
// client for driving an external agent policy process over a
// line-oriented stdin/stdout protocol, the same shape as UCI/DUI engines.
// The policy process itself is a separate program; this package is only
// the wire boundary a match server uses to reach it.
package cuci

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/coupengine/coup/internal/view"
)

// Engine wraps a CUCI-compatible agent subprocess: it manages the process
// lifecycle, sends commands via stdin, and reads responses from stdout.
type Engine struct {
	path string
	args []string

	cmd     *exec.Cmd
	stdin   io.WriteCloser
	scanner *bufio.Scanner

	mu     sync.Mutex
	closed bool
	exited chan struct{}

	ID      EngineID
	Options []EngineOption
}

// NewEngine creates a new Engine pointing to the given agent binary path.
// The process is not started until Init is called.
func NewEngine(path string, args ...string) *Engine {
	return &Engine{path: path, args: args}
}

// Init starts the agent subprocess and performs the CUCI handshake
// (cuci -> id/option/cuciok, isready -> readyok).
func (e *Engine) Init(ctx context.Context) error {
	if err := e.start(ctx); err != nil {
		return fmt.Errorf("cuci: start agent: %w", err)
	}
	if err := e.handshake(ctx); err != nil {
		e.Close()
		return fmt.Errorf("cuci: handshake: %w", err)
	}
	return nil
}

// SetOption sends a "setoption" command to the agent.
func (e *Engine) SetOption(name, value string) {
	if value != "" {
		e.send(fmt.Sprintf("setoption name %s value %s", name, value))
	} else {
		e.send(fmt.Sprintf("setoption name %s", name))
	}
}

// IsReady sends "isready" and blocks until "readyok" is received.
func (e *Engine) IsReady(ctx context.Context) error {
	e.send("isready")
	return e.readUntil(ctx, "readyok")
}

// NewGame sends "newgame" to reset the agent's internal state.
func (e *Engine) NewGame() {
	e.send("newgame")
}

// Observe sends the agent's current rotated-and-masked view of the game
// plus the set of legal actions available to it, as one "state <json>"
// command. The json payload is {"state": AgentState, "legal_actions": []}.
func (e *Engine) Observe(s view.AgentState, legalActions []string) error {
	payload, err := json.Marshal(struct {
		State        view.AgentState `json:"state"`
		LegalActions []string        `json:"legal_actions"`
	}{State: s, LegalActions: legalActions})
	if err != nil {
		return fmt.Errorf("cuci: marshal observation: %w", err)
	}
	e.send("state " + string(payload))
	return nil
}

// Decide sends "go" and blocks until the agent answers with
// "bestaction <action>" or the context is canceled. Any "info " lines
// emitted in the meantime are collected for diagnostics/logging.
func (e *Engine) Decide(ctx context.Context) (*Decision, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, fmt.Errorf("cuci: agent is closed")
	}
	e.mu.Unlock()

	if !e.isAlive() {
		return nil, fmt.Errorf("cuci: agent process is not running")
	}

	e.send("go")
	return e.readDecision(ctx)
}

// Stop sends the "stop" command to interrupt the current decision.
func (e *Engine) Stop() {
	e.send("stop")
}

// Quit sends "quit" to the agent. For full cleanup use Close instead.
func (e *Engine) Quit() {
	e.send("quit")
}

// Close sends "quit" and waits for process exit, killing the process if
// it has not exited within 3 seconds.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	if e.stdin != nil {
		fmt.Fprintf(e.stdin, "quit\n")
	}
	e.closed = true
	e.mu.Unlock()

	if e.stdin != nil {
		e.stdin.Close()
	}

	if e.exited != nil {
		select {
		case <-e.exited:
		case <-time.After(3 * time.Second):
			log.Printf("cuci: agent did not exit within 3s, killing")
			if e.cmd != nil && e.cmd.Process != nil {
				e.cmd.Process.Kill()
			}
			<-e.exited
		}
	}
	return nil
}

func (e *Engine) start(ctx context.Context) error {
	e.cmd = exec.CommandContext(ctx, e.path, e.args...)

	var err error
	e.stdin, err = e.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}

	stdout, err := e.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}

	e.scanner = bufio.NewScanner(stdout)
	e.exited = make(chan struct{})

	if err := e.cmd.Start(); err != nil {
		return fmt.Errorf("start process: %w", err)
	}

	go func() {
		e.cmd.Wait()
		close(e.exited)
	}()

	return nil
}

func (e *Engine) handshake(ctx context.Context) error {
	e.send("cuci")
	if err := e.readHandshake(ctx); err != nil {
		return fmt.Errorf("waiting for cuciok: %w", err)
	}
	e.send("isready")
	if err := e.readUntil(ctx, "readyok"); err != nil {
		return fmt.Errorf("waiting for readyok: %w", err)
	}
	return nil
}

func (e *Engine) readHandshake(ctx context.Context) error {
	type result struct{ err error }
	ch := make(chan result, 1)

	go func() {
		for e.scanner.Scan() {
			line := e.scanner.Text()
			switch {
			case strings.HasPrefix(line, "id name "):
				e.ID.Name = strings.TrimPrefix(line, "id name ")
			case strings.HasPrefix(line, "id author "):
				e.ID.Author = strings.TrimPrefix(line, "id author ")
			case strings.HasPrefix(line, "option "):
				e.Options = append(e.Options, parseEngineOption(line))
			case line == "cuciok":
				ch <- result{}
				return
			}
		}
		if err := e.scanner.Err(); err != nil {
			ch <- result{err: fmt.Errorf("scanner: %w", err)}
		} else {
			ch <- result{err: fmt.Errorf("agent closed stdout before cuciok")}
		}
	}()

	select {
	case r := <-ch:
		return r.err
	case <-ctx.Done():
		return fmt.Errorf("context canceled: %w", ctx.Err())
	}
}

func (e *Engine) readDecision(ctx context.Context) (*Decision, error) {
	type result struct {
		d   *Decision
		err error
	}
	ch := make(chan result, 1)

	go func() {
		d := &Decision{}
		for e.scanner.Scan() {
			line := e.scanner.Text()
			if strings.HasPrefix(line, "bestaction ") {
				d.Action = strings.TrimPrefix(line, "bestaction ")
				ch <- result{d: d}
				return
			}
			if strings.HasPrefix(line, "info ") {
				d.Infos = append(d.Infos, strings.TrimPrefix(line, "info "))
			}
		}
		if err := e.scanner.Err(); err != nil {
			ch <- result{err: fmt.Errorf("scanner: %w", err)}
		} else {
			ch <- result{err: fmt.Errorf("agent closed stdout unexpectedly")}
		}
	}()

	select {
	case r := <-ch:
		return r.d, r.err
	case <-ctx.Done():
		e.send("stop")
		select {
		case r := <-ch:
			return r.d, r.err
		case <-time.After(2 * time.Second):
			return nil, fmt.Errorf("cuci: agent did not respond to stop within 2s")
		}
	}
}

func (e *Engine) readUntil(ctx context.Context, expected string) error {
	ch := make(chan string, 1)
	errCh := make(chan error, 1)

	go func() {
		for e.scanner.Scan() {
			line := e.scanner.Text()
			if line == expected {
				ch <- line
				return
			}
		}
		if err := e.scanner.Err(); err != nil {
			errCh <- err
		} else {
			errCh <- fmt.Errorf("agent closed stdout before sending %q", expected)
		}
	}()

	select {
	case <-ch:
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return fmt.Errorf("context canceled waiting for %q: %w", expected, ctx.Err())
	}
}

func (e *Engine) send(line string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.stdin == nil {
		return
	}
	fmt.Fprintf(e.stdin, "%s\n", line)
}

func (e *Engine) isAlive() bool {
	if e.exited == nil {
		return false
	}
	select {
	case <-e.exited:
		return false
	default:
		return true
	}
}

package process

import (
	"context"
	"errors"
	"os/exec"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewSupervisor(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	if s.Count() != 0 {
		t.Errorf("expected 0 processes, got %d", s.Count())
	}
	if s.IsShuttingDown() {
		t.Error("expected IsShuttingDown() to be false")
	}
}

func TestSupervisor_StartAndExit(t *testing.T) {
	var exited atomic.Bool
	s := NewSupervisor(WithProcessExitCallback(func(p *Process) {
		exited.Store(true)
	}))
	defer s.Shutdown(time.Second)

	proc, err := s.Start("true", exec.Command("true"))
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if proc.ID == "" {
		t.Error("expected process ID to be assigned")
	}

	select {
	case <-proc.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit")
	}

	if proc.ExitCode() != 0 {
		t.Errorf("expected exit code 0, got %d", proc.ExitCode())
	}
	if proc.State() != StateExited {
		t.Errorf("expected state exited, got %s", proc.State())
	}

	deadline := time.Now().Add(time.Second)
	for !exited.Load() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !exited.Load() {
		t.Error("exit callback was not called")
	}
}

func TestSupervisor_Output(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	out, code, err := s.Output(context.Background(), "echo", exec.Command("echo", "/tmp/picked.txt"))
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	if string(out) != "/tmp/picked.txt\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSupervisor_OutputExitCode(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	_, code, err := s.Output(context.Background(), "false", exec.Command("false"))
	if err != nil {
		t.Fatalf("non-zero exit should not be an error: %v", err)
	}
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestSupervisor_OutputContextCancel(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := s.Output(ctx, "sleep", exec.Command("sleep", "10"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestSupervisor_Shutdown(t *testing.T) {
	s := NewSupervisor()

	proc, err := s.Start("sleep", exec.Command("sleep", "10"))
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	s.Shutdown(time.Second)

	if proc.IsRunning() {
		t.Error("process should have been stopped")
	}
	if s.Count() != 0 {
		t.Errorf("expected 0 processes after shutdown, got %d", s.Count())
	}

	if _, err := s.Start("late", exec.Command("true")); !errors.Is(err, ErrSupervisorShutdown) {
		t.Errorf("expected ErrSupervisorShutdown, got %v", err)
	}
}

func TestSupervisor_TerminateUnknown(t *testing.T) {
	s := NewSupervisor()
	defer s.Shutdown(time.Second)

	if err := s.Terminate("missing"); !errors.Is(err, ErrProcessNotFound) {
		t.Errorf("expected ErrProcessNotFound, got %v", err)
	}
}

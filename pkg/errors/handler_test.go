package errors

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func newTestHandler(shutdown func(), exit func(int)) *ErrorHandler {
	h := &ErrorHandler{
		stopChan:      make(chan struct{}),
		shutdownFunc:  shutdown,
		exitFunc:      exit,
		maxErrors:     3,
		resetInterval: time.Hour,
		checkInterval: 10 * time.Millisecond,
	}
	h.start()
	return h
}

func TestIncrementAndBudget(t *testing.T) {
	h := newTestHandler(nil, func(int) {})
	defer h.Stop()

	for i := 0; i < 3; i++ {
		h.IncrementError()
	}
	if h.overBudget() {
		t.Error("overBudget() should be false at exactly maxErrors")
	}

	h.Capture(fmt.Errorf("boom"), "TEST")
	if got := h.ErrorCount(); got != 4 {
		t.Errorf("ErrorCount() = %v, want %v", got, 4)
	}
	if !h.overBudget() {
		t.Error("overBudget() should be true past maxErrors")
	}
}

func TestCrashCallsShutdownAndExit(t *testing.T) {
	var shutdownCalls, exitCode int32 = 0, -1
	done := make(chan struct{})

	h := newTestHandler(
		func() { atomic.AddInt32(&shutdownCalls, 1) },
		func(code int) {
			atomic.StoreInt32(&exitCode, int32(code))
			close(done)
		},
	)
	defer h.Stop()

	for i := 0; i < 5; i++ {
		h.IncrementError()
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("crash was not triggered")
	}

	if got := atomic.LoadInt32(&shutdownCalls); got != 1 {
		t.Errorf("shutdown calls = %v, want %v", got, 1)
	}
	if got := atomic.LoadInt32(&exitCode); got != 1 {
		t.Errorf("exit code = %v, want %v", got, 1)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	h := newTestHandler(nil, func(int) {})
	defer h.Stop()

	prev := handler
	handler = h
	defer func() { handler = prev }()

	func() {
		defer RecoverMiddleware()()
		panic("test panic")
	}()

	if got := h.ErrorCount(); got != 1 {
		t.Errorf("ErrorCount() after panic = %v, want %v", got, 1)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	h := newTestHandler(nil, func(int) {})
	h.Stop()
	h.Stop()
}

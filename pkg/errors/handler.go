package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// fallback holds the handler used for errors that belong to no session, or
// to a session built without its own handler.
var fallback atomic.Pointer[handlerBox]

type handlerBox struct{ h ErrorHandler }

// SetHandler replaces the fallback handler. Nil restores a quiet LogHandler.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	fallback.Store(&handlerBox{h})
}

// Handler returns the fallback handler.
func Handler() ErrorHandler {
	if box := fallback.Load(); box != nil {
		return box.h
	}
	return &LogHandler{}
}

func resolve(h ErrorHandler) ErrorHandler {
	if h != nil {
		return h
	}
	return Handler()
}

// ReportTo hands err to h, or to the fallback handler when h is nil. A zero
// Timestamp is stamped with the current time.
func ReportTo(h ErrorHandler, err *SyncError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	resolve(h).HandleError(err)
}

// Report hands err to the fallback handler.
func Report(err *SyncError) { ReportTo(nil, err) }

// ReportPanicTo hands a recovered panic to h, or to the fallback handler when
// h is nil.
func ReportPanicTo(h ErrorHandler, err *PanicError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	resolve(h).HandlePanic(err)
}

// ReportPanic hands a recovered panic to the fallback handler.
func ReportPanic(err *PanicError) { ReportPanicTo(nil, err) }

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}

// Recover reports a panic of the deferring function to the fallback handler
// and stops it.
//
//	defer errors.Recover("transport.keepAlive")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(newPanicError(op, r))
	}
}

// RecoverWithCallback is Recover followed by callback(r), for callers that
// must clean up after a panic.
func RecoverWithCallback(op string, callback func(r any)) {
	r := recover()
	if r == nil {
		return
	}
	ReportPanic(newPanicError(op, r))
	if callback != nil {
		callback(r)
	}
}

func newPanicError(op string, r any) *PanicError {
	return &PanicError{
		Op:         op,
		Value:      r,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
}

// CaptureStack formats the stack of its caller's caller, one "function\n\tfile:line"
// entry per frame, at most 32 frames deep.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			return sb.String()
		}
	}
}

package errors

import (
	"github.com/golang/glog"
)

// LogHandler is an ErrorHandler that writes through glog.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

// HandleError logs a SyncError. Routing and component errors are expected
// during normal operation and are logged as warnings.
func (h *LogHandler) HandleError(err *SyncError) {
	if err == nil {
		return
	}
	logf := glog.Errorf
	switch err.Kind {
	case KindRouting, KindComponent, KindParsing:
		logf = glog.Warningf
	}
	if h.Verbose {
		if err.Connector != "" {
			logf("[uisync %s] %s connector=%s: %v", err.Kind, err.Op, err.Connector, err.Err)
		} else {
			logf("[uisync %s] %s: %v", err.Kind, err.Op, err.Err)
		}
		if err.StackTrace != "" {
			logf("Stack trace:\n%s", err.StackTrace)
		}
	} else {
		logf("[uisync error] %s: %v", err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Op != "" {
		glog.Errorf("[uisync panic] %s: %v", err.Op, err.Value)
	} else {
		glog.Errorf("[uisync panic] %v", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		glog.Errorf("Stack trace:\n%s", err.StackTrace)
	}
}

package etw

import (
	"github.com/Microsoft/go-etwtrace/pkg/etw/kernel"
	"github.com/Microsoft/go-etwtrace/pkg/osversion"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// NTKernelLogger is the name of the legacy kernel session. Only one session
// with this name can run at a time.
const NTKernelLogger = "NT Kernel Logger"

// Logger modes, from evntrace.h.
const (
	EventTraceRealTimeMode     uint32 = 0x00000100
	EventTraceSystemLoggerMode uint32 = 0x02000000
)

// KernelSession describes how to start a session that receives kernel events.
type KernelSession struct {
	// Name is the session name to start.
	Name string
	// LogFileMode is EVENT_TRACE_PROPERTIES.LogFileMode.
	LogFileMode uint32
	// EnableFlags is EVENT_TRACE_PROPERTIES.EnableFlags.
	EnableFlags kernel.Flag
	// SystemLogger is set when the session is a private system logger rather
	// than the NT Kernel Logger.
	SystemLogger bool
	Providers    []*Provider
}

// KernelSessionConfig combines the enable flags of providers into one kernel
// session. On Windows 8 and later the session is a system logger named name;
// older releases only support the shared NT Kernel Logger and name is
// ignored. A nil gate checks the running OS.
func KernelSessionConfig(name string, gate *osversion.Gate, providers ...*Provider) (KernelSession, error) {
	if len(providers) == 0 {
		return KernelSession{}, errors.New("kernel session: no providers")
	}
	if gate == nil {
		gate = osversion.NewGate(nil)
	}

	var flags kernel.Flag
	for _, p := range providers {
		if p == nil || p.KernelFlags() == 0 {
			return KernelSession{}, errors.Errorf("kernel session: %v is not a kernel provider", p)
		}
		flags |= p.KernelFlags()
	}

	win8, err := gate.IsWin8OrGreater()
	if err != nil {
		return KernelSession{}, errors.Wrap(err, "kernel session")
	}

	s := KernelSession{
		Name:        NTKernelLogger,
		LogFileMode: EventTraceRealTimeMode,
		EnableFlags: flags,
		Providers:   append([]*Provider(nil), providers...),
	}
	if win8 {
		if name == "" {
			return KernelSession{}, errors.New("kernel session: empty session name")
		}
		s.Name = name
		s.LogFileMode |= EventTraceSystemLoggerMode
		s.SystemLogger = true
	}

	logrus.WithFields(logrus.Fields{
		"session":      s.Name,
		"enableFlags":  s.EnableFlags.String(),
		"systemLogger": s.SystemLogger,
	}).Debug("etw: kernel session configured")
	return s, nil
}

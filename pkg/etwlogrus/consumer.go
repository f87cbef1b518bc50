// Package etwlogrus forwards ETW event records to a logrus logger.
package etwlogrus

import (
	"github.com/Microsoft/go-etwtrace/pkg/etw"
	"github.com/sirupsen/logrus"
)

// Consumer is an etw.Consumer that writes one logrus entry per record.
type Consumer struct {
	log *logrus.Entry
}

var _ etw.Consumer = (*Consumer)(nil)

// NewConsumer returns a Consumer logging through log, or through the standard
// logger when log is nil.
func NewConsumer(log *logrus.Entry) *Consumer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Consumer{log: log}
}

// Level maps an ETW level to the logrus level its records are logged at.
// There are fewer ETW levels than logrus ones, so Critical and Error share
// logrus.ErrorLevel. Critical is not mapped to Fatal since that would exit.
func Level(l etw.Level) logrus.Level {
	switch l {
	case etw.LevelCritical, etw.LevelError:
		return logrus.ErrorLevel
	case etw.LevelWarning:
		return logrus.WarnLevel
	case etw.LevelAlways, etw.LevelInfo:
		return logrus.InfoLevel
	case etw.LevelVerbose:
		return logrus.DebugLevel
	}
	return logrus.TraceLevel
}

// OnEvent logs r. Provider, task and opcode names are added when l can locate
// the record's schema.
func (c *Consumer) OnEvent(r *etw.EventRecord, l etw.SchemaLocator) {
	if r == nil {
		return
	}
	level := Level(r.Header.Descriptor.Level)
	if !c.log.Logger.IsLevelEnabled(level) {
		return
	}

	d := r.Header.Descriptor
	fields := logrus.Fields{
		"provider":  r.Header.ProviderID.String(),
		"eventID":   d.ID,
		"version":   d.Version,
		"opcode":    d.Opcode,
		"task":      d.Task,
		"keyword":   d.Keyword,
		"pid":       r.Header.ProcessID,
		"tid":       r.Header.ThreadID,
		"timestamp": r.Header.TimeStamp,
	}
	if !r.Header.ActivityID.IsEmpty() {
		fields["activityID"] = r.Header.ActivityID.String()
	}
	if l != nil {
		if s, err := l.Locate(r); err == nil && s != nil {
			fields["providerName"] = s.ProviderName()
			fields["taskName"] = s.TaskName()
			fields["opcodeName"] = s.OpcodeName()
		}
	}
	c.log.WithFields(fields).Log(level, "etw event")
}

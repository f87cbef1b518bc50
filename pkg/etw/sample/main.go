// Shows a sample usage of the provider configuration and dispatch packages.
//
// Each argument is a provider description, either a kernel subsystem name
// ("process", "image load") or the ParseProvider format:
//
//	(Name|GUID)[:Level[:EventIDs[:MatchAnyKeyword[:MatchAllKeyword]]]]
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/Microsoft/go-etwtrace/pkg/etw"
	"github.com/Microsoft/go-etwtrace/pkg/etw/kernel"
	"github.com/Microsoft/go-etwtrace/pkg/etwlogrus"
	"github.com/Microsoft/go-etwtrace/pkg/osversion"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetLevel(logrus.DebugLevel)
	logrus.Infof("running on %s/%s", runtime.GOOS, runtime.GOARCH)

	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"process", "image load"}
	}

	resolver := etw.ChainResolver(etw.SystemResolver(), etw.TraceLoggingResolver())
	var (
		providers []*etw.Provider
		kernelPs  []*etw.Provider
	)
	for _, arg := range args {
		arg := arg
		var (
			p   *etw.Provider
			err error
		)
		if _, ok := kernel.Lookup(arg); ok {
			p, err = etw.NewKernelProvider(arg)
			if err == nil {
				p, err = p.Build()
			}
			if err == nil {
				kernelPs = append(kernelPs, p)
			}
		} else {
			p, err = etw.ParseProvider(arg, resolver)
		}
		if err != nil {
			logrus.WithError(err).WithField("arg", arg).Fatal("bad provider")
		}
		p.AddConsumer(etwlogrus.NewConsumer(logrus.WithField("source", arg)))
		p.AddConsumerFunc(func(r *etw.EventRecord, _ etw.SchemaLocator) {
			fmt.Printf("%s: event %d\n", arg, r.Header.Descriptor.ID)
		})
		providers = append(providers, p)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(providers); err != nil {
		logrus.WithError(err).Fatal("encode")
	}

	if len(kernelPs) > 0 {
		s, err := etw.KernelSessionConfig("go-etwtrace-sample", osversion.NewGate(nil), kernelPs...)
		if err != nil {
			logrus.WithError(err).Error("kernel session")
		} else {
			fmt.Printf("kernel session %q flags=%s mode=%#x\n", s.Name, s.EnableFlags, s.LogFileMode)
		}
	}

	for _, p := range providers {
		r := &etw.EventRecord{Header: etw.EventHeader{
			ProviderID: p.GUID(),
			ProcessID:  uint32(os.Getpid()),
			Descriptor: etw.EventDescriptor{ID: 1, Level: p.Level()},
		}}
		p.Registry().Deliver(r, nil)
	}
}

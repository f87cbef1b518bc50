package kernel

import (
	"sort"
	"strings"

	"github.com/Microsoft/go-etwtrace/pkg/guid"
	"github.com/Microsoft/go-etwtrace/pkg/osversion"
)

// Entry pairs a kernel subsystem with the GUID its events are logged under
// and the enable flag that turns it on.
type Entry struct {
	Name string
	GUID guid.GUID
	Flag Flag
	// MinVersion is the oldest Windows release whose kernel logger honours
	// Flag. Only Major and Minor are set.
	MinVersion osversion.VersionInfo
}

// Supported reports whether the OS checked by g is recent enough for e.
func (e Entry) Supported(g *osversion.Gate) (bool, error) {
	return g.AtLeast(e.MinVersion.Major, e.MinVersion.Minor, e.MinVersion.ServicePackMajor)
}

func (e Entry) String() string {
	return e.Name + " (" + e.GUID.String() + ", " + e.Flag.String() + ")"
}

var (
	win2000 = osversion.VersionInfo{Major: 5, Minor: 0}
	vista   = osversion.VersionInfo{Major: 6, Minor: 0}
	win8    = osversion.VersionInfo{Major: 6, Minor: 2}
)

// Catalog entries. Lookup returns copies of these, so reassigning one of the
// variables does not change what Lookup reports.
var (
	Process          = Entry{"process", ProcessGUID, FlagProcess, win2000}
	ProcessCounters  = Entry{"process counters", ProcessGUID, FlagProcessCounters, vista}
	Thread           = Entry{"thread", ThreadGUID, FlagThread, win2000}
	ThreadDispatcher = Entry{"thread dispatcher", ThreadGUID, FlagDispatcher, vista}
	ContextSwitch    = Entry{"context switch", ThreadGUID, FlagContextSwitch, vista}
	ImageLoad        = Entry{"image load", ImageLoadGUID, FlagImageLoad, win2000}
	DiskIO           = Entry{"disk io", DiskIOGUID, FlagDiskIO, win2000}
	DiskIOInit       = Entry{"disk io init", DiskIOGUID, FlagDiskIOInit, vista}
	Driver           = Entry{"driver", DiskIOGUID, FlagDriver, vista}
	DiskFileIO       = Entry{"disk file io", FileIOGUID, FlagDiskFileIO, win2000} // FileIo_Name events
	FileIO           = Entry{"file io", FileIOGUID, FlagFileIO, vista}
	FileIOInit       = Entry{"file io init", FileIOGUID, FlagFileIOInit, vista}
	VAMap            = Entry{"vamap", FileIOGUID, FlagVAMap, win8}
	SplitIO          = Entry{"split io", SplitIOGUID, FlagSplitIO, vista}
	Registry         = Entry{"registry", RegistryGUID, FlagRegistry, win2000}
	TCPIP            = Entry{"tcpip", TCPIPGUID, FlagNetworkTCPIP, win2000}
	MemoryPageFault  = Entry{"page fault", PageFaultGUID, FlagMemoryPageFault, win2000}
	MemoryHardFault  = Entry{"hard fault", PageFaultGUID, FlagMemoryHardFault, win2000}
	VirtualAlloc     = Entry{"virtual alloc", PageFaultGUID, FlagVirtualAlloc, vista}
	SystemCall       = Entry{"system call", PerfInfoGUID, FlagSystemCall, vista}
	Profile          = Entry{"profile", PerfInfoGUID, FlagProfile, vista}
	DPC              = Entry{"dpc", PerfInfoGUID, FlagDPC, vista}
	Interrupt        = Entry{"interrupt", PerfInfoGUID, FlagInterrupt, vista}
	DebugPrint       = Entry{"debug print", DebugGUID, FlagDbgPrint, vista}
	ALPC             = Entry{"alpc", ALPCGUID, FlagALPC, vista}
)

var (
	catalog = []Entry{
		Process, ProcessCounters, Thread, ThreadDispatcher, ContextSwitch,
		ImageLoad, DiskIO, DiskIOInit, Driver, DiskFileIO, FileIO, FileIOInit,
		VAMap, SplitIO, Registry, TCPIP, MemoryPageFault, MemoryHardFault,
		VirtualAlloc, SystemCall, Profile, DPC, Interrupt, DebugPrint, ALPC,
	}

	aliases = map[string]string{
		"network":    "tcpip",
		"cswitch":    "contextswitch",
		"dispatcher": "threaddispatcher",
		"syscall":    "systemcall",
		"dbgprint":   "debugprint",
		"pagefaults": "pagefault",
		"hardfaults": "hardfault",
		"image":      "imageload",
	}

	byName = func() map[string]int {
		m := make(map[string]int, len(catalog)+len(aliases))
		for i, e := range catalog {
			m[normalize(e.Name)] = i
		}
		for alias, name := range aliases {
			m[alias] = m[name]
		}
		return m
	}()
)

// normalize folds case and drops separators, so "Disk I/O", "disk_io" and
// "DiskIO" are the same key.
func normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '/', '.':
			return -1
		}
		return r
	}, strings.ToLower(name))
}

// Lookup finds the entry for a named subsystem.
func Lookup(name string) (Entry, bool) {
	i, ok := byName[normalize(name)]
	if !ok {
		return Entry{}, false
	}
	return catalog[i], true
}

// MustLookup is like Lookup but panics if name is unknown.
func MustLookup(name string) Entry {
	e, ok := Lookup(name)
	if !ok {
		panic("kernel: unknown subsystem " + name)
	}
	return e
}

// Entries returns a copy of the catalog in its canonical order.
func Entries() []Entry {
	return append([]Entry(nil), catalog...)
}

// Names returns the canonical entry names, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for _, e := range catalog {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// ByGUID returns every entry logged under g, in catalog order.
func ByGUID(g guid.GUID) []Entry {
	var es []Entry
	for _, e := range catalog {
		if e.GUID == g {
			es = append(es, e)
		}
	}
	return es
}

// CombineFlags ORs the flags of all entries.
func CombineFlags(entries ...Entry) Flag {
	var f Flag
	for _, e := range entries {
		f |= e.Flag
	}
	return f
}

// Package kernel is the catalog of NT kernel logger subsystems: the provider
// GUID each one emits under and the EVENT_TRACE_PROPERTIES.EnableFlags bit that
// turns it on. Several subsystems share a GUID and differ only by flag.
package kernel

import (
	"strconv"
	"strings"

	"github.com/Microsoft/go-etwtrace/pkg/guid"
)

// Flag is a bit of EVENT_TRACE_PROPERTIES.EnableFlags.
//
// https://learn.microsoft.com/en-us/windows/win32/api/evntrace/ns-evntrace-event_trace_properties
type Flag uint32

const (
	FlagProcess         Flag = 0x00000001
	FlagThread          Flag = 0x00000002
	FlagImageLoad       Flag = 0x00000004
	FlagProcessCounters Flag = 0x00000008
	FlagContextSwitch   Flag = 0x00000010
	FlagDPC             Flag = 0x00000020
	FlagInterrupt       Flag = 0x00000040
	FlagSystemCall      Flag = 0x00000080
	FlagDiskIO          Flag = 0x00000100
	FlagDiskFileIO      Flag = 0x00000200
	FlagDiskIOInit      Flag = 0x00000400
	FlagDispatcher      Flag = 0x00000800
	FlagMemoryPageFault Flag = 0x00001000
	FlagMemoryHardFault Flag = 0x00002000
	FlagVirtualAlloc    Flag = 0x00004000
	FlagVAMap           Flag = 0x00008000
	FlagNetworkTCPIP    Flag = 0x00010000
	FlagRegistry        Flag = 0x00020000
	FlagDbgPrint        Flag = 0x00040000
	FlagALPC            Flag = 0x00100000
	FlagSplitIO         Flag = 0x00200000
	FlagDriver          Flag = 0x00800000
	FlagProfile         Flag = 0x01000000
	FlagFileIO          Flag = 0x02000000
	FlagFileIOInit      Flag = 0x04000000
)

var flagNames = []struct {
	f    Flag
	name string
}{
	{FlagProcess, "PROCESS"},
	{FlagThread, "THREAD"},
	{FlagImageLoad, "IMAGE_LOAD"},
	{FlagProcessCounters, "PROCESS_COUNTERS"},
	{FlagContextSwitch, "CSWITCH"},
	{FlagDPC, "DPC"},
	{FlagInterrupt, "INTERRUPT"},
	{FlagSystemCall, "SYSTEMCALL"},
	{FlagDiskIO, "DISK_IO"},
	{FlagDiskFileIO, "DISK_FILE_IO"},
	{FlagDiskIOInit, "DISK_IO_INIT"},
	{FlagDispatcher, "DISPATCHER"},
	{FlagMemoryPageFault, "MEMORY_PAGE_FAULTS"},
	{FlagMemoryHardFault, "MEMORY_HARD_FAULTS"},
	{FlagVirtualAlloc, "VIRTUAL_ALLOC"},
	{FlagVAMap, "VAMAP"},
	{FlagNetworkTCPIP, "NETWORK_TCPIP"},
	{FlagRegistry, "REGISTRY"},
	{FlagDbgPrint, "DBGPRINT"},
	{FlagALPC, "ALPC"},
	{FlagSplitIO, "SPLIT_IO"},
	{FlagDriver, "DRIVER"},
	{FlagProfile, "PROFILE"},
	{FlagFileIO, "FILE_IO"},
	{FlagFileIOInit, "FILE_IO_INIT"},
}

// String returns the set bits as EVENT_TRACE_FLAG_* suffixes joined by "|",
// with any unknown bits in hex.
func (f Flag) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	rest := f
	for _, n := range flagNames {
		if f&n.f != 0 {
			parts = append(parts, n.name)
			rest &^= n.f
		}
	}
	if rest != 0 {
		parts = append(parts, "0x"+strconv.FormatUint(uint64(rest), 16))
	}
	return strings.Join(parts, "|")
}

// Kernel provider GUIDs. Events logged by the NT kernel logger carry one of
// these as their provider ID.
//
// https://learn.microsoft.com/en-us/windows/win32/etw/nt-kernel-logger-constants
var (
	ALPCGUID             = guid.MustFromString("45d8cccd-539f-4b72-a8b7-5c683142609a")
	PowerGUID            = guid.MustFromString("e43445e0-0903-48c3-b878-ff0fccebdd04")
	DebugGUID            = guid.MustFromString("13976d09-a327-438c-950b-7f03192815c7")
	TCPIPGUID            = guid.MustFromString("9a280ac0-c8e0-11d1-84e2-00c04fb998a2")
	UDPIPGUID            = guid.MustFromString("bf3a50c5-a9c9-4988-a005-2df0b7c80f80")
	ThreadGUID           = guid.MustFromString("3d6fa8d1-fe05-11d0-9dda-00c04fd7ba7c")
	DiskIOGUID           = guid.MustFromString("3d6fa8d4-fe05-11d0-9dda-00c04fd7ba7c")
	FileIOGUID           = guid.MustFromString("90cbdc39-4a3e-11d1-84f4-0000f80464e3")
	ProcessGUID          = guid.MustFromString("3d6fa8d0-fe05-11d0-9dda-00c04fd7ba7c")
	RegistryGUID         = guid.MustFromString("AE53722E-C863-11d2-8659-00C04FA321A1")
	SplitIOGUID          = guid.MustFromString("d837ca92-12b9-44a5-ad6a-3a65b3578aa8")
	ObTraceGUID          = guid.MustFromString("89497f50-effe-4440-8cf2-ce6b1cdcaca7")
	UMSEventGUID         = guid.MustFromString("9aec974b-5b8e-4118-9b92-3186d8002ce5")
	PerfInfoGUID         = guid.MustFromString("ce1dbfb4-137e-4da6-87b0-3f59aa102cbc")
	PageFaultGUID        = guid.MustFromString("3d6fa8d3-fe05-11d0-9dda-00c04fd7ba7c")
	ImageLoadGUID        = guid.MustFromString("2cb15d1d-5fc1-11d2-abe1-00a0c911f518")
	PoolTraceGUID        = guid.MustFromString("0268a8b6-74fd-4302-9dd0-6e8f1795c0cf")
	LostEventGUID        = guid.MustFromString("6a399ae0-4bc6-4de9-870b-3657f8947e7e")
	StackWalkGUID        = guid.MustFromString("def2fe46-7bd6-4b80-bd94-f57fe20d0ce3")
	EventTraceGUID       = guid.MustFromString("68fdd900-4a3e-11d1-84f4-0000f80464e3")
	MMCSSTraceGUID       = guid.MustFromString("f8f10121-b617-4a56-868b-9df1b27fe32c")
	SystemTraceGUID      = guid.MustFromString("9e814aad-3204-11d2-9a82-006008a86939")
	EventTraceConfigGUID = guid.MustFromString("01853a65-418f-4f36-aefc-dc0f1d2fd235")
)

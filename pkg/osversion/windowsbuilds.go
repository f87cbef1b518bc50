package osversion

// Windows client and server build numbers, for use with Compare or
// Gate.BuildAtLeast.
const (
	// RS1 (version 1607, codename "Redstone 1") corresponds to Windows Server
	// 2016 (ltsc2016) and Windows 10 (Anniversary Update).
	RS1 BuildNumber = 14393

	// RS5 (version 1809, codename "Redstone 5") corresponds to Windows Server
	// 2019 (ltsc2019), and Windows 10 (October 2018 Update).
	RS5 BuildNumber = 17763

	// V19H1 (version 1903) corresponds to Windows Server 1903 (semi-annual
	// channel).
	V19H1 BuildNumber = 18362

	// V20H2 corresponds to Windows Server 20H2 (semi-annual channel).
	V20H2 BuildNumber = 19042

	// LTSC2022 (version 21H2) corresponds to Windows Server 2022.
	LTSC2022 BuildNumber = 20348

	// V21H2Win11 corresponds to Windows 11 (original release).
	V21H2Win11 BuildNumber = 22000

	// V22H2Win11 corresponds to Windows 11 (2022 Update).
	V22H2Win11 BuildNumber = 22621
)

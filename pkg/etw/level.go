package etw

//go:generate go run golang.org/x/tools/cmd/stringer -type=Level -trimprefix=Level

// Level is the ETW event level. Lower values are more severe; enabling a
// provider at a level also enables every more severe level.
type Level uint8

const (
	LevelAlways Level = iota
	LevelCritical
	LevelError
	LevelWarning
	LevelInfo
	LevelVerbose
)

package cli

import (
	pc "github.com/setanarut/prettycolors"
)

// Process exit statuses. Every resource that can fail to fit the memory
// budget has its own status.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitConfig       = 2
	ExitTemplate     = 3
	ExitAllocGrid    = 4
	ExitAllocPalette = 5
	ExitAllocMask    = 6
	ExitOutput       = 7
)

var exitCodes = map[pc.Code]int{
	pc.ErrCodeConfig:       ExitConfig,
	pc.ErrCodeTemplate:     ExitTemplate,
	pc.ErrCodeAllocGrid:    ExitAllocGrid,
	pc.ErrCodeAllocPalette: ExitAllocPalette,
	pc.ErrCodeAllocMask:    ExitAllocMask,
	pc.ErrCodeOutput:       ExitOutput,
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if code, ok := exitCodes[pc.CodeOf(err)]; ok {
		return code
	}
	return ExitFailure
}

package diag

import "fmt"

// Code is a stable, compact identifier for a class of diagnostic. Ranges
// are grouped by the stage that raises them, mirroring how a compiler
// pipeline buckets its own diagnostic codes by phase.
type Code uint16

const (
	UnknownCode Code = 0

	// Transpile: raised while turning a document's SRC text into TGT text.
	TranspileInfo           Code = 3000
	TranspileSyntaxError    Code = 3001
	TranspileUnsupported    Code = 3002
	TranspileInternalError  Code = 3003
	TranspileFatalAbort     Code = 3004

	// Resolve: raised by module resolution against baseUrl/paths mappings.
	ResolveInfo             Code = 4000
	ResolveModuleNotFound   Code = 4001
	ResolveAmbiguousMapping Code = 4002
	ResolveCyclicImport     Code = 4003

	// Host: raised by the virtual-file host itself, independent of any
	// particular document's content.
	HostInfo               Code = 5000
	HostSnapshotStale      Code = 5001
	HostUnknownDocument    Code = 5002

	// Config: raised while loading or validating host configuration.
	ConfigInfo          Code = 6000
	ConfigInvalidTOML   Code = 6001
	ConfigMissingField  Code = 6002
)

func (c Code) String() string {
	return fmt.Sprintf("D%04d", uint16(c))
}

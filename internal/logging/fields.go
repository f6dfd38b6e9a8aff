package logging

// Field name constants keep structured log keys consistent across the
// host, resolver, and CLI.
const (
	FieldPath          = "path"
	FieldTargetPath    = "target_path"
	FieldSpecifier     = "specifier"
	FieldVersion       = "version"
	FieldProjectVer    = "project_version"
	FieldSnapshotBytes = "snapshot_bytes"
	FieldChangeStart   = "change_start"
	FieldChangeEnd     = "change_end"
	FieldDiagnostics   = "diagnostics"
	FieldDurationMS    = "duration_ms"
	FieldError         = "error"
	FieldJobs          = "jobs"
)

package logging

import (
	"go.uber.org/zap"
)

// =============================================================================
// AUDIT EVENT TYPES - data-quality trail of a run
// =============================================================================

// AuditEventType names a data-quality event.
type AuditEventType string

const (
	AuditRowDropped         AuditEventType = "row_dropped"
	AuditUnknownStewardship AuditEventType = "unknown_stewardship"
	AuditFeatureUnmatched   AuditEventType = "feature_unmatched"
	AuditStewardshipChanged AuditEventType = "stewardship_changed"
	AuditTableWritten       AuditEventType = "table_written"
	AuditRunStored          AuditEventType = "run_stored"
)

// AuditEvent is a single structured audit entry.
type AuditEvent struct {
	EventType AuditEventType
	RunID     string
	Sheet     string
	Row       int    // 1-based sheet row, 0 when not row-scoped
	Target    string // GRI ID, column or file the event is about
	Reason    string
	Fields    map[string]interface{}
}

// AuditLogger writes audit events under the audit category, scoped to a run.
type AuditLogger struct {
	runID string
}

// AuditWithRun creates an audit logger scoped to a run ID.
func AuditWithRun(runID string) *AuditLogger {
	return &AuditLogger{runID: runID}
}

// Log emits an event. Events log at debug level except table/run events.
func (a *AuditLogger) Log(ev AuditEvent) {
	if ev.RunID == "" {
		ev.RunID = a.runID
	}
	fields := make([]zap.Field, 0, 6+len(ev.Fields))
	fields = append(fields,
		zap.String("event", string(ev.EventType)),
		zap.String("run", ev.RunID),
	)
	if ev.Sheet != "" {
		fields = append(fields, zap.String("sheet", ev.Sheet))
	}
	if ev.Row > 0 {
		fields = append(fields, zap.Int("row", ev.Row))
	}
	if ev.Target != "" {
		fields = append(fields, zap.String("target", ev.Target))
	}
	if ev.Reason != "" {
		fields = append(fields, zap.String("reason", ev.Reason))
	}
	for k, v := range ev.Fields {
		fields = append(fields, zap.Any(k, v))
	}

	l := Get(CategoryAudit).Desugar()
	switch ev.EventType {
	case AuditTableWritten, AuditRunStored:
		l.Info("audit", fields...)
	default:
		l.Debug("audit", fields...)
	}
}

// RowDropped records a sheet row excluded by cleaning.
func (a *AuditLogger) RowDropped(sheet string, row int, griID, reason string) {
	a.Log(AuditEvent{EventType: AuditRowDropped, Sheet: sheet, Row: row, Target: griID, Reason: reason})
}

// UnknownStewardship records a label missing from the alias table.
func (a *AuditLogger) UnknownStewardship(sheet string, row int, label string) {
	a.Log(AuditEvent{EventType: AuditUnknownStewardship, Sheet: sheet, Row: row, Target: label})
}

// FeatureUnmatched records a feature column present in only one sheet.
func (a *AuditLogger) FeatureUnmatched(sheet, column string) {
	a.Log(AuditEvent{EventType: AuditFeatureUnmatched, Sheet: sheet, Target: column})
}

// StewardshipChanged records a site whose program differs between years.
func (a *AuditLogger) StewardshipChanged(griID, before, after string) {
	a.Log(AuditEvent{
		EventType: AuditStewardshipChanged,
		Target:    griID,
		Fields:    map[string]interface{}{"before": before, "after": after},
	})
}

// TableWritten records an exported CSV.
func (a *AuditLogger) TableWritten(path string, rows int) {
	a.Log(AuditEvent{EventType: AuditTableWritten, Target: path, Fields: map[string]interface{}{"rows": rows}})
}

// RunStored records a run persisted to the history database.
func (a *AuditLogger) RunStored(dbPath string) {
	a.Log(AuditEvent{EventType: AuditRunStored, Target: dbPath})
}

package model

// Field names recognised on a log record. Sources may carry more; anything
// unknown ends up in Extra.
const (
	FieldTimestamp = "timestamp"
	FieldLogLevel  = "log_level"
	FieldComponent = "component"
	FieldEventType = "event_type"
	FieldStatus    = "status"
	FieldPolicyID  = "policy_id"
	FieldDeviceID  = "device_id"
	FieldMessage   = "message"
)

// LogRecord is one structured log entry. A field absent from the source row is
// the empty string, never an error; records are read-only once produced.
type LogRecord struct {
	Timestamp  string            `json:"timestamp"`
	LogLevel   string            `json:"log_level"`
	Component  string            `json:"component"`
	EventType  string            `json:"event_type"`
	Status     string            `json:"status"`
	PolicyID   string            `json:"policy_id,omitempty"`
	DeviceID   string            `json:"device_id,omitempty"`
	Message    string            `json:"message"`
	Extra      map[string]string `json:"extra,omitempty"`
	SourceFile string            `json:"source_file,omitempty"`
}

// Field returns the named field, falling back to Extra for columns the record
// struct does not model. Unknown names yield "".
func (r *LogRecord) Field(name string) string {
	switch name {
	case FieldTimestamp:
		return r.Timestamp
	case FieldLogLevel:
		return r.LogLevel
	case FieldComponent:
		return r.Component
	case FieldEventType:
		return r.EventType
	case FieldStatus:
		return r.Status
	case FieldPolicyID:
		return r.PolicyID
	case FieldDeviceID:
		return r.DeviceID
	case FieldMessage:
		return r.Message
	default:
		return r.Extra[name]
	}
}

// SetField assigns a value to the named field, routing unknown columns to Extra.
func (r *LogRecord) SetField(name, value string) {
	switch name {
	case FieldTimestamp:
		r.Timestamp = value
	case FieldLogLevel:
		r.LogLevel = value
	case FieldComponent:
		r.Component = value
	case FieldEventType:
		r.EventType = value
	case FieldStatus:
		r.Status = value
	case FieldPolicyID:
		r.PolicyID = value
	case FieldDeviceID:
		r.DeviceID = value
	case FieldMessage:
		r.Message = value
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[name] = value
	}
}

// RecordSequence is the full file-ordered collection of records for one run.
// Order is significant: it defines "preceding" for correlation.
type RecordSequence []LogRecord

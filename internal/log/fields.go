package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldIdentity   = "identity"
	FieldBucket     = "bucket"
	FieldContract   = "contract"
	FieldTxHash     = "tx_hash"
	FieldChainID    = "chain_id"
	FieldBackend    = "backend"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAuth      = "auth"
	ComponentVesting   = "vesting"
	ComponentChain     = "chain"
	ComponentRelease   = "release"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentCache     = "cache"
	ComponentRateLimit = "rate_limit"
	ComponentBackend   = "backend"
)

// Operations defines standard operation names
const (
	OpLogin          = "login"
	OpLogout         = "logout"
	OpChangePassword = "change_password"
	OpRead           = "read"
	OpRelease        = "release"
	OpResolve        = "resolve"
	OpConfirm        = "confirm"
	OpShutdown       = "shutdown"
	OpStartup        = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithContract adds the vesting contract and its bucket
func (f LogFields) WithContract(address, bucket string) LogFields {
	f[FieldContract] = address
	f[FieldBucket] = bucket
	return f
}

// WithRelease adds release transaction fields
func (f LogFields) WithRelease(txHash string, chainID int64) LogFields {
	f[FieldTxHash] = txHash
	f[FieldChainID] = chainID
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}

package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldKey       = "key"
	FieldBudgetID  = "budget_id"
	FieldExpenseID = "expense_id"
	FieldAmount    = "amount"
	FieldPeriod    = "period"
	FieldCount     = "count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentBudget  = "budget"
	ComponentExpense = "expense"
	ComponentStorage = "storage"
	ComponentCache   = "cache"
	ComponentAMQP    = "amqp"
	ComponentSheets  = "sheets"
	ComponentWorker  = "worker"
	ComponentBackend = "backend"
	ComponentReport  = "report"
)

// Operations defines standard operation names
const (
	OpLoad      = "load"
	OpSave      = "save"
	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpArchive   = "archive"
	OpSpend     = "spend"
	OpIncrement = "increment"
	OpRefresh   = "refresh"
	OpPublish   = "publish"
	OpSync      = "sync"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
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

// WithKey adds the storage key field
func (f LogFields) WithKey(key string) LogFields {
	f[FieldKey] = key
	return f
}

// WithBudget adds budget-related fields
func (f LogFields) WithBudget(id string, amount float64, period string) LogFields {
	f[FieldBudgetID] = id
	f[FieldAmount] = amount
	if period != "" {
		f[FieldPeriod] = period
	}
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(id string, amount float64, count int) LogFields {
	f[FieldExpenseID] = id
	f[FieldAmount] = amount
	f[FieldCount] = count
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

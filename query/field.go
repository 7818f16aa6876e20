package query

// Field maps a request-facing field name to the backend field it filters.
type Field struct {
	RequestName string `json:"request_name"`
	BackendName string `json:"backend_name"`
}

// NewField creates a field whose request and backend names are the same
func NewField(name string) Field {
	return Field{RequestName: name, BackendName: name}
}

// MapField creates a field exposed under requestName and stored as backendName
func MapField(requestName, backendName string) Field {
	return Field{RequestName: requestName, BackendName: backendName}
}

// Fields creates identity fields for each name
func Fields(names ...string) []Field {
	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = NewField(name)
	}
	return fields
}

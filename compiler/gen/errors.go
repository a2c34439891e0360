package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a schema definition error.
	ErrInvalidSchema = errors.New("tablegen: invalid schema")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("tablegen: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("tablegen: code generation failed")

	// ErrDuplicateAttribute is matched by schema errors of kind DuplicateAttribute.
	ErrDuplicateAttribute = errors.New("tablegen: duplicate attribute")
	// ErrMissingAttribute is matched by schema errors of kind MissingAttribute.
	ErrMissingAttribute = errors.New("tablegen: missing attribute")
	// ErrUnknownIdentifierField is matched by schema errors of kind UnknownIdentifierField.
	ErrUnknownIdentifierField = errors.New("tablegen: unknown identifier field")
	// ErrDefaultWithoutInsertable is matched by schema errors of kind DefaultWithoutInsertable.
	ErrDefaultWithoutInsertable = errors.New("tablegen: default without insertable")
	// ErrUnknownAttribute is matched by schema errors of kind UnknownAttribute.
	ErrUnknownAttribute = errors.New("tablegen: unknown attribute")
	// ErrInvalidAttribute is matched by schema errors of kind InvalidAttribute.
	ErrInvalidAttribute = errors.New("tablegen: invalid attribute")
)

// ErrorKind classifies a SchemaError.
type ErrorKind int

// Schema error kinds.
const (
	InvalidAttribute ErrorKind = iota
	DuplicateAttribute
	MissingAttribute
	UnknownIdentifierField
	DefaultWithoutInsertable
	UnknownAttribute
)

var kindNames = [...]string{
	InvalidAttribute:         "InvalidAttribute",
	DuplicateAttribute:       "DuplicateAttribute",
	MissingAttribute:         "MissingAttribute",
	UnknownIdentifierField:   "UnknownIdentifierField",
	DefaultWithoutInsertable: "DefaultWithoutInsertable",
	UnknownAttribute:         "UnknownAttribute",
}

var kindSentinels = [...]error{
	InvalidAttribute:         ErrInvalidAttribute,
	DuplicateAttribute:       ErrDuplicateAttribute,
	MissingAttribute:         ErrMissingAttribute,
	UnknownIdentifierField:   ErrUnknownIdentifierField,
	DefaultWithoutInsertable: ErrDefaultWithoutInsertable,
	UnknownAttribute:         ErrUnknownAttribute,
}

// String returns the kind name.
func (k ErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// SchemaError represents a schema definition error.
type SchemaError struct {
	Kind    ErrorKind
	Type    string // Entity or patch type name
	Field   string // Field name (if applicable)
	Attr    string // Offending option key (if applicable)
	Pos     string // file:line:col of the declaration
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	if e.Pos != "" {
		b.WriteString(e.Pos)
		b.WriteString(": ")
	}
	b.WriteString("tablegen: schema error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrInvalidSchema or the sentinel of
// the error kind.
func (e *SchemaError) Is(target error) bool {
	if target == ErrInvalidSchema {
		return true
	}
	return int(e.Kind) < len(kindSentinels) && target == kindSentinels[e.Kind]
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(kind ErrorKind, typeName, fieldName, message string) *SchemaError {
	return &SchemaError{
		Kind:    kind,
		Type:    typeName,
		Field:   fieldName,
		Message: message,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("tablegen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("tablegen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "render", "format", "write"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("tablegen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// Warning is a non-fatal diagnostic produced while parsing declarations.
type Warning struct {
	Pos     string
	Type    string
	Field   string
	Message string
}

// String formats the warning like a compiler diagnostic.
func (w Warning) String() string {
	var b strings.Builder
	if w.Pos != "" {
		b.WriteString(w.Pos)
		b.WriteString(": ")
	}
	b.WriteString("warning: ")
	b.WriteString(w.Type)
	if w.Field != "" {
		b.WriteString(".")
		b.WriteString(w.Field)
	}
	b.WriteString(": ")
	b.WriteString(w.Message)
	return b.String()
}

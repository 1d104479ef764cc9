package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ParseFailed indicates a Python source file could not be parsed
	ParseFailed ErrorCode = "PARSE_FAILED"
	// PackageUnrecognized indicates a path matched no known package layout
	PackageUnrecognized ErrorCode = "PACKAGE_UNRECOGNIZED"
	// InterpreterUnavailable indicates no usable Python interpreter was found
	InterpreterUnavailable ErrorCode = "INTERPRETER_UNAVAILABLE"
	// Timeout indicates an interpreter probe timed out
	Timeout ErrorCode = "TIMEOUT"
	// IndexCorrupt indicates the name index database is unreadable
	IndexCorrupt ErrorCode = "INDEX_CORRUPT"
	// PolicyInvalid indicates the scan policy file could not be decoded
	PolicyInvalid ErrorCode = "POLICY_INVALID"
	// ConfigInvalid indicates the configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ExportFailed indicates an index export could not be written
	ExportFailed ErrorCode = "EXPORT_FAILED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
	// InstallTool suggests installing a tool
	InstallTool FixActionType = "install-tool"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
	Tool        string        `json:"tool,omitempty"`
}

// PyidxError represents a pyidx error with code, message, and suggestions
type PyidxError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new PyidxError
func New(code ErrorCode, message string, cause error) *PyidxError {
	return &PyidxError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *PyidxError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *PyidxError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *PyidxError) WithDetails(details interface{}) *PyidxError {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	InterpreterUnavailable: {
		{
			Type:        RunCommand,
			Command:     "pyidx doctor",
			Safe:        true,
			Description: "Check which interpreter pyidx is resolving",
		},
		{
			Type:        InstallTool,
			Tool:        "python3",
			Description: "Install a CPython interpreter and make sure it is on PATH",
		},
	},
	IndexCorrupt: {
		{
			Type:        RunCommand,
			Command:     "pyidx index --rebuild",
			Safe:        true,
			Description: "Rebuild the name index from scratch",
		},
	},
	PolicyInvalid: {
		{
			Type:        RunCommand,
			Command:     "pyidx doctor --check=policy",
			Safe:        true,
			Description: "Validate .pyidx/policy.yaml",
		},
	},
	PackageUnrecognized: {
		{
			Type:        RunCommand,
			Command:     "pyidx scan <path> --format=json",
			Safe:        true,
			Description: "Check whether the path is a .py file, a package directory, or a compiled extension",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}

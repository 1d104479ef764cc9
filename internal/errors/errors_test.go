package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("underlying error")

	err := New(InterpreterUnavailable, "no python interpreter found", cause)

	if err.Code != InterpreterUnavailable {
		t.Errorf("Code = %v, want %v", err.Code, InterpreterUnavailable)
	}
	if err.Message != "no python interpreter found" {
		t.Errorf("Message = %q, want %q", err.Message, "no python interpreter found")
	}
	if len(err.SuggestedFixes) == 0 {
		t.Error("expected suggested fixes for INTERPRETER_UNAVAILABLE")
	}
}

func TestPyidxError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      ParseFailed,
			message:   "cannot parse module.py",
			cause:     errors.New("invalid syntax"),
			wantParts: []string{"PARSE_FAILED", "cannot parse module.py", "invalid syntax"},
		},
		{
			name:      "without cause",
			code:      PackageUnrecognized,
			message:   "path is not a package",
			cause:     nil,
			wantParts: []string{"PACKAGE_UNRECOGNIZED", "path is not a package"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.cause)
			got := err.Error()

			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestPyidxError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(InternalError, "something went wrong", cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}

	// Test nil cause
	errNoCause := New(Timeout, "probe timed out", nil)
	if errNoCause.Unwrap() != nil {
		t.Errorf("Unwrap() on error without cause should return nil")
	}
}

func TestPyidxError_WithDetails(t *testing.T) {
	err := New(ExportFailed, "cannot write export", nil)
	details := map[string]string{"path": "/tmp/out.json.gz"}

	result := err.WithDetails(details)

	// Check that it returns the same error (for chaining)
	if result != err {
		t.Error("WithDetails should return the same error for chaining")
	}

	// Check details are set
	if err.Details == nil {
		t.Error("Details should be set")
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		wantNil bool
	}{
		{InterpreterUnavailable, false},
		{IndexCorrupt, false},
		{PolicyInvalid, false},
		{PackageUnrecognized, false},
		{Timeout, true},       // No predefined fixes
		{InternalError, true}, // No predefined fixes
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			fixes := GetSuggestedFixes(tt.code)

			if tt.wantNil && fixes != nil {
				t.Errorf("GetSuggestedFixes(%v) = %v, want nil", tt.code, fixes)
			}
			if !tt.wantNil && len(fixes) == 0 {
				t.Errorf("GetSuggestedFixes(%v) returned no fixes", tt.code)
			}
		})
	}
}

func TestErrorCodes(t *testing.T) {
	// Ensure all error codes are unique
	codes := []ErrorCode{
		ParseFailed,
		PackageUnrecognized,
		InterpreterUnavailable,
		Timeout,
		IndexCorrupt,
		PolicyInvalid,
		ConfigInvalid,
		ExportFailed,
		InternalError,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %v", code)
		}
		seen[code] = true

		// Ensure each code is a non-empty string
		if string(code) == "" {
			t.Error("Error code should not be empty")
		}
	}
}

func TestErrorActionsMap(t *testing.T) {
	// Verify each entry has valid fix actions
	for code, fixes := range ErrorActions {
		if len(fixes) == 0 {
			t.Errorf("ErrorActions[%v] has no fix actions", code)
		}
		for i, fix := range fixes {
			if fix.Type == "" {
				t.Errorf("ErrorActions[%v][%d].Type is empty", code, i)
			}
		}
	}
}

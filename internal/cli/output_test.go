package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pdscatter/internal/dataset"
	"github.com/roach88/pdscatter/internal/projection"
	"github.com/roach88/pdscatter/internal/source"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E001", "table not found", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, CodeBadInput, resp.Error.Code)
	assert.Equal(t, "table not found", resp.Error.Message)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"file": "region.csv", "line": "42"}
	err := formatter.Error("E002", "parse error", details)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("1 rows unified")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 rows unified")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("E001", "table not found", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E001]")
	assert.Contains(t, buf.String(), "table not found")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"file": "region.csv"}
	err := formatter.Error("E001", "table not found", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E001]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("Reading %s", "region.csv")

			if tt.wantLog {
				assert.Contains(t, buf.String(), "Reading region.csv")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestCLIResponse_JSON(t *testing.T) {
	resp := CLIResponse{
		Status: "ok",
		Data:   map[string]int{"count": 42},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded CLIResponse
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "ok", decoded.Status)
}

func TestCLIError_JSON(t *testing.T) {
	cliErr := CLIError{
		Code:    "E100",
		Message: "bad selection",
		Details: []string{"year outside [1990, 2017]"},
	}

	data, err := json.Marshal(cliErr)
	require.NoError(t, err)

	var decoded CLIError
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, ErrorCode("E100"), decoded.Code)
	assert.Equal(t, "bad selection", decoded.Message)
}

func TestOutputFormatter_SuccessForSession(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.SuccessFor("session-1", map[string]int{"frames": 3}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "session-1", resp.SessionID)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))

	wrapped := WrapExitError(ExitFailure, "script failed", assert.AnError)
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("run: %w", wrapped)))
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.Equal(t, "script failed: "+assert.AnError.Error(), wrapped.Error())
}

func TestOutputFormatter_FailDetails(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    ErrorCode
		details map[string]interface{}
	}{
		{
			name:    "parse error",
			err:     &ExitError{Code: ExitCommandError, Kind: CodeDataError, Message: "failed to load sources", Err: &source.ParseError{File: "risks.csv", Line: 3, Column: "val", Err: source.ErrNonFinite}},
			code:    CodeDataError,
			details: map[string]interface{}{"file": "risks.csv", "line": float64(3), "column": "val"},
		},
		{
			name:    "selection",
			err:     &ExitError{Code: ExitCommandError, Kind: CodeBadInput, Message: "invalid selection", Err: &projection.SelectionError{Field: "year", Message: "1800 outside [1990, 2017]"}},
			code:    CodeBadInput,
			details: map[string]interface{}{"field": "year"},
		},
		{
			name:    "integrity",
			err:     &ExitError{Code: ExitCommandError, Kind: CodeDataError, Message: "failed to unify sources", Err: &dataset.DataIntegrityError{Code: dataset.ErrCodeUnknownRegion, Message: "region Lemuria is not a catalogue region"}},
			code:    CodeDataError,
			details: map[string]interface{}{"integrity": "UNKNOWN_REGION"},
		},
		{
			name: "plain error",
			err:  assert.AnError,
			code: CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: buf}
			require.NoError(t, formatter.Fail(tt.err))

			var resp struct {
				Status string `json:"status"`
				Error  struct {
					Code    ErrorCode              `json:"code"`
					Message string                 `json:"message"`
					Details map[string]interface{} `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.err.Error(), resp.Error.Message)
			assert.Equal(t, tt.details, resp.Error.Details)
		})
	}
}

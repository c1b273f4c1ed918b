package errors

import (
	stderrors "errors"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(stderrors.New("boom"), ExitSystem),
			want: "boom",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	underlying := stderrors.New("underlying")
	err := NewSystemError(underlying, "check permissions")

	if !stderrors.Is(err, underlying) {
		t.Error("errors.Is should find the underlying error")
	}

	var exitErr *ExitError
	if !stderrors.As(err, &exitErr) {
		t.Fatal("errors.As should extract *ExitError")
	}
	if exitErr.Code != ExitSystem {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitSystem)
	}
	if exitErr.Suggestion != "check permissions" {
		t.Errorf("Suggestion = %q", exitErr.Suggestion)
	}
}

func TestNewPreconditionError(t *testing.T) {
	err := NewPreconditionError(ErrPreconditionFailed)
	if err.Code != ExitUser {
		t.Errorf("Code = %d, want %d", err.Code, ExitUser)
	}
	if err.Suggestion == "" {
		t.Error("expected a suggestion")
	}
}

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestRigError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *RigError
		want string
	}{
		{
			name: "without cause",
			err:  New(ExitGeneralError, KindPlan, "something failed"),
			want: "something failed",
		},
		{
			name: "with cause",
			err:  Wrap(ExitGeneralError, KindApply, "outer", fmt.Errorf("inner")),
			want: "outer: inner",
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

func TestRigError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitGeneralError, KindApply, "wrapper", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "config error",
			err:  ConfigNotFound("/etc/rigctl/config.json", fmt.Errorf("no such file")),
			want: ExitConfigError,
		},
		{
			name: "apply error",
			err:  ApplyFailed("Set DEV_HOME", fmt.Errorf("setx failed")),
			want: ExitGeneralError,
		},
		{
			name: "foreign error",
			err:  fmt.Errorf("plain error"),
			want: ExitGeneralError,
		},
		{
			name: "wrapped rig error",
			err:  fmt.Errorf("outer: %w", ConfigParse("config.json", fmt.Errorf("bad json"))),
			want: ExitConfigError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"plan", PlanFailed("signing", "no signing key resolvable"), KindPlan},
		{"secret", SecretNotFound("github-ssh", "private key"), KindSecret},
		{"probe", ProbeFailed("HideFileExt", fmt.Errorf("key absent")), KindProbe},
		{"foreign", fmt.Errorf("plain"), Kind("")},
		{"wrapped", fmt.Errorf("outer: %w", SecretUnavailable(nil)), KindSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstructorMessages(t *testing.T) {
	err := PlanFailed("signing", "no signing key resolvable")
	if !strings.Contains(err.Error(), "signing") {
		t.Errorf("PlanFailed message should name the step, got: %s", err.Error())
	}

	serr := SecretNotFound("github-ssh", "private key")
	if !strings.Contains(serr.Error(), "github-ssh/private key") {
		t.Errorf("SecretNotFound should name item and field, got: %s", serr.Error())
	}
}

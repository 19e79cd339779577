package config

import (
	"errors"
	"fmt"
)

var (
	ErrMutuallyExclusiveInputs = errors.New("cannot use --targets_in and give targets on the command line")
	ErrNoTargets               = errors.New("no targets to scan")
	ErrUnreadableTargetsFile   = errors.New("can't read targets from input file")
	ErrOutputSinkConflict      = errors.New("conflicting output options")
	ErrClientAuthMismatch      = errors.New("no private key or certificate file were given, see --cert and --key")
	ErrInvalidKeyFormat        = errors.New("--keyform should be DER or PEM")
	ErrInvalidCredential       = errors.New("invalid client authentication settings")
	ErrInvalidProxyURL         = errors.New("invalid proxy URL for --https_tunnel")
	ErrInvalidStartTLS         = errors.New("invalid --starttls value")
	ErrInvalidRetryCount       = errors.New("cannot have a number smaller than 1 for --nb_retries")
)

// ParsingError wraps any command line validation failure. It is always fatal,
// raised before any target resolution begins.
type ParsingError struct {
	Err error
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("Command line error: %v. Use -h for help.", e.Err)
}

func (e *ParsingError) Unwrap() error { return e.Err }

func parsingErrorf(format string, args ...any) *ParsingError {
	return &ParsingError{Err: fmt.Errorf(format, args...)}
}

package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	commandValidationCode   = "ASCIIDOC_COMMAND_INVALID"
	commandContextCanceled  = "ASCIIDOC_COMMAND_CANCELED"
	commandContextTimeout   = "ASCIIDOC_COMMAND_TIMEOUT"
	commandContextErrorCode = "ASCIIDOC_COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "ASCIIDOC_COMMAND_FAILED"
)

// isContextError reports whether err stems from cancellation or a deadline.
func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func wrapValidationError(err error, msgType string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode).
		WithMetadata(map[string]any{"command": msgType})
}

func wrapContextError(err error, msgType string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	var wrapped *goerrors.Error
	switch {
	case errors.Is(err, context.Canceled):
		wrapped = goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		wrapped = goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		wrapped = goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
	return wrapped.WithMetadata(map[string]any{"command": msgType})
}

func wrapExecuteError(err error, msgType string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(commandExecuteFailed).
		WithMetadata(map[string]any{"command": msgType})
}

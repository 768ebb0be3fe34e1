package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"
	documentParseFailed     = "DOCUMENT_PARSE_FAILED"
	documentTransformFailed = "DOCUMENT_TRANSFORM_FAILED"
	configurationInvalid    = "CONFIGURATION_INVALID"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
}

// wrapExecuteError tags content errors so callers can tell bad input
// (frontmatter, configuration) apart from execution failures.
func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}

	var parseErr *interfaces.ParseError
	if errors.As(err, &parseErr) {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "document parse failed").
			WithTextCode(documentParseFailed)
	}
	var configErr *interfaces.ConfigurationError
	if errors.As(err, &configErr) {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "configuration invalid").
			WithTextCode(configurationInvalid)
	}
	var transformErr *interfaces.TransformError
	if errors.As(err, &transformErr) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "document transform failed").
			WithTextCode(documentTransformFailed)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(commandExecuteFailed)
}

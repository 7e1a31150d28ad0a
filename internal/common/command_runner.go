package common

import (
	"context"

	"jobkit/internal/errors"
)

// OperationFunc is the signature of an evaluation or generation run invoked
// from a CLI command.
type OperationFunc[Output any] func(context.Context) (Output, error)

// RunAICommand encapsulates the common logic for document-based CLI
// commands: validate the input paths, run the operation, format and write
// the result.
func RunAICommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	inputPaths []string,
	operation OperationFunc[Output],
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	if err := fileProcessor.ValidateDocumentFiles(inputPaths...); err != nil {
		return err
	}

	result, err := operation(ctx)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}

// Package logging builds the application logger.
package logging

import (
	"go.uber.org/zap"
)

// New creates a logger. Verbose selects the human-readable development
// logger at debug level; otherwise the JSON production logger is used.
func New(verbose bool) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

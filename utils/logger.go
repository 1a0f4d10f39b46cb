package utils

import "go.uber.org/zap"

// NewLogger builds the shared application logger.
func NewLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

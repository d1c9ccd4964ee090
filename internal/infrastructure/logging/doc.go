// Package logging provides structured logging using uber/zap.
//
// Two modes are offered:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for human readability
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	logger.Error("Upload failed", zap.Error(err))
package logging

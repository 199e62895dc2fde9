package utils

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"
)

const (
	jsonZapEncodingConstant              = "json"
	consoleZapEncodingConstant           = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	rotatingFileMaxSizeMegabytesConstant = 15
	rotatingFileMaxBackupsConstant       = 3
	rotatingFileMaxAgeDaysConstant       = 28
)

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct{}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, levelError := zapLevelFor(requestedLogLevel)
	if levelError != nil {
		return nil, levelError
	}
	encoding, encodingError := zapEncodingFor(requestedLogFormat)
	if encodingError != nil {
		return nil, encodingError
	}

	configuration := zap.NewProductionConfig()
	configuration.Level = zap.NewAtomicLevelAt(zapLogLevel)
	configuration.Encoding = encoding
	return configuration.Build()
}

// CreateLoggerWithRotatingFile produces a zap.Logger that mirrors entries into
// a size-rotated log file. An empty path degrades to CreateLogger. The file
// sink always encodes JSON so rotated logs stay machine-readable even when the
// console side renders for humans.
func (factory *LoggerFactory) CreateLoggerWithRotatingFile(requestedLogLevel LogLevel, requestedLogFormat LogFormat, logFilePath string) (*zap.Logger, error) {
	if len(logFilePath) == 0 {
		return factory.CreateLogger(requestedLogLevel, requestedLogFormat)
	}

	zapLogLevel, levelError := zapLevelFor(requestedLogLevel)
	if levelError != nil {
		return nil, levelError
	}
	encoding, encodingError := zapEncodingFor(requestedLogFormat)
	if encodingError != nil {
		return nil, encodingError
	}

	encoderConfiguration := zap.NewProductionEncoderConfig()
	var consoleEncoder zapcore.Encoder
	switch encoding {
	case consoleZapEncodingConstant:
		consoleEncoder = zapcore.NewConsoleEncoder(encoderConfiguration)
	default:
		consoleEncoder = zapcore.NewJSONEncoder(encoderConfiguration)
	}

	rotatingFileWriter := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    rotatingFileMaxSizeMegabytesConstant,
		MaxBackups: rotatingFileMaxBackupsConstant,
		MaxAge:     rotatingFileMaxAgeDaysConstant,
		Compress:   true,
	}

	combinedCore := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), zapLogLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfiguration), zapcore.AddSync(rotatingFileWriter), zapLogLevel),
	)
	return zap.New(combinedCore), nil
}

func zapLevelFor(requestedLogLevel LogLevel) (zapcore.Level, error) {
	switch requestedLogLevel {
	case LogLevelDebug:
		return zapcore.DebugLevel, nil
	case LogLevelInfo:
		return zapcore.InfoLevel, nil
	case LogLevelWarn:
		return zapcore.WarnLevel, nil
	case LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}
}

func zapEncodingFor(requestedLogFormat LogFormat) (string, error) {
	switch requestedLogFormat {
	case LogFormatStructured:
		return jsonZapEncodingConstant, nil
	case LogFormatConsole:
		return consoleZapEncodingConstant, nil
	default:
		return "", fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}
}

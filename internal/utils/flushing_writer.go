package utils

import (
	"io"
	"sync"
)

// flusher matches writers that buffer output, such as bufio.Writer.
type flusher interface {
	Flush() error
}

// FlushingWriter drives the wrapped writer's Flush after every write so
// buffered output becomes visible as soon as it is produced. Writers without
// a Flush method pass through untouched.
type FlushingWriter struct {
	mutex  sync.Mutex
	writer io.Writer
}

// NewFlushingWriter wraps writer in a FlushingWriter. A nil writer stays nil
// and an already wrapped writer is returned as is.
func NewFlushingWriter(writer io.Writer) io.Writer {
	switch typedWriter := writer.(type) {
	case nil:
		return nil
	case *FlushingWriter:
		return typedWriter
	default:
		return &FlushingWriter{writer: writer}
	}
}

// Write forwards data to the wrapped writer and flushes it on success.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	writtenBytes, writeError := flushingWriter.writer.Write(data)
	if writeError == nil {
		writeError = flushUnderlying(flushingWriter.writer)
	}
	return writtenBytes, writeError
}

// Flush forces buffered data through the wrapped writer.
func (flushingWriter *FlushingWriter) Flush() error {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()
	return flushUnderlying(flushingWriter.writer)
}

func flushUnderlying(writer io.Writer) error {
	if bufferedWriter, canFlush := writer.(flusher); canFlush {
		return bufferedWriter.Flush()
	}
	return nil
}

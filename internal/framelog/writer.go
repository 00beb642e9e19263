// Package framelog mirrors captured frames to rotating JSONL files. It
// is an optional sink for the CLI; the capture core itself never
// persists anything.
package framelog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgnsrekt/wstap"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Writer appends captured messages as JSON lines to date-named files
// under a base directory, rotating via lumberjack. Writes are async and
// best effort: a full buffer drops the frame with a warning rather than
// stalling the pump.
type Writer struct {
	baseDir   string
	maxSizeMB int

	writeCh chan wstap.Message
	done    chan struct{}
	wg      sync.WaitGroup

	mu          sync.Mutex
	currentDate string
	logger      *lumberjack.Logger
}

// NewWriter creates a writer and starts its background loop.
func NewWriter(baseDir string, bufferSize, maxSizeMB int) *Writer {
	w := &Writer{
		baseDir:   baseDir,
		maxSizeMB: maxSizeMB,
		writeCh:   make(chan wstap.Message, bufferSize),
		done:      make(chan struct{}),
	}

	w.wg.Add(1)
	go w.writeLoop()

	return w
}

// Write queues a message for async writing.
func (w *Writer) Write(msg wstap.Message) error {
	select {
	case <-w.done:
		return fmt.Errorf("frame log writer is closed")
	default:
	}

	select {
	case w.writeCh <- msg:
		return nil
	default:
		slog.Warn("frame log buffer full, dropping frame", "request_id", msg.RequestID)
		return fmt.Errorf("buffer full")
	}
}

// Close shuts down the writer, draining pending frames with a timeout.
func (w *Writer) Close() error {
	close(w.done)

	timeout := time.After(5 * time.Second)
	for {
		select {
		case msg := <-w.writeCh:
			w.writeRecord(msg)
		case <-timeout:
			slog.Warn("frame log close timeout, some frames may be lost")
			goto done
		default:
			goto done
		}
	}

done:
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.logger != nil {
		return w.logger.Close()
	}
	return nil
}

func (w *Writer) writeLoop() {
	defer w.wg.Done()

	for {
		select {
		case msg := <-w.writeCh:
			w.writeRecord(msg)
		case <-w.done:
			return
		}
	}
}

func (w *Writer) writeRecord(msg wstap.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal frame", "error", err, "request_id", msg.RequestID)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	currentDate := time.Now().UTC().Format("2006-01-02")
	if w.logger == nil || currentDate != w.currentDate {
		w.rotateForDate(currentDate)
	}
	if w.logger == nil {
		return
	}

	if _, err := w.logger.Write(append(data, '\n')); err != nil {
		slog.Error("failed to write frame", "error", err)
	}
}

func (w *Writer) rotateForDate(date string) {
	if w.logger != nil {
		w.logger.Close()
		w.logger = nil
	}

	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		slog.Error("failed to create frame log directory", "error", err, "dir", w.baseDir)
		return
	}

	filename := filepath.Join(w.baseDir, "frames-"+date+".jsonl")
	w.logger = &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    w.maxSizeMB,
		MaxBackups: 100,
		MaxAge:     30,
		Compress:   false,
		LocalTime:  false,
	}

	w.currentDate = date
	slog.Info("opened frame log file", "file", filename)
}

package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"settlers/internal/game"
	"settlers/internal/protocol"
)

// Writer appends a game's actions to a zstd-compressed JSONL stream.
type Writer struct {
	mu  sync.Mutex
	f   io.Closer
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create opens a new log file at dir/<gameID>.jsonl.zst and writes the
// header.
func Create(dir string, h Header) (*Writer, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", err
	}
	path := filepath.Join(dir, h.GameID+".jsonl.zst")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, "", err
	}
	w, err := NewWriter(f, h)
	if err != nil {
		_ = f.Close()
		return nil, "", err
	}
	w.f = f
	return w, path, nil
}

// NewWriter starts a log on out. Close does not close out.
func NewWriter(out io.Writer, h Header) (*Writer, error) {
	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	w := &Writer{enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}
	if err := w.writeLine(h); err != nil {
		return nil, err
	}
	return w, nil
}

// Record appends an accepted action and the digest of the state it led to.
func (w *Writer) Record(seq int, a game.Action, after *game.GameState) error {
	body, err := json.Marshal(a)
	if err != nil {
		return err
	}
	digest, err := Digest(after)
	if err != nil {
		return err
	}
	return w.writeLine(Entry{
		Kind:   kindAction,
		Seq:    seq,
		Type:   protocol.MessageType(a.Type()),
		Action: body,
		Digest: digest,
	})
}

func (w *Writer) writeLine(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

// Close flushes the stream and closes the file opened by Create.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_ = w.w.Flush()
	err := w.enc.Close()
	if w.f != nil {
		if cerr := w.f.Close(); err == nil {
			err = cerr
		}
		w.f = nil
	}
	return err
}

// Log is a decoded replay file.
type Log struct {
	Header  Header
	Entries []Entry
}

// Open reads a log file.
func Open(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a compressed log stream.
func Read(r io.Reader) (*Log, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	var log Log
	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			if err := json.Unmarshal(sc.Bytes(), &log.Header); err != nil {
				return nil, fmt.Errorf("%w: header: %v", ErrBadLog, err)
			}
			if log.Header.Kind != kindHeader {
				return nil, fmt.Errorf("%w: first line is %q", ErrBadLog, log.Header.Kind)
			}
			if log.Header.Version != Version {
				return nil, fmt.Errorf("%w: version %d", ErrBadLog, log.Header.Version)
			}
			continue
		}
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadLog, line, err)
		}
		if e.Kind != kindAction {
			return nil, fmt.Errorf("%w: line %d: kind %q", ErrBadLog, line, e.Kind)
		}
		log.Entries = append(log.Entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if line == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadLog)
	}
	return &log, nil
}

package lookup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf16"
	"unicode/utf8"
)

// Record event types; each gets its own file per day
const (
	EventSuccess = "success"
	EventFail    = "fail"
)

// Recorder appends one diagnostic record per API round trip
type Recorder interface {
	Record(event string, data any) error
}

// RequestRecord is the payload written for each round trip
type RequestRecord struct {
	Request  string       `json:"request"`
	Response string       `json:"response"`
	Info     *RequestInfo `json:"info,omitempty"`
}

// RequestInfo accompanies failed round trips
type RequestInfo struct {
	URL         string  `json:"url"`
	HTTPCode    int     `json:"http_code"`
	ContentType string  `json:"content_type,omitempty"`
	TotalTime   float64 `json:"total_time"`
	Error       string  `json:"error,omitempty"`
}

// FileRecorder writes lines of the form
//
//	15:04:05 {"request":"https:\/\/api...","response":"..."}
//
// to {dir}/{2006-01-02}_{event}.json, creating the file on first use.
// "/" is written as "\/" and non-ASCII as \uXXXX (UTF-16) so existing
// readers of these logs see the same bytes.
type FileRecorder struct {
	dir string
	now func() time.Time
}

func NewFileRecorder(dir string) *FileRecorder {
	return &FileRecorder{dir: dir, now: time.Now}
}

// Path returns the file an event recorded at t goes to
func (fr *FileRecorder) Path(event string, t time.Time) string {
	return filepath.Join(fr.dir, t.Format("2006-01-02")+"_"+event+".json")
}

func (fr *FileRecorder) Record(event string, data any) error {
	now := fr.now()

	var line bytes.Buffer
	enc := json.NewEncoder(&line)
	enc.SetEscapeHTML(false) // XML bodies stay readable
	if err := enc.Encode(data); err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(now.Format("15:04:05"))
	buf.WriteByte(' ')
	buf.Write(escapeLine(line.Bytes()))

	f, err := os.OpenFile(fr.Path(event, now), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

var _ Recorder = (*FileRecorder)(nil)

// escapeLine rewrites encoded JSON so "/" becomes "\/" and every non-ASCII
// rune becomes one or two lowercase \uXXXX escapes. Both only occur inside
// strings, so the result stays valid JSON.
func escapeLine(b []byte) []byte {
	out := make([]byte, 0, len(b)+len(b)/8)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		switch {
		case r == '/':
			out = append(out, '\\', '/')
		case r < utf8.RuneSelf:
			out = append(out, byte(r))
		default:
			for _, u := range utf16.Encode([]rune{r}) {
				out = fmt.Appendf(out, "\\u%04x", u)
			}
		}
		b = b[size:]
	}
	return out
}

package metrics

import (
	"bytes"
	"encoding/json"
	"time"
)

const ISOFormat = "2006-01-02T15:04:05.000Z"

// DigestInfo is one digestion outcome record emitted per processed
// file.
type DigestInfo struct {
	ReqTime  string        `json:"req_time"`
	Path     string        `json:"path"`
	Filesize int64         `json:"filesize"`
	DSType   string        `json:"dstype,omitempty"`
	Driver   string        `json:"driver,omitempty"`
	Duration time.Duration `json:"duration"`
	Status   string        `json:"status"`
	Error    string        `json:"error,omitempty"`
}

func NewDigestInfo(path string) *DigestInfo {
	return &DigestInfo{
		ReqTime: time.Now().UTC().Format(ISOFormat),
		Path:    path,
		Status:  "ok",
	}
}

func (i *DigestInfo) ToJSON() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(i); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Collector accumulates one DigestInfo and flushes it to a logger.
type Collector struct {
	Info   *DigestInfo
	logger Logger
	start  time.Time
}

func NewCollector(logger Logger, path string) *Collector {
	return &Collector{
		Info:   NewDigestInfo(path),
		logger: logger,
		start:  time.Now(),
	}
}

func (c *Collector) Log() {
	if c.logger == nil {
		return
	}
	c.Info.Duration = time.Since(c.start)
	c.logger.Log(c.Info)
}

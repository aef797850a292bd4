package executor

import (
	"bytes"

	"github.com/Cyclone1070/boxagent/internal/tool/helper/content"
)

// collector captures command output with size limits and binary content detection.
// Each collector is written by a single goroutine owned by os/exec.
type collector struct {
	buffer    bytes.Buffer
	maxBytes  int
	truncated bool
	isBinary  bool
	sniffed   int
}

func newCollector(maxBytes int) *collector {
	return &collector{maxBytes: maxBytes}
}

func (c *collector) Write(p []byte) (int, error) {
	if c.isBinary {
		return len(p), nil
	}

	if c.sniffed < content.SniffLen {
		sample := p[:min(len(p), content.SniffLen-c.sniffed)]
		if content.IsBinary(sample) {
			c.isBinary = true
			c.truncated = true
			return len(p), nil
		}
		c.sniffed += len(sample)
	}

	room := c.maxBytes - c.buffer.Len()
	if room <= 0 {
		c.truncated = true
		return len(p), nil
	}

	chunk := p
	if len(chunk) > room {
		chunk = chunk[:room]
		c.truncated = true
	}
	if _, err := c.buffer.Write(chunk); err != nil {
		return 0, err
	}

	// Report the full length so the child never sees a short write.
	return len(p), nil
}

func (c *collector) String() string {
	if c.isBinary {
		return "[Binary Content]"
	}
	return c.buffer.String()
}

func (c *collector) Truncated() bool {
	return c.truncated
}

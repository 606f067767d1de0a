package writer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultFlattenTimeout bounds a single external conversion call.
const DefaultFlattenTimeout = 120 * time.Second

// Flattener converts a standalone section document (wire-format JSON)
// into flattened text.
type Flattener interface {
	Flatten(ctx context.Context, doc []byte) ([]byte, error)
}

// Pandoc invokes the upstream conversion tool in reverse to flatten a
// section into markdown with a metadata block.
type Pandoc struct {
	// Command overrides the binary name; empty means "pandoc".
	Command string
	// Timeout bounds one invocation; zero means DefaultFlattenTimeout.
	Timeout time.Duration
}

// Flatten pipes doc through the converter. A nonzero exit code or an
// expired timeout is returned as an error; the caller treats it as fatal.
func (p *Pandoc) Flatten(ctx context.Context, doc []byte) ([]byte, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultFlattenTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	command := p.Command
	if command == "" {
		command = "pandoc"
	}

	cmd := exec.CommandContext(ctx, command,
		"--atx-headers",
		"--wrap=preserve",
		"--columns=999",
		"--standalone",
		"--from=json",
		"--to=markdown+yaml_metadata_block",
	)
	cmd.Stdin = bytes.NewReader(doc)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("writer: %s timed out after %s: %w", command, timeout, ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("writer: %s failed: %s", command, msg)
	}
	return stdout.Bytes(), nil
}

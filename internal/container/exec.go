package container

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// ArchivePlaceholder is replaced by the archive path in an ExecReader command
const ArchivePlaceholder = "{archive}"

// DefaultCommand lists pak entries with repak
var DefaultCommand = []string{"repak", "list", ArchivePlaceholder}

// ExecReader lists archive contents by running an external tool once per
// archive and reading one entry path per stdout line.
type ExecReader struct {
	command  []string
	log      *log.Logger
	archives []string
	mounted  bool
	entries  []string
}

// NewExecFactory returns a Factory building ExecReaders for command.
// The factory fails with ErrUnavailable when the tool is not on PATH.
func NewExecFactory(command []string, logger *log.Logger) Factory {
	if len(command) == 0 {
		command = DefaultCommand
	}
	return func() (Reader, error) {
		if _, err := exec.LookPath(command[0]); err != nil {
			return nil, fmt.Errorf("%w: %s not found", ErrUnavailable, command[0])
		}
		return &ExecReader{command: command, log: logger}, nil
	}
}

// Register queues an archive for listing
func (r *ExecReader) Register(archive string) error {
	if r.mounted {
		return errors.New("cannot register after mount")
	}
	r.archives = append(r.archives, archive)
	return nil
}

// Mount runs the listing tool for every registered archive
func (r *ExecReader) Mount(ctx context.Context) error {
	for _, archive := range r.archives {
		if err := ctx.Err(); err != nil {
			return err
		}

		args := make([]string, 0, len(r.command)-1)
		hasPlaceholder := false
		for _, a := range r.command[1:] {
			if strings.Contains(a, ArchivePlaceholder) {
				hasPlaceholder = true
				a = strings.ReplaceAll(a, ArchivePlaceholder, archive)
			}
			args = append(args, a)
		}
		if !hasPlaceholder {
			args = append(args, archive)
		}

		var stdout, stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, r.command[0], args...)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("list %s: %w: %s", archive, err, strings.TrimSpace(stderr.String()))
		}

		n := 0
		scanner := bufio.NewScanner(&stdout)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			r.entries = append(r.entries, line)
			n++
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read listing of %s: %w", archive, err)
		}

		if r.log != nil {
			r.log.Debug("Listed archive", "archive", archive, "entries", n)
		}
	}

	r.mounted = true
	return nil
}

// Packages returns every listed entry
func (r *ExecReader) Packages() ([]string, error) {
	if !r.mounted {
		return nil, ErrNotMounted
	}
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

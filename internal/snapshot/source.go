package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/sys/execabs"
)

const DefaultNetstatPath = "/usr/sbin/netstat"

// Source produces the text of a routing table snapshot
type Source interface {
	Snapshot(ctx context.Context) (string, error)
	Name() string
}

// NetstatSource runs the netstat utility and returns its standard output
type NetstatSource struct {
	Path string
	Args []string
}

// DefaultNetstat returns the source used by LoadFromNetstat
func DefaultNetstat() *NetstatSource {
	return &NetstatSource{Path: DefaultNetstatPath, Args: []string{"-rn"}}
}

func (s *NetstatSource) Name() string {
	return strings.TrimSpace(s.Path + " " + strings.Join(s.Args, " "))
}

func (s *NetstatSource) Snapshot(ctx context.Context) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := execabs.CommandContext(ctx, s.Path, s.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", &SourceError{Type: SourceErrTimeout, Path: s.Path, Cause: ctxErr}
		}
		var exitErr *execabs.ExitError
		if errors.As(err, &exitErr) {
			var cause error
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				cause = errors.New(msg)
			}
			return "", &SourceError{Type: SourceErrExitStatus, Path: s.Path, Status: exitErr.ExitCode(), Cause: cause}
		}
		return "", &SourceError{Type: SourceErrExec, Path: s.Path, Cause: err}
	}

	out := stdout.Bytes()
	if !utf8.Valid(out) {
		return "", &SourceError{Type: SourceErrEncoding, Path: s.Path}
	}
	return string(out), nil
}

// FileSource reads a saved snapshot from disk
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string {
	return "file:" + s.Path
}

func (s *FileSource) Snapshot(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", &SourceError{Type: SourceErrRead, Path: s.Path, Cause: err}
	}
	if !utf8.Valid(data) {
		return "", &SourceError{Type: SourceErrEncoding, Path: s.Path}
	}
	return string(data), nil
}

// StaticSource serves fixed text
type StaticSource struct {
	Label string
	Text  string
}

func (s *StaticSource) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

func (s *StaticSource) Snapshot(context.Context) (string, error) {
	return s.Text, nil
}

// NewSource picks a file source when file is set, otherwise netstat
func NewSource(file, netstatPath string, netstatArgs []string) (Source, error) {
	if file != "" {
		return &FileSource{Path: file}, nil
	}
	if netstatPath == "" {
		return nil, fmt.Errorf("no snapshot source configured")
	}
	return &NetstatSource{Path: netstatPath, Args: netstatArgs}, nil
}

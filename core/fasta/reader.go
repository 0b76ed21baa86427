// core/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Record is one parsed FASTA sequence.
type Record struct {
	ID  string
	Seq []byte
}

// ReadAll parses every record from path ("-" = stdin, .gz transparent).
func ReadAll(path string) ([]Record, error) {
	return ReadAllCtx(context.Background(), path)
}

// ReadAllCtx is the cancelable variant; ctx is checked between lines so a
// huge genome can be abandoned promptly.
func ReadAllCtx(ctx context.Context, path string) ([]Record, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parse(ctx, rc)
}

func parse(ctx context.Context, r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var (
		out []Record
		id  string
		seq = make([]byte, 0, 1<<20)
	)
	flush := func() {
		if id == "" && len(seq) == 0 {
			return
		}
		out = append(out, Record{ID: id, Seq: append([]byte(nil), seq...)})
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if id != "" || len(seq) > 0 {
				flush()
				seq = seq[:0]
			}
			id = parseHeaderID(line[1:])
			continue
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("fasta scan: %w", err)
	}
	flush()
	return out, nil
}

// parseHeaderID takes everything up to the first whitespace.
func parseHeaderID(h []byte) string {
	h = bytes.TrimSpace(h)
	if i := bytes.IndexAny(h, " \t"); i >= 0 {
		h = h[:i]
	}
	return string(h)
}

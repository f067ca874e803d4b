package logs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
)

// tailChunkSize is how much of the file each backwards read pulls in.
const tailChunkSize = 32 * 1024

// Tail returns up to limit trailing lines of the log file at path. A missing
// file yields no lines; a run that never logged is not an error.
func Tail(path string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path %q is a directory", path)
	}

	block, err := readTailBlock(file, info.Size(), limit)
	if err != nil {
		return nil, err
	}
	return lastLines(block, limit), nil
}

// readTailBlock reads backwards from the end of the file until the block
// holds more newlines than limit, or the whole file is in memory. Reading
// from the tail keeps large logs cheap to inspect.
func readTailBlock(file *os.File, size int64, limit int) ([]byte, error) {
	var block []byte
	offset := size
	for offset > 0 && bytes.Count(block, []byte{'\n'}) <= limit {
		step := int64(tailChunkSize)
		if step > offset {
			step = offset
		}
		offset -= step

		buf := make([]byte, step, step+int64(len(block)))
		if _, err := file.ReadAt(buf, offset); err != nil {
			return nil, fmt.Errorf("read log file: %w", err)
		}
		block = append(buf, block...)
	}
	return block, nil
}

func lastLines(block []byte, limit int) []string {
	trimmed := strings.TrimRight(string(block), "\n")
	if trimmed == "" {
		return nil
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

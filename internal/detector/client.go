package detector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"cleanplate/internal/page"
)

// Settings are the invocation knobs, mirroring the detector profile group.
type Settings struct {
	Command             string
	ModelPath           string
	ConfidenceThreshold float64
	TimeoutSeconds      int
}

// Detector defines the behaviour required by the detect phase.
type Detector interface {
	Detect(ctx context.Context, imagePath, cacheDir string) (*page.Data, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithOutputSink forwards the tool's output lines to the given function
// instead of the process stderr.
func WithOutputSink(sink func(string)) Option {
	return func(c *Client) {
		c.sink = sink
	}
}

// ErrMissingArtifacts reports that the command finished without leaving the
// expected files behind.
var ErrMissingArtifacts = errors.New("detector output incomplete")

// Client wraps the external detector command.
type Client struct {
	binary     string
	modelPath  string
	confidence float64
	timeout    time.Duration
	exec       Executor
	sink       func(string)
}

// New constructs a detector client.
func New(settings Settings, opts ...Option) (*Client, error) {
	binary := strings.TrimSpace(settings.Command)
	if binary == "" {
		return nil, errors.New("detector command required")
	}
	client := &Client{
		binary:     binary,
		modelPath:  strings.TrimSpace(settings.ModelPath),
		confidence: settings.ConfidenceThreshold,
		timeout:    time.Duration(settings.TimeoutSeconds) * time.Second,
		exec:       commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Detect runs the detector against one working copy.
//
// The command is expected to leave the page payload, the raw text mask, and
// the working image in the cache directory under the image's stem. Detect
// verifies all three exist and returns the parsed payload.
func (c *Client) Detect(ctx context.Context, imagePath, cacheDir string) (*page.Data, error) {
	if strings.TrimSpace(imagePath) == "" {
		return nil, errors.New("image path required")
	}
	if strings.TrimSpace(cacheDir) == "" {
		return nil, errors.New("cache directory required")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{"--image", imagePath, "--output-dir", cacheDir}
	if c.modelPath != "" {
		args = append(args, "--model", c.modelPath)
	}
	if c.confidence > 0 {
		args = append(args, "--confidence", strconv.FormatFloat(c.confidence, 'f', -1, 64))
	}

	if err := c.exec.Run(runCtx, c.binary, args, c.sink); err != nil {
		return nil, fmt.Errorf("run detector: %w", err)
	}

	payloadPath := PayloadPath(cacheDir, imagePath)
	for _, artifact := range []string{
		payloadPath,
		MaskPath(cacheDir, imagePath),
		WorkingPath(cacheDir, imagePath),
	} {
		if _, err := os.Stat(artifact); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(artifact), ErrMissingArtifacts)
		}
	}

	data, err := page.Load(payloadPath)
	if err != nil {
		return nil, fmt.Errorf("detector payload: %w", err)
	}
	return data, nil
}

// Stem is the cache artifact stem for a page image.
func Stem(imagePath string) string {
	base := filepath.Base(imagePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PayloadPath is where the detector leaves the page payload.
func PayloadPath(cacheDir, imagePath string) string {
	return filepath.Join(cacheDir, Stem(imagePath)+".json")
}

// MaskPath is where the detector leaves the raw text mask.
func MaskPath(cacheDir, imagePath string) string {
	return filepath.Join(cacheDir, Stem(imagePath)+"_mask.png")
}

// WorkingPath is where the detector leaves the working copy it analyzed.
func WorkingPath(cacheDir, imagePath string) string {
	return filepath.Join(cacheDir, Stem(imagePath)+".png")
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	forward := func(line string) {
		if onStdout != nil {
			onStdout(line)
			return
		}
		fmt.Fprintln(os.Stderr, line)
	}

	wg.Add(2)
	go scan(stdout, forward)
	go scan(stderr, forward)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}

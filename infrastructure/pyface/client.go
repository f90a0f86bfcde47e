package pyface

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	domainservices "face-attendance/domain/services"
	"face-attendance/pkg/logger"
)

// Client bridges to the external recognizer helper process. The helper is a
// script invoked as `<cmd> <script> <verb> <arg>` and answers with one JSON
// document on stdout; warnings on stdout are tolerated and filtered out.
type Client struct {
	scriptPath string
	timeout    time.Duration

	mu      sync.Mutex
	command string // resolved interpreter, cached after the first probe
	forced  bool   // command came from config, skip probing
}

// TrainSubject is one registry entry handed to the helper's train verb.
type TrainSubject struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	ImagePath  string `json:"imagePath"`
	LabelID    int    `json:"labelId"`
}

// TrainResult is the helper's answer to the train verb.
type TrainResult struct {
	Success      bool   `json:"success"`
	TrainedCount int    `json:"trainedCount"`
	Message      string `json:"message"`
}

// RecognizedFace is one face in the helper's recognize answer. Location is
// [top, right, bottom, left] in pixels.
type RecognizedFace struct {
	LabelID    int     `json:"labelId"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	Confidence float64 `json:"confidence"`
	Location   [4]int  `json:"location"`
}

// RecognizeResult is the helper's answer to the recognize verb.
type RecognizeResult struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Faces   []RecognizedFace `json:"faces"`
}

// candidate interpreter commands, probed in order
var probeCommands = []string{"python3", "python", "py"}

func NewClient(scriptPath, command string, timeout time.Duration) *Client {
	return &Client{
		scriptPath: scriptPath,
		timeout:    timeout,
		command:    command,
		forced:     command != "",
	}
}

// Available reports whether a working interpreter was found. The first
// successful probe is cached.
func (c *Client) Available() bool {
	_, err := c.resolveCommand()
	return err == nil
}

func (c *Client) resolveCommand() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.command != "" {
		if c.forced || c.versionOK(c.command) {
			return c.command, nil
		}
		c.command = ""
	}

	for _, cmd := range probeCommands {
		if c.versionOK(cmd) {
			logger.External("interpreter_found", "Found helper interpreter", map[string]interface{}{"command": cmd})
			c.command = cmd
			return cmd, nil
		}
	}

	return "", domainservices.ErrExternalUnavailable
}

func (c *Client) versionOK(command string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, command, "--version").Run() == nil
}

// Train hands the subject list to the helper as a temp JSON file and parses
// the JSON answer from stdout.
func (c *Client) Train(ctx context.Context, subjects []TrainSubject) (*TrainResult, error) {
	// Forward-slash paths so the helper works the same on every platform.
	for i := range subjects {
		subjects[i].ImagePath = strings.ReplaceAll(subjects[i].ImagePath, "\\", "/")
	}

	tmp, err := os.CreateTemp("", "students_*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create subjects file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	if err := enc.Encode(subjects); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write subjects file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close subjects file: %w", err)
	}

	stdout, err := c.run(ctx, "train", tmp.Name())
	if err != nil {
		return nil, err
	}

	var result TrainResult
	if err := json.Unmarshal(stdout, &result); err != nil {
		return nil, fmt.Errorf("%w: invalid train response: %v", domainservices.ErrExternalFailed, err)
	}
	return &result, nil
}

// Recognize identifies faces in a still image file.
func (c *Client) Recognize(ctx context.Context, imagePath string) (*RecognizeResult, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return nil, fmt.Errorf("image file not found: %s", imagePath)
	}

	stdout, err := c.run(ctx, "recognize", imagePath)
	if err != nil {
		return nil, err
	}

	var result RecognizeResult
	if err := json.Unmarshal(stdout, &result); err != nil {
		return nil, fmt.Errorf("%w: invalid recognize response: %v", domainservices.ErrExternalFailed, err)
	}
	return &result, nil
}

// run executes one helper verb with the configured deadline. Stdout and
// stderr are drained on independent goroutines so neither pipe can stall the
// process.
func (c *Client) run(ctx context.Context, verb, arg string) ([]byte, error) {
	command, err := c.resolveCommand()
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, command, c.scriptPath, verb, arg)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", domainservices.ErrExternalFailed, err)
	}

	var stdout, stderr strings.Builder
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdoutPipe)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			stdout.WriteString(scanner.Text())
			stdout.WriteByte('\n')
		}
	}()
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderrPipe)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			stderr.WriteString(line)
			stderr.WriteByte('\n')
			logger.Debug(logger.CategoryExternal, "helper_stderr", line, nil)
		}
	}()

	wg.Wait()
	err = cmd.Wait()

	if runCtx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%w: helper timed out after %s", domainservices.ErrExternalFailed, c.timeout)
	}
	if err != nil {
		logger.ExternalError("helper_failed", "Helper exited with error", err, map[string]interface{}{
			"verb":   verb,
			"stderr": stderr.String(),
		})
		return nil, fmt.Errorf("%w: %v", domainservices.ErrExternalFailed, err)
	}

	payload := ExtractJSON(stdout.String())
	if len(payload) == 0 {
		logger.ExternalError("helper_no_json", "No JSON in helper output", nil, map[string]interface{}{
			"stdout": stdout.String(),
			"stderr": stderr.String(),
		})
		return nil, fmt.Errorf("%w: helper produced no JSON", domainservices.ErrExternalFailed)
	}

	return payload, nil
}

// ExtractJSON keeps only the lines of the helper's stdout that look like a
// JSON document, tolerating warning chatter around them.
func ExtractJSON(output string) []byte {
	var b strings.Builder
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "{") || strings.HasPrefix(line, "[") {
			b.WriteString(line)
		}
	}
	return []byte(b.String())
}

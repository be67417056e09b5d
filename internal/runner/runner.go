// Package runner invokes the code generator as a subprocess and collects the
// files it produced.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// OutputResult lists the files produced under one output directory.
type OutputResult struct {
	OutputPath  string
	OutputFiles []string
}

// Result describes one completed generator run.
type Result struct {
	OutputResult
	ProcessOutput string
	Elapsed       time.Duration
}

// Request describes a single generator invocation.
type Request struct {
	Command    string   // generator executable
	Args       []string // arguments shared by both sides
	SideArgs   []string // arguments for this side only
	Language   string
	SpecPath   string
	OutputPath string
	Debug      bool
}

// BuildArgs returns the full argument list for the generator:
// shared args, side args, language selection, output folder, spec path.
func (r Request) BuildArgs() []string {
	args := make([]string, 0, len(r.Args)+len(r.SideArgs)+5)
	args = append(args, r.Args...)
	args = append(args, r.SideArgs...)
	args = append(args,
		"--"+r.Language,
		fmt.Sprintf("--%s.output-folder=%s", r.Language, r.OutputPath),
		fmt.Sprintf("--%s.clear-output-folder", r.Language),
		r.SpecPath,
	)
	if r.Debug {
		args = append(args, "--debug")
	}
	return args
}

// GeneratorProcessError reports a generator that exited with a non-zero code.
type GeneratorProcessError struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *GeneratorProcessError) Error() string {
	return fmt.Sprintf("%s exited with non-zero code %d:\n\n%s", e.Command, e.ExitCode, e.Output)
}

// Runner executes generator requests.
type Runner interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

type execRunner struct {
	collector *OutputCollector
}

// New returns a Runner that executes the generator with os/exec and
// enumerates its output with collector.
func New(collector *OutputCollector) Runner {
	return &execRunner{collector: collector}
}

// Run executes the generator and waits for it to exit. Output files are
// collected only after a successful exit.
func (r *execRunner) Run(ctx context.Context, req Request) (*Result, error) {
	args := req.BuildArgs()
	if req.Debug {
		log.Printf("*** Invoking %s with args: %s", req.Command, strings.Join(args, " "))
	}

	if err := os.MkdirAll(req.OutputPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, req.Command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	startTime := time.Now()
	err := cmd.Run()
	elapsed := time.Since(startTime)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output := stderr.String()
			if output == "" {
				output = stdout.String()
			}
			return nil, &GeneratorProcessError{
				Command:  req.Command,
				ExitCode: exitErr.ExitCode(),
				Output:   output,
			}
		}
		return nil, fmt.Errorf("failed to run %s: %w", req.Command, err)
	}

	output, err := r.collector.Collect(req.OutputPath)
	if err != nil {
		return nil, err
	}

	return &Result{
		OutputResult:  output,
		ProcessOutput: stdout.String(),
		Elapsed:       elapsed,
	}, nil
}

// RunPair runs the old and new requests concurrently and waits for both to
// finish. If either fails, the error is returned only after the other side
// has also completed; both errors are joined when both fail.
func RunPair(ctx context.Context, r Runner, oldReq, newReq Request) (oldResult, newResult *Result, err error) {
	p := pool.New().WithErrors()
	p.Go(func() error {
		res, err := r.Run(ctx, oldReq)
		if err != nil {
			return fmt.Errorf("old generator run: %w", err)
		}
		oldResult = res
		return nil
	})
	p.Go(func() error {
		res, err := r.Run(ctx, newReq)
		if err != nil {
			return fmt.Errorf("new generator run: %w", err)
		}
		newResult = res
		return nil
	})

	if err := p.Wait(); err != nil {
		return nil, nil, err
	}
	return oldResult, newResult, nil
}

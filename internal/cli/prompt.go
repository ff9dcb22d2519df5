package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/modfsm"
)

var binaryPattern = regexp.MustCompile(`^[01]+$`)

// ErrInputClosed is returned when the input ends before a value was read.
var ErrInputClosed = errors.New("input closed")

// Prompter asks for a modulus and a binary string, re-prompting until each
// answer is acceptable.
type Prompter struct {
	in      *bufio.Reader
	out     io.Writer
	maxLine int
}

// NewPrompter creates a Prompter reading lines from in and writing prompts
// to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, maxLine: DefaultMaxLineSize}
}

// WithMaxLineSize overrides the size limit applied to each answer.
func (p *Prompter) WithMaxLineSize(limit int) *Prompter {
	p.maxLine = limit
	return p
}

func (p *Prompter) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("input error: %w", err)
		}
		if line == "" {
			return "", ErrInputClosed
		}
	}
	clean, err := SanitizeLine(line, p.maxLine)
	if err != nil {
		return "", fmt.Errorf("input error: %w", err)
	}
	return strings.TrimSpace(clean), nil
}

// rejected reports whether err is a malformed answer worth asking again
// for, and tells the user so.
func (p *Prompter) rejected(err error) bool {
	switch {
	case errors.Is(err, ErrLineTooLarge):
		fmt.Fprintln(p.out, "The answer is too long, try again.")
	case errors.Is(err, ErrInvalidUTF8):
		fmt.Fprintln(p.out, "The answer is not valid text, try again.")
	default:
		return false
	}
	return true
}

// Modulus reads an integer greater than 1.
func (p *Prompter) Modulus() (int, error) {
	for {
		line, err := p.readLine("Enter the modulus (an integer greater than 1): ")
		if p.rejected(err) {
			continue
		}
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(p.out, "%q is not an integer, try again.\n", line)
			continue
		}
		if n <= 1 {
			fmt.Fprintln(p.out, "The modulus must be greater than 1, try again.")
			continue
		}
		return n, nil
	}
}

// Binary reads a non-empty string of 0s and 1s.
func (p *Prompter) Binary() (string, error) {
	for {
		line, err := p.readLine("Enter a binary string: ")
		if p.rejected(err) {
			continue
		}
		if err != nil {
			return "", err
		}
		if line == "" {
			fmt.Fprintln(p.out, "The binary string must not be empty, try again.")
			continue
		}
		if !binaryPattern.MatchString(line) {
			fmt.Fprintln(p.out, "Only the characters 0 and 1 are allowed, try again.")
			continue
		}
		return line, nil
	}
}

// FormatResult is the line printed for a successful evaluation.
func FormatResult(input string, modulus, remainder int) string {
	return fmt.Sprintf("The remainder of binary '%s' modulo %d is: %d", input, modulus, remainder)
}

// Interactive runs one prompt/evaluate cycle and returns the process exit
// code: 0 on success or when the input is closed, 1 on any engine failure.
func Interactive(ctx context.Context, eng *modfsm.Engine, p *Prompter, errOut io.Writer) int {
	modulus, err := p.Modulus()
	if err != nil {
		return handlePromptError(err, errOut)
	}
	input, err := p.Binary()
	if err != nil {
		return handlePromptError(err, errOut)
	}

	rem, err := eng.ModulusOf(ctx, modulus, input)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(p.out, FormatResult(input, modulus, rem))
	return 0
}

func handlePromptError(err error, errOut io.Writer) int {
	if errors.Is(err, ErrInputClosed) {
		fmt.Fprintln(errOut, "Bye!")
		return 0
	}
	fmt.Fprintf(errOut, "Error: %v\n", err)
	return 1
}

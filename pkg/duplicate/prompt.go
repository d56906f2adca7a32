package duplicate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sdejongh/downsort/pkg/models"
)

// PromptProvider asks the operator through a line-oriented terminal
// dialog. Unrecognized menu input re-prompts without limit.
type PromptProvider struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptProvider creates a prompt reading answers from in and writing
// menus to out
func NewPromptProvider(in io.Reader, out io.Writer) *PromptProvider {
	return &PromptProvider{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Decide shows the duplicate menu and waits for a valid choice
func (p *PromptProvider) Decide(ctx context.Context, c *Collision) (models.Decision, error) {
	fmt.Fprintf(p.out, "\nDuplicate file detected:\n")
	fmt.Fprintf(p.out, "  File:        %s\n", c.Candidate.Name)
	fmt.Fprintf(p.out, "  Destination: %s/\n", filepath.ToSlash(filepath.Dir(c.Destination)))
	if c.Compared {
		if c.Identical {
			fmt.Fprintf(p.out, "  The existing file has identical content\n")
		} else {
			fmt.Fprintf(p.out, "  The existing file has different content\n")
		}
	} else {
		fmt.Fprintf(p.out, "  A file with the same name already exists\n")
	}

	fmt.Fprintf(p.out, "\nWhat do you want to do?\n")
	fmt.Fprintf(p.out, "  1. Rename automatically (add version)\n")
	fmt.Fprintf(p.out, "  2. Overwrite the existing file\n")
	fmt.Fprintf(p.out, "  3. Skip this file\n")

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fmt.Fprintf(p.out, "Select an option (1-3): ")
		answer, err := p.readLine()
		if err != nil {
			return "", fmt.Errorf("failed to read duplicate decision: %w", err)
		}

		switch answer {
		case "1":
			return models.DecisionRename, nil
		case "2":
			return models.DecisionOverwrite, nil
		case "3":
			return models.DecisionSkip, nil
		default:
			fmt.Fprintf(p.out, "Invalid option. Please choose 1, 2 or 3\n")
		}
	}
}

// ConfirmOverwrite asks a yes/no question; anything but yes declines
func (p *PromptProvider) ConfirmOverwrite(ctx context.Context, c *Collision) (bool, error) {
	fmt.Fprintf(p.out, "Are you sure you want to overwrite %s? (y/n): ", filepath.ToSlash(c.Destination))
	answer, err := p.readLine()
	if err != nil {
		return false, fmt.Errorf("failed to read overwrite confirmation: %w", err)
	}
	return IsYes(answer), nil
}

// Confirm asks an arbitrary yes/no question
func (p *PromptProvider) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s (y/n): ", question)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	return IsYes(answer), nil
}

func (p *PromptProvider) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// IsYes reports whether an answer means yes
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "s", "si", "sí":
		return true
	default:
		return false
	}
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gmendes/orca/internal/model"
	"github.com/gmendes/orca/internal/review"
	"github.com/gmendes/orca/internal/service"
	"github.com/schollz/progressbar/v3"
)

// Prompter implements the interactive prompting interface for the review
// queue using plain line-oriented input.
type Prompter struct {
	writer      io.Writer
	reader      *bufio.Reader
	progressBar *progressbar.ProgressBar
}

// NewPrompter creates a prompter on the given reader and writer. Nil values
// default to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// ResolveMatch presents one candidate against its near-duplicate and waits
// for the user's decision.
func (p *Prompter) ResolveMatch(ctx context.Context, prompt review.MatchPrompt) (review.Resolution, error) {
	select {
	case <-ctx.Done():
		return review.ResolutionCancel, ctx.Err()
	default:
	}

	p.updateProgress(prompt.Position, prompt.Total)

	content := p.formatMatch(prompt)
	fmt.Fprintln(p.writer, RenderBox(fmt.Sprintf("Possible duplicate (%d of %d)", prompt.Position, prompt.Total), content))

	fmt.Fprintln(p.writer, "  [M] Merge into existing record")
	fmt.Fprintln(p.writer, "  [N] Add as a new record")
	fmt.Fprintln(p.writer, "  [C] Cancel the whole import")
	fmt.Fprintln(p.writer)

	choice, err := p.promptChoice(ctx, "Choice", []string{"m", "n", "c"})
	if err != nil {
		return review.ResolutionCancel, err
	}

	switch choice {
	case "m":
		return review.ResolutionMerge, nil
	case "n":
		return review.ResolutionNew, nil
	default:
		return review.ResolutionCancel, nil
	}
}

// ReviewStaging lets the user correct staged records before commit: edit a
// field by hand, send one record back through the revision call, commit, or
// abort. Returns false when the user aborts.
func (p *Prompter) ReviewStaging(ctx context.Context, staging *review.Staging, reviser review.Reviser) (bool, error) {
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		p.printStaging(staging)
		fmt.Fprintln(p.writer, "  [K] Commit all")
		fmt.Fprintln(p.writer, "  [E <n>] Edit record n")
		fmt.Fprintln(p.writer, "  [R <n>] Revise record n with an instruction")
		fmt.Fprintln(p.writer, "  [A] Abort without committing")
		fmt.Fprintln(p.writer)

		fmt.Fprint(p.writer, FormatPrompt("Action"))
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		fields := strings.Fields(strings.ToLower(line))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "k":
			return true, nil
		case "a":
			return false, nil
		case "e", "r":
			if len(fields) < 2 {
				fmt.Fprintln(p.writer, FormatWarning("give a record number, e.g. 'e 2'"))
				continue
			}
			idx, convErr := strconv.Atoi(fields[1])
			if convErr != nil || idx < 1 || idx > staging.Len() {
				fmt.Fprintln(p.writer, FormatWarning("no such record"))
				continue
			}
			item := staging.Items()[idx-1]
			if fields[0] == "e" {
				if err := p.editRecord(staging, item); err != nil {
					return false, err
				}
			} else {
				if err := p.reviseRecord(ctx, staging, item, reviser); err != nil {
					return false, err
				}
			}
		default:
			fmt.Fprintln(p.writer, FormatWarning("unknown action"))
		}
	}
}

// editRecord walks the user through overriding individual fields. Empty
// input keeps the current value.
func (p *Prompter) editRecord(staging *review.Staging, item review.StagedRecord) error {
	candidate := item.Candidate

	fmt.Fprintf(p.writer, "Name [%s]: ", candidate.Name)
	if line, err := p.readLine(); err != nil {
		return err
	} else if line != "" {
		candidate.Name = line
	}

	fmt.Fprintf(p.writer, "Unit [%s]: ", candidate.Unit)
	if line, err := p.readLine(); err != nil {
		return err
	} else if line != "" {
		candidate.Unit = line
	}

	fmt.Fprintf(p.writer, "Value [%.4f]: ", candidate.ValueOrZero())
	if line, err := p.readLine(); err != nil {
		return err
	} else if line != "" {
		value, convErr := strconv.ParseFloat(strings.ReplaceAll(line, ",", "."), 64)
		if convErr != nil {
			fmt.Fprintln(p.writer, FormatWarning("not a number, keeping current value"))
		} else {
			candidate.Value = &value
		}
	}

	fmt.Fprintf(p.writer, "Notes [%s]: ", candidate.Notes)
	if line, err := p.readLine(); err != nil {
		return err
	} else if line != "" {
		candidate.Notes = line
	}

	return staging.Replace(item.Candidate.TempID, candidate)
}

// reviseRecord asks for a correction instruction and runs the revision call.
func (p *Prompter) reviseRecord(ctx context.Context, staging *review.Staging, item review.StagedRecord, reviser review.Reviser) error {
	if reviser == nil {
		fmt.Fprintln(p.writer, FormatWarning("revision is not available"))
		return nil
	}

	fmt.Fprint(p.writer, FormatPrompt("Instruction"))
	instruction, err := p.readLine()
	if err != nil {
		return err
	}
	if instruction == "" {
		return nil
	}

	revised, err := reviser.Revise(ctx, item.Candidate, instruction)
	if err != nil {
		fmt.Fprintln(p.writer, FormatError(fmt.Sprintf("revision failed: %v", err)))
		return nil
	}

	if err := staging.Replace(item.Candidate.TempID, revised); err != nil {
		return err
	}
	fmt.Fprintln(p.writer, FormatSuccess(fmt.Sprintf("record revised: %s (%s) %.4f", revised.Name, revised.Unit, revised.ValueOrZero())))
	return nil
}

// ShowNotice prints a transient informational message.
func (p *Prompter) ShowNotice(message string) {
	fmt.Fprintln(p.writer, FormatInfo(message))
}

// ShowError prints a user-facing error message.
func (p *Prompter) ShowError(message string) {
	fmt.Fprintln(p.writer, FormatError(message))
}

// ShowSummary prints the outcome of a committed batch.
func (p *Prompter) ShowSummary(stats service.ImportStats) {
	fmt.Fprintln(p.writer)
	fmt.Fprintln(p.writer, FormatSuccess(fmt.Sprintf(
		"import complete: %d added, %d updated", stats.Added, stats.Updated)))
	if stats.SkippedInvalid > 0 {
		fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("%d record(s) skipped for missing name", stats.SkippedInvalid)))
	}
	if stats.DroppedUpdates > 0 {
		fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("%d update(s) dropped: target no longer exists", stats.DroppedUpdates)))
	}
	if stats.WriteFailures > 0 {
		fmt.Fprintln(p.writer, FormatError(fmt.Sprintf("%d record(s) failed to persist", stats.WriteFailures)))
	}
	fmt.Fprintln(p.writer, SubtleStyle.Render(fmt.Sprintf(
		"  %d parsed, %d auto-resolved, %d reviewed, took %s",
		stats.Parsed, stats.AutoResolved, stats.UserResolved, stats.Duration.Round(time.Millisecond))))
}

func (p *Prompter) formatMatch(prompt review.MatchPrompt) string {
	var sb strings.Builder
	sb.WriteString("New record:\n")
	fmt.Fprintf(&sb, "  %s  (%s)  %.4f\n", prompt.Candidate.Name, prompt.Candidate.Unit, prompt.Candidate.ValueOrZero())
	if prompt.Candidate.Notes != "" {
		fmt.Fprintf(&sb, "  %s\n", SubtleStyle.Render(prompt.Candidate.Notes))
	}
	sb.WriteString("\nExisting record:\n")
	fmt.Fprintf(&sb, "  %s  (%s)  %.4f\n", prompt.Existing.Name, prompt.Existing.Unit, prompt.Existing.Value)
	fmt.Fprintf(&sb, "\nSimilarity: %s\n", WarningStyle.Render(fmt.Sprintf("%d/100", prompt.Match.Score)))
	if prompt.Match.Rationale != "" {
		fmt.Fprintf(&sb, "%s\n", SubtleStyle.Render(prompt.Match.Rationale))
	}
	return sb.String()
}

func (p *Prompter) printStaging(staging *review.Staging) {
	var sb strings.Builder
	for i, item := range staging.Items() {
		action := "new"
		if item.Decision.Kind == model.DecisionUpdate {
			action = "update " + item.Decision.TargetID
		}
		fmt.Fprintf(&sb, "%2d. %-40s %-10s %10.4f  %s\n",
			i+1, item.Candidate.Name, item.Candidate.Unit, item.Candidate.ValueOrZero(), SubtleStyle.Render(action))
	}
	fmt.Fprintln(p.writer, RenderBox(fmt.Sprintf("Staged records (%d)", staging.Len()), sb.String()))
}

func (p *Prompter) promptChoice(ctx context.Context, label string, valid []string) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		fmt.Fprint(p.writer, FormatPrompt(label))
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		choice := strings.ToLower(strings.TrimSpace(line))
		for _, v := range valid {
			if choice == v {
				return choice, nil
			}
		}
		fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("please answer one of: %s", strings.Join(valid, ", "))))
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) updateProgress(position, total int) {
	if total <= 1 {
		return
	}
	if p.progressBar == nil {
		p.progressBar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionSetDescription("reviewing matches"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.progressBar.Set(position - 1)
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/retain/internal/journal"
)

// ReviewSession walks the user through today's due entries one at a time.
type ReviewSession struct {
	service *journal.Service
	queue   []journal.Entry

	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	green        *color.Color
	red          *color.Color
}

// NewReviewSession creates a session over the entries due on the given day.
func NewReviewSession(service *journal.Service, today time.Time) *ReviewSession {
	return &ReviewSession{
		service:      service,
		queue:        service.DueEntries(today),
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		green:        color.New(color.FgGreen),
		red:          color.New(color.FgRed),
	}
}

// Remaining returns the number of entries left in the session.
func (s *ReviewSession) Remaining() int {
	return len(s.queue)
}

// Session reviews the next due entry: show the content, reveal the context,
// then record the user's difficulty and optional self-quiz note.
func (s *ReviewSession) Session(ctx context.Context) error {
	if len(s.queue) == 0 {
		fmt.Fprintln(s.stdoutWriter, "No more entries to review!")
		return errEnd
	}
	entry := s.queue[0]

	fmt.Fprintf(s.stdoutWriter, "\n%s", entry.Label())
	if len(entry.Tags) > 0 {
		fmt.Fprintf(s.stdoutWriter, "  [%s]", strings.Join(entry.Tags, ", "))
	}
	fmt.Fprintln(s.stdoutWriter)
	_, _ = s.bold.Fprintln(s.stdoutWriter, entry.Content)

	if entry.Context != "" {
		fmt.Fprint(s.stdoutWriter, "Press Enter to show the context...")
		if _, err := s.stdinReader.ReadString('\n'); err != nil {
			return fmt.Errorf("error reading input: %w", err)
		}
		_, _ = s.italic.Fprintln(s.stdoutWriter, entry.Context)
	}

	difficulty, err := s.askDifficulty()
	if err != nil {
		return err
	}
	switch difficulty {
	case "skip":
		s.queue = s.queue[1:]
		return nil
	case "quit":
		return errEnd
	}

	question, answer, err := s.askSelfQuiz()
	if err != nil {
		return err
	}

	req := journal.CompleteReviewRequest{Difficulty: journal.Difficulty(difficulty)}
	if question != "" {
		req.Questions = []string{question}
		req.Answers = []string{answer}
	}

	updated, err := s.service.CompleteReview(ctx, entry.ID, req)
	if err != nil {
		return fmt.Errorf("service.CompleteReview(%s) > %w", entry.ID, err)
	}
	s.queue = s.queue[1:]

	ladder := s.service.Ladder()
	_, _ = s.green.Fprintf(s.stdoutWriter,
		"Recorded. Step %d of %d, next threshold %d days after creation.\n",
		updated.Step, ladder.MaxStep(), ladder.Threshold(updated.Step),
	)
	return nil
}

// askDifficulty reads a difficulty choice, or "skip"/"quit".
func (s *ReviewSession) askDifficulty() (string, error) {
	for {
		fmt.Fprint(s.stdoutWriter, "How hard was this? [e]asy / [m]edium / [h]ard / [s]kip / [q]uit: ")
		input, err := s.stdinReader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("error reading input: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(input)) {
		case "e", "easy":
			return string(journal.DifficultyEasy), nil
		case "m", "medium":
			return string(journal.DifficultyMedium), nil
		case "h", "hard":
			return string(journal.DifficultyHard), nil
		case "s", "skip":
			return "skip", nil
		case "q", "quit":
			return "quit", nil
		}
		_, _ = s.red.Fprintln(s.stdoutWriter, "Please answer e, m, h, s or q.")
	}
}

// askSelfQuiz optionally records one question/answer pair with the review.
func (s *ReviewSession) askSelfQuiz() (string, string, error) {
	fmt.Fprint(s.stdoutWriter, "Self-quiz question (Enter to skip): ")
	question, err := s.stdinReader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("error reading input: %w", err)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", "", nil
	}

	fmt.Fprint(s.stdoutWriter, "Your answer: ")
	answer, err := s.stdinReader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("error reading input: %w", err)
	}
	return question, strings.TrimSpace(answer), nil
}

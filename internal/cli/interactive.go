// Package cli provides the interactive review session.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

// errEnd signals that the session loop finished normally.
var errEnd = errors.New("end of session")

//go:generate mockgen -source=interactive.go -destination=../mocks/cli/mock_session.go -package=mock_cli Session

// Session is one round of an interactive loop.
type Session interface {
	Session(ctx context.Context) error
}

// Run drives the session loop until the session ends, fails, or the user
// interrupts.
func Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Println("Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	if a.profile == nil {
		return ""
	}
	return fmt.Sprintf(" (%s)", a.profile.Email)
}

// Root resumes a stored session if there is one and then runs the REPL.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to localauth (type 'help' for commands)")

	if p, ok := a.authService.Restore(ctx); ok {
		a.profile = &p
		printlnFn(fmt.Sprintf("Welcome back, %s!", p.DisplayName()))
	} else {
		printlnFn("No active session. Use 'login' or 'signup'.")
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

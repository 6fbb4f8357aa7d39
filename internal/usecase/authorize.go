package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// authorizeClub consults the external authorization collaborator and fails
// closed: an unreachable collaborator denies the request.
func authorizeClub(ctx context.Context, authorizer Authorizer, logger *slog.Logger, actorID, clubID string) error {
	if authorizer == nil {
		return fmt.Errorf("%w: no authorizer configured", ErrUnauthorized)
	}
	if logger == nil {
		logger = slog.Default()
	}

	allowed, err := authorizer.CanManageClub(ctx, strings.TrimSpace(actorID), clubID)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return err
		}
		logger.WarnContext(ctx, "authorization check failed", "club_id", clubID, "error", err)
		return fmt.Errorf("%w: authorization check failed", ErrDependencyUnavailable)
	}
	if !allowed {
		return fmt.Errorf("%w: not allowed to manage club %s", ErrUnauthorized, clubID)
	}

	return nil
}

// authorizeAnyClub allows actors who manage at least one of the given clubs.
// Match-level mutations use it; side-scoped mutations authorize against the
// acting side's club directly. A collaborator failure still denies.
func authorizeAnyClub(ctx context.Context, authorizer Authorizer, logger *slog.Logger, actorID string, clubIDs ...string) error {
	var last error
	for _, clubID := range clubIDs {
		err := authorizeClub(ctx, authorizer, logger, actorID, clubID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrUnauthorized) {
			return err
		}
		last = err
	}
	if last == nil {
		return fmt.Errorf("%w: no club to authorize against", ErrUnauthorized)
	}

	return last
}

package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

// Syncer applies lifecycle events to the local user table.
type Syncer struct {
	users  repository.UserRepo
	logger *slog.Logger
}

func NewSyncer(users repository.UserRepo, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{users: users, logger: logger}
}

// Apply reports whether the event type was recognised. Every field is
// rewritten on update; an update for an unknown user matches nothing and
// creates no row. A repeated created event fails on the primary key.
func (s *Syncer) Apply(ctx context.Context, ev *Event) (bool, error) {
	log := s.logger.With(slog.String("event", ev.Type), slog.String("user_id", ev.Data.ID))

	switch ev.Type {
	case EventUserCreated:
		u := userFromEvent(ev.Data)
		if err := s.users.CreateUser(ctx, u); err != nil {
			return true, fmt.Errorf("create user %s: %w", u.ID, err)
		}
		log.Info("identity: user created")

	case EventUserUpdated:
		if err := s.users.UpdateUser(ctx, userFromEvent(ev.Data)); err != nil {
			return true, fmt.Errorf("update user %s: %w", ev.Data.ID, err)
		}
		log.Info("identity: user updated")

	case EventUserDeleted:
		if err := s.users.DeleteUser(ctx, ev.Data.ID); err != nil {
			return true, fmt.Errorf("delete user %s: %w", ev.Data.ID, err)
		}
		log.Info("identity: user deleted")

	default:
		log.Info("identity: unhandled event type")
		return false, nil
	}

	return true, nil
}

func userFromEvent(d UserData) *models.User {
	return &models.User{
		ID:    d.ID,
		Name:  d.DisplayName(),
		Email: d.PrimaryEmail(),
		Image: d.ImageURL,
	}
}

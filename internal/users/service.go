package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	internal "github.com/frahmantamala/user-backoffice/internal"
	userDatamodel "github.com/frahmantamala/user-backoffice/internal/core/datamodel/user"
	"github.com/frahmantamala/user-backoffice/internal/core/events"
	"github.com/frahmantamala/user-backoffice/internal/mailer"
	"github.com/frahmantamala/user-backoffice/internal/passwords"
	"github.com/frahmantamala/user-backoffice/internal/tokens"
)

// Repository persists account rows. Create and Update run the uniqueness
// pre-check and the write inside one transaction and report ErrDuplicate on
// a (username, email) collision with another row.
type Repository interface {
	GetAll() ([]*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
	Delete(id int64) error
	UpdatePassword(id int64, passwordHash string) error
}

// TokenIssuer issues and verifies the short-lived reset assertions.
type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
	Verify(tokenString string) (*tokens.ResetClaims, error)
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) bool
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo    Repository
	hasher  PasswordHasher
	tokens  TokenIssuer
	mailer  mailer.Mailer
	bus     EventPublisher
	baseURL string
	logger  *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, issuer TokenIssuer, m mailer.Mailer, bus EventPublisher, baseURL string, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		hasher:  hasher,
		tokens:  issuer,
		mailer:  m,
		bus:     bus,
		baseURL: baseURL,
		logger:  logger,
	}
}

var (
	errMissingToken  = internal.NewValidationError("reset token is missing", internal.ErrCodeInvalidToken)
	errMissingFields = internal.NewValidationError("password and confirmation are required", internal.ErrCodeValidationFailed)
)

func (s *Service) resetLink(token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, url.QueryEscape(token))
}

// List returns every account with its role and major references.
func (s *Service) List() ([]ListItem, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	items := make([]ListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, toListItem(row))
	}
	return items, nil
}

// Create validates input, rejects username/email collisions, persists the
// account with a generated password, and fires the best-effort side effects:
// a password-setup mail and an actor-gated audit event. A mail failure is
// logged, never surfaced; the account stays created.
func (s *Service) Create(ctx context.Context, dto *CreateUserDTO, actor *internal.Actor) (*Summary, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	plaintext, err := passwords.Generate()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate password", err)
	}
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	row := &userDatamodel.User{
		Username:     dto.Username,
		Fullname:     dto.Fullname,
		Email:        dto.Email,
		PasswordHash: hash,
		RoleID:       dto.RoleID,
		MajorID:      dto.MajorID,
		IsActive:     dto.Active(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(row); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, internal.ErrDuplicateUser
		}
		s.logger.Error("failed to create user", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	token, err := s.tokens.Issue(row.ID, row.Email)
	if err != nil {
		// The account exists; a broken setup link is recoverable through the
		// admin-triggered reset flow.
		s.logger.Error("failed to issue setup token", "user_id", row.ID, "error", err)
	} else {
		link := s.resetLink(token)
		go func() {
			if err := s.mailer.Send(row.Email, mailer.TemplatePasswordSetup, mailer.MailData{
				Fullname: row.Fullname,
				ResetURL: link,
			}); err != nil {
				s.logger.Error("password setup mail failed", "user_id", row.ID, "error", err)
			}
		}()
	}

	actorID, actorUsername := actorFields(actor)
	s.bus.Publish(ctx, events.NewUserCreatedEvent(row.ID, row.Email, actorID, actorUsername))

	return toSummary(row), nil
}

// Update overwrites the full mutable field set of an existing account. The
// uniqueness scan excludes the target row; an omitted is_active keeps the
// stored flag.
func (s *Service) Update(ctx context.Context, id int64, dto *UpdateUserDTO, actor *internal.Actor) (*Summary, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrUserNotFound
		}
		s.logger.Error("failed to load user", "user_id", id, "error", err)
		return nil, internal.NewInternalError("failed to load user", err)
	}

	row.Username = dto.Username
	row.Fullname = dto.Fullname
	row.Email = dto.Email
	row.RoleID = dto.RoleID
	row.MajorID = dto.MajorID
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	row.UpdatedAt = time.Now()

	if err := s.repo.Update(row); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, internal.ErrDuplicateUser
		}
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	actorID, actorUsername := actorFields(actor)
	s.bus.Publish(ctx, events.NewUserUpdatedEvent(row.ID, row.Username, actorID, actorUsername))

	return toSummary(row), nil
}

// Delete hard-deletes an account. Deleting the requesting actor's own
// account is rejected.
func (s *Service) Delete(ctx context.Context, id int64, actor *internal.Actor) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrUserNotFound
		}
		s.logger.Error("failed to load user", "user_id", id, "error", err)
		return internal.NewInternalError("failed to load user", err)
	}

	if actor != nil && actor.ID == row.ID {
		return internal.ErrSelfDelete
	}

	if err := s.repo.Delete(row.ID); err != nil {
		s.logger.Error("failed to delete user", "user_id", id, "error", err)
		return internal.NewInternalError("failed to delete user", err)
	}

	actorID, actorUsername := actorFields(actor)
	s.bus.Publish(ctx, events.NewUserDeletedEvent(row.ID, row.Username, actorID, actorUsername))

	return nil
}

// SendResetPassword issues a fresh assertion and sends the reset mail
// synchronously. This is the one flow where a mail failure is surfaced to
// the caller.
func (s *Service) SendResetPassword(ctx context.Context, id int64, actor *internal.Actor) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrUserNotFound
		}
		s.logger.Error("failed to load user", "user_id", id, "error", err)
		return internal.NewInternalError("failed to load user", err)
	}

	token, err := s.tokens.Issue(row.ID, row.Email)
	if err != nil {
		s.logger.Error("failed to issue reset token", "user_id", id, "error", err)
		return internal.NewInternalError("failed to issue reset token", err)
	}

	if err := s.mailer.Send(row.Email, mailer.TemplatePasswordReset, mailer.MailData{
		Fullname: row.Fullname,
		ResetURL: s.resetLink(token),
	}); err != nil {
		s.logger.Error("reset mail failed", "user_id", id, "error", err)
		return internal.ErrMailSendFailed
	}

	actorID, actorUsername := actorFields(actor)
	s.bus.Publish(ctx, events.NewResetMailRequestedEvent(row.ID, row.Username, actorID, actorUsername))

	return nil
}

// ResetPassword runs the redemption pipeline over a submitted form and
// returns the first failing check as a typed error. The checks run in a
// fixed order: missing token, missing fields, token verification, subject
// lookup, confirmation mismatch, minimum length. Success persists the new
// hash and always emits the audit event with the subject as actor.
func (s *Service) ResetPassword(ctx context.Context, form ResetPasswordForm) error {
	if form.Token == "" {
		return errMissingToken
	}
	if form.Password == "" || form.ConfirmPassword == "" {
		return errMissingFields
	}

	claims, err := s.tokens.Verify(form.Token)
	if err != nil {
		if errors.Is(err, tokens.ErrTokenExpired) {
			return internal.ErrTokenExpired
		}
		return internal.ErrInvalidToken
	}

	row, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrUserNotFound
		}
		s.logger.Error("failed to load user", "user_id", claims.UserID, "error", err)
		return internal.NewInternalError("failed to load user", err)
	}

	if form.Password != form.ConfirmPassword {
		return internal.ErrPasswordMismatch
	}
	if len(form.Password) < 6 {
		return internal.ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(form.Password)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	if err := s.repo.UpdatePassword(row.ID, hash); err != nil {
		s.logger.Error("failed to persist new password", "user_id", row.ID, "error", err)
		return internal.NewInternalError("failed to update password", err)
	}

	s.bus.Publish(ctx, events.NewPasswordResetEvent(row.ID, row.Email))

	return nil
}

func actorFields(actor *internal.Actor) (int64, string) {
	if actor == nil {
		return 0, ""
	}
	return actor.ID, actor.Username
}

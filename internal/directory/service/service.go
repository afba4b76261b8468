// Package service implements the uniqueness-checked directory coordinator.
// It owns create/read/update/replace/delete for user records, enforces the
// email-uniqueness invariant, and maps store outcomes onto the domain error
// taxonomy. On create it also fans out the broadcast event and starts the
// detached welcome-email task; neither may block or fail the response.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"userdir/internal/directory/models"
	"userdir/internal/docstore"
	"userdir/internal/events"
	"userdir/internal/faultlog"
	"userdir/internal/platform/metrics"
	dErrors "userdir/pkg/errors"
	"userdir/pkg/platform/sentinel"
)

// Collection is where user records live in the document store.
const Collection = "users"

// Publisher is the slice of the broadcast channel the coordinator needs.
type Publisher interface {
	Publish(evt events.Event)
}

// WelcomeMailer starts the detached side-effect task for a new record.
type WelcomeMailer interface {
	Go(userEmail, userName string)
}

// Service coordinates user CRUD against the document store.
//
// The uniqueness check is read-then-write without cross-request mutual
// exclusion: two concurrent creates for the same email can both pass the
// check before either writes. Serial callers always see exactly one success
// and one conflict.
type Service struct {
	store     docstore.Store
	publisher Publisher
	mailer    WelcomeMailer
	faults    faultlog.Sink
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Service)

// WithMetrics wires operation counters; nil metrics are safe.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store docstore.Store, publisher Publisher, mailer WelcomeMailer, faults faultlog.Sink, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: publisher,
		mailer:    mailer,
		faults:    faults,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the input, enforces email uniqueness, and writes the new
// record. On success it broadcasts userCreated and starts the welcome-email
// task before returning; both are fire-and-forget.
func (s *Service) Create(ctx context.Context, input models.CreateUserInput) (models.User, error) {
	if err := input.Validate(); err != nil {
		return models.User{}, err
	}
	role := input.Role
	if role == "" {
		role = models.DefaultRole
	}

	existing, err := s.store.Query(ctx, Collection, "email", input.Email)
	if err != nil {
		return models.User{}, s.internal(ctx, "directory.create", err, "failed to create user")
	}
	if len(existing) > 0 {
		return models.User{}, dErrors.New(dErrors.CodeConflict, "email already exists")
	}

	user := models.User{
		ID:    uuid.NewString(),
		Name:  input.Name,
		Email: input.Email,
		Role:  role,
	}
	if err := s.store.Set(ctx, Collection, user.ID, userFields(user)); err != nil {
		return models.User{}, s.internal(ctx, "directory.create", err, "failed to create user")
	}

	s.logger.InfoContext(ctx, "user created", "user_id", user.ID, "email", user.Email)
	s.metrics.IncrementUsersCreated()

	s.publisher.Publish(events.NewUserCreated(user.ID, user.Name, user.Email, string(user.Role)))
	s.mailer.Go(user.Email, user.Name)

	return user, nil
}

// List returns every record in the store's natural iteration order. Missing
// roles default to user; other missing fields decode to their zero values.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	docs, err := s.store.List(ctx, Collection)
	if err != nil {
		return nil, s.internal(ctx, "directory.list", err, "failed to get all users")
	}

	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, lenientUser(doc))
	}
	return users, nil
}

// Get returns the record at id, or NotFound. A document that exists but
// fails the minimal shape check yields BadRequest.
func (s *Service) Get(ctx context.Context, id string) (models.User, error) {
	doc, err := s.store.Get(ctx, Collection, id)
	if dErrors.Is(err, sentinel.ErrNotFound) {
		return models.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return models.User{}, s.internal(ctx, "directory.get", err, "failed to get the user")
	}
	return strictUser(doc)
}

// UpdatePartial merges the supplied fields into the record at id. Fields
// omitted from the change set are never clobbered. An empty change set is
// rejected before the record is even looked up.
func (s *Service) UpdatePartial(ctx context.Context, id string, patch models.UpdateUserInput) (models.User, error) {
	if id == "" {
		return models.User{}, dErrors.New(dErrors.CodeBadRequest, "id is required")
	}
	if patch.Empty() {
		return models.User{}, dErrors.New(dErrors.CodeBadRequest, "update data cannot be empty")
	}
	if err := patch.Validate(); err != nil {
		return models.User{}, err
	}

	if _, err := s.store.Get(ctx, Collection, id); err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return models.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return models.User{}, s.internal(ctx, "directory.update", err, "failed to update user information")
	}

	if patch.Email != nil {
		if err := s.checkEmailAvailable(ctx, *patch.Email, id); err != nil {
			return models.User{}, err
		}
	}

	partial := make(map[string]any)
	if patch.Name != nil {
		partial["name"] = *patch.Name
	}
	if patch.Email != nil {
		partial["email"] = *patch.Email
	}
	if patch.Role != nil {
		partial["role"] = string(*patch.Role)
	}

	if err := s.store.Update(ctx, Collection, id, partial); err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return models.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return models.User{}, s.internal(ctx, "directory.update", err, "failed to update user information")
	}

	doc, err := s.store.Get(ctx, Collection, id)
	if err != nil {
		return models.User{}, s.internal(ctx, "directory.update", err, "failed to update user information")
	}

	s.metrics.IncrementUsersUpdated()
	return strictUser(doc)
}

// UpdateFull replaces the whole record at id. Fields not supplied are erased,
// which is the point of the full-replace semantics.
func (s *Service) UpdateFull(ctx context.Context, id string, input models.ReplaceUserInput) (models.User, error) {
	if _, err := s.store.Get(ctx, Collection, id); err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return models.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return models.User{}, s.internal(ctx, "directory.replace", err, "failed to update user information")
	}

	if err := s.checkEmailAvailable(ctx, input.Email, id); err != nil {
		return models.User{}, err
	}

	user := models.User{ID: id, Name: input.Name, Email: input.Email, Role: input.Role}
	if err := s.store.Set(ctx, Collection, id, userFields(user)); err != nil {
		return models.User{}, s.internal(ctx, "directory.replace", err, "failed to update user information")
	}

	s.metrics.IncrementUsersUpdated()
	return user, nil
}

// Delete removes the record at id. The hard flag is accepted as a policy
// toggle for a future soft-delete path; current behavior is an unconditional
// hard delete regardless of its value.
func (s *Service) Delete(ctx context.Context, id string, hard bool) error {
	_ = hard

	if _, err := s.store.Get(ctx, Collection, id); err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return s.internal(ctx, "directory.delete", err, "failed to delete user")
	}

	if err := s.store.Delete(ctx, Collection, id); err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return s.internal(ctx, "directory.delete", err, "failed to delete user")
	}

	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	s.metrics.IncrementUsersDeleted()
	return nil
}

// checkEmailAvailable fails with Conflict when any record other than selfID
// already owns the email.
func (s *Service) checkEmailAvailable(ctx context.Context, email, selfID string) error {
	owners, err := s.store.Query(ctx, Collection, "email", email)
	if err != nil {
		return s.internal(ctx, "directory.update", err, "failed to update user information")
	}
	for _, owner := range owners {
		if owner.ID != selfID {
			return dErrors.New(dErrors.CodeConflict, "email already exists")
		}
	}
	return nil
}

// internal records the unexpected fault and collapses it to a generic
// internal error; store detail never reaches the boundary.
func (s *Service) internal(ctx context.Context, stage string, err error, message string) error {
	s.faults.Record(ctx, stage, err)
	s.logger.ErrorContext(ctx, "unexpected store failure", "stage", stage, "error", err)
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}

func userFields(user models.User) map[string]any {
	return map[string]any{
		"name":  user.Name,
		"email": user.Email,
		"role":  string(user.Role),
	}
}

// lenientUser decodes a document the way List does: take what is there,
// default the role.
func lenientUser(doc docstore.Document) models.User {
	name, _ := doc.Field("name")
	emailAddr, _ := doc.Field("email")
	role, ok := doc.Field("role")
	if !ok || role == "" {
		role = string(models.DefaultRole)
	}
	return models.User{ID: doc.ID, Name: name, Email: emailAddr, Role: models.Role(role)}
}

// strictUser enforces the minimal record shape: name, email, and role must
// all be present.
func strictUser(doc docstore.Document) (models.User, error) {
	name, okName := doc.Field("name")
	emailAddr, okEmail := doc.Field("email")
	role, okRole := doc.Field("role")
	if !okName || !okEmail || !okRole {
		return models.User{}, dErrors.New(dErrors.CodeBadRequest, "invalid user data")
	}
	return models.User{ID: doc.ID, Name: name, Email: emailAddr, Role: models.Role(role)}, nil
}

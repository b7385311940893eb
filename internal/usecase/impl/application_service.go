package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rewards/internal/domain/entity"
	"rewards/internal/domain/repository"
	"rewards/internal/domain/service"
	"rewards/internal/errors"
	"rewards/internal/usecase"
	"rewards/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type applicationService struct {
	router  repository.StoreRouter
	journal journal
}

// ApplicationServiceParams holds dependencies for ApplicationService, injected by Fx.
type ApplicationServiceParams struct {
	fx.In

	Router repository.StoreRouter
	Bus    service.SignalBus
	Logger *slog.Logger
}

// NewApplicationService creates a new application service instance
func NewApplicationService(params ApplicationServiceParams) usecase.ApplicationUsecase {
	return &applicationService{
		router:  params.Router,
		journal: newJournal(params.Bus, params.Logger),
	}
}

// Submit snapshots the applicant's name and email. A pending application of the
// same user is overwritten in place and keeps its id.
func (s *applicationService) Submit(ctx context.Context, input usecase.SubmitApplicationInput) (entity.Result[*entity.Application], error) {
	store := s.router.Active(ctx)

	user, err := store.Users().FindByID(ctx, input.UserID)
	if err != nil {
		return entity.Result[*entity.Application]{}, errors.Wrap(err, "failed to find applicant")
	}
	if user == nil {
		return entity.Fail[*entity.Application](entity.CodeUserNotFound, "Applicant not found"), nil
	}

	sponsor, err := store.Sponsors().FindByID(ctx, input.SponsorID)
	if err != nil {
		return entity.Result[*entity.Application]{}, errors.Wrap(err, "failed to find sponsor")
	}
	if sponsor == nil {
		return entity.Fail[*entity.Application](entity.CodeSponsorNotFound, "Sponsor not found"), nil
	}

	pending, err := store.Applications().FindPendingByUser(ctx, user.ID)
	if err != nil {
		return entity.Result[*entity.Application]{}, errors.Wrap(err, "failed to find pending application")
	}

	app := &entity.Application{
		ID:              "app-" + uuid.NewString(),
		UserID:          user.ID,
		SponsorID:       sponsor.ID,
		ApplicantName:   user.DisplayName,
		ApplicantEmail:  user.Email,
		LicenseNumber:   strings.TrimSpace(input.LicenseNumber),
		ExperienceYears: input.ExperienceYears,
		Reason:          input.Reason,
		Status:          entity.ApplicationPending,
		SubmittedAt:     time.Now().UTC(),
	}

	if pending != nil {
		app.ID = pending.ID
		err = store.Applications().Update(ctx, app)
	} else {
		err = store.Applications().Create(ctx, app)
	}
	if err != nil {
		return entity.Result[*entity.Application]{}, errors.Wrap(err, "failed to save application")
	}

	return entity.Ok(app), nil
}

func (s *applicationService) GetApplication(ctx context.Context, id string) (*entity.Application, error) {
	app, err := s.router.Active(ctx).Applications().FindByID(ctx, id)

	return app, errors.Wrap(err, "failed to find application")
}

func (s *applicationService) ListForSponsor(ctx context.Context, sponsorID string, status entity.ApplicationStatus) ([]*entity.Application, error) {
	return s.list(ctx, func(a *entity.Application) bool {
		return a.SponsorID == sponsorID && (status == "" || a.Status == status)
	})
}

func (s *applicationService) ListForUser(ctx context.Context, userID string) ([]*entity.Application, error) {
	return s.list(ctx, func(a *entity.Application) bool {
		return a.UserID == userID
	})
}

func (s *applicationService) list(ctx context.Context, keep func(*entity.Application) bool) ([]*entity.Application, error) {
	apps, err := s.router.Active(ctx).Applications().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list applications")
	}

	result := make([]*entity.Application, 0, len(apps))
	for _, a := range apps {
		if keep(a) {
			result = append(result, a)
		}
	}

	return result, nil
}

// Approve affiliates the applicant with the sponsor and opens a zero balance when absent.
func (s *applicationService) Approve(ctx context.Context, id, actor string) (entity.Result[*entity.Application], error) {
	store := s.router.Active(ctx)

	app, res, err := s.pending(ctx, store, id)
	if app == nil {
		return res, err
	}

	user, err := store.Users().FindByID(ctx, app.UserID)
	if err != nil {
		return entity.Result[*entity.Application]{}, errors.Wrap(err, "failed to find applicant")
	}
	if user == nil {
		return entity.Fail[*entity.Application](entity.CodeUserNotFound, "Applicant no longer exists"), nil
	}

	user.SponsorID = app.SponsorID
	if user.Role == "" {
		user.Role = entity.RoleDriver
	}
	if !user.HasBalance() {
		user.Points = util.Ptr(0)
	}
	user.Dropped = false
	user.Active = true
	if err := store.Users().Update(ctx, user); err != nil {
		return entity.Result[*entity.Application]{}, errors.Wrap(err, "failed to affiliate driver")
	}

	now := time.Now().UTC()
	app.Status = entity.ApplicationApproved
	app.DecidedAt = &now
	if err := store.Applications().Update(ctx, app); err != nil {
		return entity.Result[*entity.Application]{}, errors.Wrap(err, "failed to approve application")
	}

	sponsorName := s.sponsorName(ctx, store, app.SponsorID)
	s.journal.audit(ctx, store, actor, app.ApplicantName, "Approved application", entity.AuditCategoryApplication,
		fmt.Sprintf("Joined %s", sponsorName))
	s.journal.notifyQuietly(ctx, store, user.ID, "Application approved",
		fmt.Sprintf("Welcome to %s. You can now earn points.", sponsorName))

	return entity.Ok(app), nil
}

func (s *applicationService) Reject(ctx context.Context, id, actor, reason string) (entity.Result[*entity.Application], error) {
	store := s.router.Active(ctx)

	app, res, err := s.pending(ctx, store, id)
	if app == nil {
		return res, err
	}

	now := time.Now().UTC()
	app.Status = entity.ApplicationRejected
	app.DecisionReason = reason
	app.DecidedAt = &now
	if err := store.Applications().Update(ctx, app); err != nil {
		return entity.Result[*entity.Application]{}, errors.Wrap(err, "failed to reject application")
	}

	sponsorName := s.sponsorName(ctx, store, app.SponsorID)
	s.journal.audit(ctx, store, actor, app.ApplicantName, "Rejected application", entity.AuditCategoryApplication, reason)
	s.journal.notifyQuietly(ctx, store, app.UserID, "Application rejected",
		fmt.Sprintf("Your application to %s was not accepted. %s", sponsorName, reason))

	return entity.Ok(app), nil
}

// pending loads an application that is still awaiting a decision. A nil
// application means the caller should return res and err as they are.
func (s *applicationService) pending(ctx context.Context, store repository.Store, id string) (*entity.Application, entity.Result[*entity.Application], error) {
	app, err := store.Applications().FindByID(ctx, id)
	if err != nil {
		return nil, entity.Result[*entity.Application]{}, errors.Wrap(err, "failed to find application")
	}
	if app == nil {
		return nil, entity.Fail[*entity.Application](entity.CodeApplicationNotFound, "Application not found"), nil
	}
	if !app.IsPending() {
		return nil, entity.Fail[*entity.Application](entity.CodeAlreadyProcessed,
			fmt.Sprintf("Application was already %s", strings.ToLower(string(app.Status)))), nil
	}

	return app, entity.Result[*entity.Application]{}, nil
}

func (s *applicationService) sponsorName(ctx context.Context, store repository.Store, sponsorID string) string {
	sponsor, err := store.Sponsors().FindByID(ctx, sponsorID)
	if err != nil || sponsor == nil {
		return sponsorID
	}

	return sponsor.Name
}

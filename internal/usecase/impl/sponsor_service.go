package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"rewards/internal/domain/entity"
	"rewards/internal/domain/repository"
	"rewards/internal/domain/service"
	"rewards/internal/errors"
	"rewards/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type sponsorService struct {
	router        repository.StoreRouter
	qrcodeService service.QRCodeService
	journal       journal
}

// SponsorServiceParams holds dependencies for SponsorService, injected by Fx.
type SponsorServiceParams struct {
	fx.In

	Router        repository.StoreRouter
	QRCodeService service.QRCodeService
	Bus           service.SignalBus
	Logger        *slog.Logger
}

// NewSponsorService creates a new sponsor service instance
func NewSponsorService(params SponsorServiceParams) usecase.SponsorUsecase {
	return &sponsorService{
		router:        params.Router,
		qrcodeService: params.QRCodeService,
		journal:       newJournal(params.Bus, params.Logger),
	}
}

func (s *sponsorService) ListSponsors(ctx context.Context) ([]*entity.Sponsor, error) {
	sponsors, err := s.router.Active(ctx).Sponsors().List(ctx)

	return sponsors, errors.Wrap(err, "failed to list sponsors")
}

func (s *sponsorService) GetSponsor(ctx context.Context, id string) (*entity.Sponsor, error) {
	sponsor, err := s.router.Active(ctx).Sponsors().FindByID(ctx, id)

	return sponsor, errors.Wrap(err, "failed to find sponsor")
}

func (s *sponsorService) CreateSponsor(ctx context.Context, input usecase.CreateSponsorInput, actor string) (entity.Result[*entity.Sponsor], error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return entity.Fail[*entity.Sponsor](entity.CodeInvalidInput, "Sponsor name is required"), nil
	}
	if input.PointRatio <= 0 {
		return entity.Fail[*entity.Sponsor](entity.CodeInvalidRatio, "Point ratio must be greater than zero"), nil
	}

	store := s.router.Active(ctx)

	existing, err := store.Sponsors().FindByName(ctx, name)
	if err != nil {
		return entity.Result[*entity.Sponsor]{}, errors.Wrap(err, "failed to check sponsor name")
	}
	if existing != nil {
		return entity.Fail[*entity.Sponsor](entity.CodeSponsorNameTaken, fmt.Sprintf("Sponsor %q already exists", name)), nil
	}

	sponsor := &entity.Sponsor{
		ID:          "sp-" + uuid.NewString(),
		Name:        name,
		PointRatio:  input.PointRatio,
		PointsFloor: input.PointsFloor,
		Rules:       input.Rules,
	}
	if err := store.Sponsors().Create(ctx, sponsor); err != nil {
		return entity.Result[*entity.Sponsor]{}, errors.Wrap(err, "failed to create sponsor")
	}

	s.journal.audit(ctx, store, actor, sponsor.Name, "Created sponsor", entity.AuditCategorySponsor,
		fmt.Sprintf("Point ratio %.2f", sponsor.PointRatio))

	return entity.Ok(sponsor), nil
}

func (s *sponsorService) UpdateSponsor(ctx context.Context, id string, patch usecase.SponsorPatch, actor string) (entity.Result[*entity.Sponsor], error) {
	store := s.router.Active(ctx)

	sponsor, err := store.Sponsors().FindByID(ctx, id)
	if err != nil {
		return entity.Result[*entity.Sponsor]{}, errors.Wrap(err, "failed to find sponsor")
	}
	if sponsor == nil {
		return entity.Fail[*entity.Sponsor](entity.CodeSponsorNotFound, "Sponsor not found"), nil
	}

	var changes []string

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return entity.Fail[*entity.Sponsor](entity.CodeInvalidInput, "Sponsor name is required"), nil
		}
		if !strings.EqualFold(name, sponsor.Name) {
			other, err := store.Sponsors().FindByName(ctx, name)
			if err != nil {
				return entity.Result[*entity.Sponsor]{}, errors.Wrap(err, "failed to check sponsor name")
			}
			if other != nil {
				return entity.Fail[*entity.Sponsor](entity.CodeSponsorNameTaken, fmt.Sprintf("Sponsor %q already exists", name)), nil
			}
		}
		sponsor.Name = name
		changes = append(changes, "name")
	}
	if patch.PointRatio != nil {
		if *patch.PointRatio <= 0 {
			return entity.Fail[*entity.Sponsor](entity.CodeInvalidRatio, "Point ratio must be greater than zero"), nil
		}
		sponsor.PointRatio = *patch.PointRatio
		changes = append(changes, fmt.Sprintf("ratio=%.2f", sponsor.PointRatio))
	}
	if patch.PointsFloor != nil {
		sponsor.PointsFloor = patch.PointsFloor
		changes = append(changes, fmt.Sprintf("floor=%d", *patch.PointsFloor))
	}
	if patch.Rules != nil {
		sponsor.Rules = *patch.Rules
		changes = append(changes, "rules")
	}

	if err := store.Sponsors().Update(ctx, sponsor); err != nil {
		return entity.Result[*entity.Sponsor]{}, errors.Wrap(err, "failed to update sponsor")
	}

	s.journal.audit(ctx, store, actor, sponsor.Name, "Updated sponsor", entity.AuditCategorySponsor, strings.Join(changes, ", "))

	return entity.Ok(sponsor), nil
}

func (s *sponsorService) ApplicationQR(ctx context.Context, sponsorID string) (entity.Result[[]byte], error) {
	sponsor, err := s.router.Active(ctx).Sponsors().FindByID(ctx, sponsorID)
	if err != nil {
		return entity.Result[[]byte]{}, errors.Wrap(err, "failed to find sponsor")
	}
	if sponsor == nil {
		return entity.Fail[[]byte](entity.CodeSponsorNotFound, "Sponsor not found"), nil
	}

	png, err := s.qrcodeService.GenerateApplicationQR(sponsor.ID)
	if err != nil {
		return entity.Result[[]byte]{}, errors.Wrap(err, "failed to generate application QR code")
	}

	return entity.Ok(png), nil
}

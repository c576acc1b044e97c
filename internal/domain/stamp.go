package domain

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/canonlab/backend/internal/domain/stamp"
	"github.com/canonlab/backend/internal/entity"
	"github.com/canonlab/backend/internal/model"
	"github.com/canonlab/backend/internal/repository"
	"github.com/canonlab/backend/pkg/enum"
	"github.com/canonlab/backend/pkg/errorx"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StampDomain interface {
	CreateStamp(context.Context, *model.CreateStampRequest) (*model.CreateStampResponse, error)
	CreateStampTier(context.Context, *model.CreateStampTierRequest) (*model.CreateStampTierResponse, error)
	CreateFusionStamp(context.Context, *model.CreateFusionStampRequest) (*model.CreateFusionStampResponse, error)
	GetAllStamps(context.Context, *model.GetAllStampsRequest) (*model.GetAllStampsResponse, error)
	Trigger(context.Context, *model.TriggerStampRequest) (*model.TriggerStampResponse, error)
	GetFusionEligibility(context.Context, *model.GetFusionEligibilityRequest) (*model.GetFusionEligibilityResponse, error)
	Craft(context.Context, *model.CraftFusionStampRequest) (*model.CraftFusionStampResponse, error)
	Equip(context.Context, *model.EquipStampRequest) (*model.EquipStampResponse, error)
	Unequip(context.Context, *model.UnequipStampRequest) (*model.UnequipStampResponse, error)
	GetMyStamps(context.Context, *model.GetMyStampsRequest) (*model.GetMyStampsResponse, error)
}

type stampDomain struct {
	stampRepo       repository.StampRepository
	userStampRepo   repository.UserStampRepository
	fusionStampRepo repository.FusionStampRepository
	engine          *stamp.Engine
}

func NewStampDomain(
	stampRepo repository.StampRepository,
	userStampRepo repository.UserStampRepository,
	fusionStampRepo repository.FusionStampRepository,
	engine *stamp.Engine,
) *stampDomain {
	return &stampDomain{
		stampRepo:       stampRepo,
		userStampRepo:   userStampRepo,
		fusionStampRepo: fusionStampRepo,
		engine:          engine,
	}
}

func (d *stampDomain) CreateStamp(
	ctx context.Context, req *model.CreateStampRequest,
) (*model.CreateStampResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a name")
	}

	rarity, err := enum.ToEnum[entity.StampRarity](req.Rarity)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid rarity: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid rarity %s", req.Rarity)
	}

	if req.IconURL != "" {
		if _, err := url.ParseRequestURI(req.IconURL); err != nil {
			xcontext.Logger(ctx).Debugf("Invalid icon url: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid icon url")
		}
	}

	stampDef := &entity.StampDefinition{
		Base:       entity.Base{ID: uuid.NewString()},
		Name:       req.Name,
		Category:   req.Category,
		Rarity:     rarity,
		IconURL:    req.IconURL,
		FlavorText: req.FlavorText,
	}

	if err := d.stampRepo.Create(ctx, stampDef); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errorx.New(errorx.AlreadyExists, "Stamp %s already exists", req.Name)
		}

		xcontext.Logger(ctx).Errorf("Cannot create stamp: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateStampResponse{Stamp: convertStamp(stampDef)}, nil
}

func (d *stampDomain) CreateStampTier(
	ctx context.Context, req *model.CreateStampTierRequest,
) (*model.CreateStampTierResponse, error) {
	if req.Tier <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Require a positive tier")
	}

	if req.RequiredCount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Require a positive required count")
	}

	if _, err := d.stampRepo.GetByID(ctx, req.BaseStampID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found stamp")
		}

		xcontext.Logger(ctx).Errorf("Cannot get stamp: %v", err)
		return nil, errorx.Unknown
	}

	tiers, err := d.stampRepo.GetTiers(ctx, req.BaseStampID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get stamp tiers: %v", err)
		return nil, errorx.Unknown
	}

	// Required counts must strictly increase with the tier so the derived
	// tier of any evolution count is unambiguous.
	for _, t := range tiers {
		if t.Tier < req.Tier && t.RequiredCount >= req.RequiredCount {
			return nil, errorx.New(errorx.BadRequest,
				"Required count must exceed that of tier %d", t.Tier)
		}

		if t.Tier > req.Tier && t.RequiredCount <= req.RequiredCount {
			return nil, errorx.New(errorx.BadRequest,
				"Required count must be below that of tier %d", t.Tier)
		}
	}

	err = d.stampRepo.CreateTier(ctx, &entity.StampEvolutionTier{
		BaseStampID:       req.BaseStampID,
		Tier:              req.Tier,
		RequiredCount:     req.RequiredCount,
		EvolvedName:       req.EvolvedName,
		EvolvedIconURL:    req.EvolvedIconURL,
		EvolvedFlavorText: req.EvolvedFlavorText,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errorx.New(errorx.AlreadyExists, "Tier %d already exists", req.Tier)
		}

		xcontext.Logger(ctx).Errorf("Cannot create stamp tier: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateStampTierResponse{}, nil
}

func (d *stampDomain) CreateFusionStamp(
	ctx context.Context, req *model.CreateFusionStampRequest,
) (*model.CreateFusionStampResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a name")
	}

	if len(req.RequiredStampIDs) < 2 {
		return nil, errorx.New(errorx.BadRequest, "Require at least two source stamps")
	}

	stamps, err := d.stampRepo.GetByIDs(ctx, req.RequiredStampIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get stamps: %v", err)
		return nil, errorx.Unknown
	}

	if len(stamps) != len(req.RequiredStampIDs) {
		return nil, errorx.New(errorx.NotFound, "Not found some required stamps")
	}

	if req.CanonMultiplier <= 0 {
		req.CanonMultiplier = 1
	}

	def := &entity.FusionStampDefinition{
		Base:             entity.Base{ID: uuid.NewString()},
		Name:             req.Name,
		RequiredStampIDs: req.RequiredStampIDs,
		UnlockableAtTier: req.UnlockableAtTier,
		CanonMultiplier:  req.CanonMultiplier,
		IconURL:          req.IconURL,
		FlavorText:       req.FlavorText,
	}

	if err := d.fusionStampRepo.CreateDefinition(ctx, def); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errorx.New(errorx.AlreadyExists, "Fusion stamp %s already exists", req.Name)
		}

		xcontext.Logger(ctx).Errorf("Cannot create fusion stamp: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateFusionStampResponse{FusionStamp: convertFusionStamp(def)}, nil
}

func (d *stampDomain) GetAllStamps(
	ctx context.Context, req *model.GetAllStampsRequest,
) (*model.GetAllStampsResponse, error) {
	stamps, err := d.stampRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get stamps: %v", err)
		return nil, errorx.Unknown
	}

	fusions, err := d.fusionStampRepo.GetAllDefinitions(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get fusion stamps: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetAllStampsResponse{
		Stamps:  []model.Stamp{},
		Fusions: []model.FusionStamp{},
	}

	for _, s := range stamps {
		resp.Stamps = append(resp.Stamps, convertStamp(&s))
	}

	for _, f := range fusions {
		resp.Fusions = append(resp.Fusions, convertFusionStamp(&f))
	}

	return resp, nil
}

func (d *stampDomain) Trigger(
	ctx context.Context, req *model.TriggerStampRequest,
) (*model.TriggerStampResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	if userID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a user id")
	}

	userStamp, err := d.engine.Trigger(ctx, userID, req.StampID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found stamp")
		}

		xcontext.Logger(ctx).Errorf("Cannot trigger stamp: %v", err)
		return nil, errorx.Unknown
	}

	return &model.TriggerStampResponse{
		EvolutionCount: userStamp.EvolutionCount,
		CurrentTier:    userStamp.CurrentTier,
	}, nil
}

func (d *stampDomain) GetFusionEligibility(
	ctx context.Context, req *model.GetFusionEligibilityRequest,
) (*model.GetFusionEligibilityResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	def, err := d.fusionStampRepo.GetDefinitionByID(ctx, req.FusionStampID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found fusion stamp")
		}

		xcontext.Logger(ctx).Errorf("Cannot get fusion stamp: %v", err)
		return nil, errorx.Unknown
	}

	eligibility, err := d.engine.CheckEligibility(ctx, userID, def)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check fusion eligibility: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetFusionEligibilityResponse{
		Eligible:        eligibility.Eligible,
		MissingStampIDs: eligibility.MissingStampIDs,
		RequiredTier:    eligibility.RequiredTier,
		CurrentTier:     eligibility.CurrentTier,
	}, nil
}

// Craft creates the fusion once per user. Uniqueness is enforced by the
// database, so two concurrent crafts resolve to one success and one
// AlreadyCrafted without any advisory lock.
func (d *stampDomain) Craft(
	ctx context.Context, req *model.CraftFusionStampRequest,
) (*model.CraftFusionStampResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require an authenticated user")
	}

	def, err := d.fusionStampRepo.GetDefinitionByID(ctx, req.FusionStampID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found fusion stamp")
		}

		xcontext.Logger(ctx).Errorf("Cannot get fusion stamp: %v", err)
		return nil, errorx.Unknown
	}

	eligibility, err := d.engine.CheckEligibility(ctx, userID, def)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check fusion eligibility: %v", err)
		return nil, errorx.Unknown
	}

	if !eligibility.Eligible {
		if len(eligibility.MissingStampIDs) > 0 {
			return nil, errorx.New(errorx.PermissionDenied,
				"Missing %d required stamps", len(eligibility.MissingStampIDs))
		}

		return nil, errorx.New(errorx.PermissionDenied,
			"Require season tier %d", eligibility.RequiredTier)
	}

	fusion := &entity.UserFusionStamp{
		Base:           entity.Base{ID: uuid.NewString()},
		UserID:         userID,
		FusionStampID:  def.ID,
		SourceStampIDs: eligibility.SourceStampIDs,
		CraftedAt:      time.Now(),
	}

	if err := d.fusionStampRepo.CreateUserFusion(ctx, fusion); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errorx.New(errorx.AlreadyCrafted, "Fusion stamp already crafted")
		}

		xcontext.Logger(ctx).Errorf("Cannot craft fusion stamp: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CraftFusionStampResponse{FusionStamp: convertUserFusionStamp(fusion)}, nil
}

func (d *stampDomain) Equip(
	ctx context.Context, req *model.EquipStampRequest,
) (*model.EquipStampResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require an authenticated user")
	}

	maxEquipped := xcontext.Configs(ctx).Stamp.MaxEquippedStamps
	if req.Position < 1 || req.Position > maxEquipped {
		return nil, errorx.New(errorx.BadRequest,
			"Position must be between 1 and %d", maxEquipped)
	}

	kind, err := enum.ToEnum[entity.StampKind](req.Kind)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid stamp kind: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid stamp kind %s", req.Kind)
	}

	if err := d.checkOwnership(ctx, userID, req.StampID, kind); err != nil {
		return nil, err
	}

	unlock := d.engine.LockEquipSlots(userID)
	defer unlock()

	equipped, err := d.userStampRepo.GetEquipped(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get equipped stamps: %v", err)
		return nil, errorx.Unknown
	}

	for _, e := range equipped {
		if e.Position == req.Position {
			return nil, errorx.New(errorx.PositionOccupied, "Position %d is occupied", req.Position)
		}

		if e.StampID == req.StampID && e.Kind == kind {
			return nil, errorx.New(errorx.AlreadyExists, "Stamp is already equipped")
		}
	}

	if len(equipped) >= maxEquipped {
		return nil, errorx.New(errorx.LimitExceeded,
			"Cannot equip more than %d stamps", maxEquipped)
	}

	err = d.userStampRepo.Equip(ctx, &entity.EquippedStamp{
		UserID:   userID,
		Position: req.Position,
		StampID:  req.StampID,
		Kind:     kind,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errorx.New(errorx.PositionOccupied, "Position %d is occupied", req.Position)
		}

		xcontext.Logger(ctx).Errorf("Cannot equip stamp: %v", err)
		return nil, errorx.Unknown
	}

	return &model.EquipStampResponse{Equipped: d.getEquipped(ctx, userID)}, nil
}

func (d *stampDomain) checkOwnership(
	ctx context.Context, userID, stampID string, kind entity.StampKind,
) error {
	var err error
	switch kind {
	case entity.KindStamp:
		_, err = d.userStampRepo.Get(ctx, userID, stampID)
	case entity.KindFusion:
		_, err = d.fusionStampRepo.GetUserFusion(ctx, userID, stampID)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.PermissionDenied, "Cannot equip a stamp you do not own")
		}

		xcontext.Logger(ctx).Errorf("Cannot get owned stamp: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *stampDomain) Unequip(
	ctx context.Context, req *model.UnequipStampRequest,
) (*model.UnequipStampResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require an authenticated user")
	}

	unlock := d.engine.LockEquipSlots(userID)
	defer unlock()

	removed, err := d.userStampRepo.Unequip(ctx, userID, req.Position)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unequip stamp: %v", err)
		return nil, errorx.Unknown
	}

	if !removed {
		return nil, errorx.New(errorx.NotFound, "Nothing is equipped at position %d", req.Position)
	}

	return &model.UnequipStampResponse{Equipped: d.getEquipped(ctx, userID)}, nil
}

func (d *stampDomain) getEquipped(ctx context.Context, userID string) []model.EquippedStamp {
	equipped, err := d.userStampRepo.GetEquipped(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get equipped stamps: %v", err)
		return []model.EquippedStamp{}
	}

	result := []model.EquippedStamp{}
	for _, e := range equipped {
		result = append(result, convertEquippedStamp(&e))
	}

	return result
}

func (d *stampDomain) GetMyStamps(
	ctx context.Context, req *model.GetMyStampsRequest,
) (*model.GetMyStampsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require an authenticated user")
	}

	userStamps, err := d.userStampRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user stamps: %v", err)
		return nil, errorx.Unknown
	}

	fusions, err := d.fusionStampRepo.GetUserFusions(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user fusion stamps: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetMyStampsResponse{
		Stamps:   []model.UserStamp{},
		Fusions:  []model.UserFusionStamp{},
		Equipped: d.getEquipped(ctx, userID),
	}

	for _, s := range userStamps {
		resp.Stamps = append(resp.Stamps, convertUserStamp(&s))
	}

	for _, f := range fusions {
		resp.Fusions = append(resp.Fusions, convertUserFusionStamp(&f))
	}

	return resp, nil
}

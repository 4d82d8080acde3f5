package services

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/plumbline/plumbline-backend/internal/leveling"
	"github.com/plumbline/plumbline-backend/internal/logger"
	"github.com/plumbline/plumbline-backend/internal/repos"
	"github.com/plumbline/plumbline-backend/internal/types"
	"github.com/plumbline/plumbline-backend/internal/utils"
)

// EstimateDefaults are the file-configured pricing knobs used for projects
// that have no saved EstimateSetting row yet.
type EstimateDefaults struct {
	MarkupPercent     float64                `yaml:"markup_percent"`
	GeneralConditions float64                `yaml:"general_conditions"`
	OverheadProfit    float64                `yaml:"overhead_profit"`
	Contingency       float64                `yaml:"contingency"`
	CustomLineItems   []types.CustomLineItem `yaml:"custom_line_items"`
}

// LoadEstimateDefaults reads pricing defaults from a yaml file. An empty
// path yields zero defaults.
func LoadEstimateDefaults(path string) (*EstimateDefaults, error) {
	defaults := &EstimateDefaults{}
	if path == "" {
		return defaults, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read estimate defaults: %w", err)
	}
	if err := yaml.Unmarshal(raw, defaults); err != nil {
		return nil, fmt.Errorf("parse estimate defaults: %w", err)
	}
	return defaults, nil
}

type EstimateService interface {
	BuildEstimate(ctx context.Context, projectID uuid.UUID) (*leveling.EstimateBreakdown, error)
	GetSettings(ctx context.Context, projectID uuid.UUID) (*types.EstimateSetting, error)
	UpsertSettings(ctx context.Context, row *types.EstimateSetting) (*types.EstimateSetting, error)
}

type estimateService struct {
	log         *logger.Logger
	itemRepo    repos.ScopeItemRepo
	settingRepo repos.EstimateSettingRepo
	leveling    LevelingService
	notifier    LevelingNotifier
	defaults    *EstimateDefaults
}

func NewEstimateService(log *logger.Logger, itemRepo repos.ScopeItemRepo, settingRepo repos.EstimateSettingRepo, levelingService LevelingService, notifier LevelingNotifier) EstimateService {
	svcLog := log.With("service", "EstimateService")
	path := utils.GetEnv("ESTIMATE_DEFAULTS_PATH", "", svcLog)
	defaults, err := LoadEstimateDefaults(path)
	if err != nil {
		svcLog.Warn("Falling back to zero estimate defaults", "path", path, "error", err)
		defaults = &EstimateDefaults{}
	}
	return &estimateService{
		log:         svcLog,
		itemRepo:    itemRepo,
		settingRepo: settingRepo,
		leveling:    levelingService,
		notifier:    notifier,
		defaults:    defaults,
	}
}

// BuildEstimate rolls the current winning amounts up into a client-facing
// breakdown using the project's saved settings, or the file defaults when
// none are saved.
func (s *estimateService) BuildEstimate(ctx context.Context, projectID uuid.UUID) (*leveling.EstimateBreakdown, error) {
	items, err := s.itemRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	winners, err := s.leveling.WinningAmounts(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("resolve winning amounts: %w", err)
	}
	settings, err := s.settingRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load estimate settings: %w", err)
	}
	if settings == nil {
		settings = s.settingsFromDefaults(projectID)
	}

	breakdown := leveling.ComposeEstimate(items, winners, settings)
	s.log.Info("Estimate composed", "projectID", projectID, "grandTotal", breakdown.GrandTotal)
	return &breakdown, nil
}

func (s *estimateService) GetSettings(ctx context.Context, projectID uuid.UUID) (*types.EstimateSetting, error) {
	settings, err := s.settingRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load estimate settings: %w", err)
	}
	if settings == nil {
		return s.settingsFromDefaults(projectID), nil
	}
	return settings, nil
}

func (s *estimateService) UpsertSettings(ctx context.Context, row *types.EstimateSetting) (*types.EstimateSetting, error) {
	if row == nil || row.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("project is required")
	}
	if row.MarkupPercent < 0 {
		return nil, fmt.Errorf("markup percent must not be negative")
	}
	if err := s.settingRepo.Upsert(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("save estimate settings: %w", err)
	}
	s.notifier.EstimateUpdated(row.ProjectID)
	return row, nil
}

func (s *estimateService) settingsFromDefaults(projectID uuid.UUID) *types.EstimateSetting {
	return &types.EstimateSetting{
		ProjectID:         projectID,
		MarkupPercent:     s.defaults.MarkupPercent,
		GeneralConditions: s.defaults.GeneralConditions,
		OverheadProfit:    s.defaults.OverheadProfit,
		Contingency:       s.defaults.Contingency,
		CustomLineItems:   datatypes.NewJSONSlice(s.defaults.CustomLineItems),
	}
}

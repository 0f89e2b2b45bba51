package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/internal/clock"
	"github.com/smallbiznis/userhub/internal/lifecycle"
	profiledomain "github.com/smallbiznis/userhub/internal/profile/domain"
	"github.com/smallbiznis/userhub/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Profiles profiledomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	profiles profiledomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("settings.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		profiles: p.Profiles,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSettingsRequest) (*domain.Settings, error) {
	if req.UserProfileID == 0 {
		return nil, domain.ErrInvalidUserProfileID
	}

	s.log.Info("creating settings", zap.Stringer("user_profile_id", req.UserProfileID))

	ok, err := s.profiles.ExistsActive(ctx, s.db, req.UserProfileID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", req.UserProfileID, lifecycle.ErrParentNotFound)
	}

	existing, err := s.repo.FindByUserProfileID(ctx, s.db, req.UserProfileID)
	if err != nil {
		return nil, err
	}

	fresh := newWithDefaults(req)
	fresh.ID = s.genID.Generate()

	settings, err := lifecycle.CreateOrRestore(ctx, s.db, existing, existing != nil, fresh, patchFields(req), s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.log.Info("settings created", zap.Stringer("id", settings.ID))
	return settings, nil
}

func (s *Service) FindByID(ctx context.Context, id snowflake.ID) (*domain.Settings, error) {
	if id == 0 {
		return nil, domain.ErrInvalidID
	}
	var settings domain.Settings
	if err := lifecycle.FindActive(ctx, s.db, &settings, id); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Service) FindByUserProfileID(ctx context.Context, userProfileID snowflake.ID) (*domain.Settings, error) {
	if userProfileID == 0 {
		return nil, domain.ErrInvalidUserProfileID
	}
	settings, err := s.repo.FindActiveByUserProfileID(ctx, s.db, userProfileID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, fmt.Errorf("settings for profile %s: %w", userProfileID, lifecycle.ErrNotFound)
	}
	return settings, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateSettingsRequest) (*domain.Settings, error) {
	settings, err := s.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Version != nil && *req.Version != settings.Version {
		return nil, lifecycle.ErrVersionConflict
	}

	fields := updateFields(req)
	if err := lifecycle.UpdateWithVersion(ctx, s.db, settings, fields, s.clock.Now()); err != nil {
		return nil, err
	}

	s.log.Info("settings updated", zap.Stringer("id", settings.ID), zap.Int64("version", settings.Version))
	return settings, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	settings, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := lifecycle.SoftDelete(ctx, s.db, settings, s.clock.Now()); err != nil {
		return err
	}
	s.log.Info("settings soft deleted", zap.Stringer("id", id))
	return nil
}

// ResetToDefaults overwrites every preference field with the fixed default
// set. It is a last-write-wins administrative action and takes no
// expectedVersion.
func (s *Service) ResetToDefaults(ctx context.Context, id snowflake.ID) (*domain.Settings, error) {
	settings, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := lifecycle.UpdateActive(ctx, s.db, settings, domain.DefaultFields(), s.clock.Now()); err != nil {
		return nil, err
	}

	s.log.Info("settings reset to defaults", zap.Stringer("id", id))
	return settings, nil
}

// newWithDefaults builds a fresh row from the request, falling back to the
// default table for absent fields.
func newWithDefaults(req domain.CreateSettingsRequest) *domain.Settings {
	settings := domain.Defaults()
	settings.UserProfileID = req.UserProfileID
	applyValue(&settings.Language, req.Language)
	applyValue(&settings.Theme, req.Theme)
	applyValue(&settings.Timezone, req.Timezone)
	applyValue(&settings.EmailNotifications, req.EmailNotifications)
	applyValue(&settings.PushNotifications, req.PushNotifications)
	applyValue(&settings.SmsNotifications, req.SmsNotifications)
	applyValue(&settings.MarketingEmails, req.MarketingEmails)
	applyValue(&settings.Autoplay, req.Autoplay)
	applyValue(&settings.VideoQuality, req.VideoQuality)
	applyValue(&settings.SubtitlesEnabled, req.SubtitlesEnabled)
	applyValue(&settings.SubtitlesLanguage, req.SubtitlesLanguage)
	applyValue(&settings.MaturityRating, req.MaturityRating)
	applyValue(&settings.DataSaverMode, req.DataSaverMode)
	applyValue(&settings.TwoFactorEnabled, req.TwoFactorEnabled)
	applyValue(&settings.SessionTimeout, req.SessionTimeout)
	applyValue(&settings.PrivacyShowProfile, req.PrivacyShowProfile)
	applyValue(&settings.PrivacyShowActivity, req.PrivacyShowActivity)
	applyValue(&settings.PrivacyAllowMessages, req.PrivacyAllowMessages)
	return &settings
}

// patchFields carries only the request's present fields, used when a
// soft-deleted row is restored.
func patchFields(req domain.CreateSettingsRequest) map[string]any {
	return settingsFields(
		req.Language, req.Theme, req.Timezone,
		req.EmailNotifications, req.PushNotifications, req.SmsNotifications, req.MarketingEmails,
		req.Autoplay, req.VideoQuality, req.SubtitlesEnabled, req.SubtitlesLanguage,
		req.MaturityRating, req.DataSaverMode, req.TwoFactorEnabled, req.SessionTimeout,
		req.PrivacyShowProfile, req.PrivacyShowActivity, req.PrivacyAllowMessages,
	)
}

func updateFields(req domain.UpdateSettingsRequest) map[string]any {
	return settingsFields(
		req.Language, req.Theme, req.Timezone,
		req.EmailNotifications, req.PushNotifications, req.SmsNotifications, req.MarketingEmails,
		req.Autoplay, req.VideoQuality, req.SubtitlesEnabled, req.SubtitlesLanguage,
		req.MaturityRating, req.DataSaverMode, req.TwoFactorEnabled, req.SessionTimeout,
		req.PrivacyShowProfile, req.PrivacyShowActivity, req.PrivacyAllowMessages,
	)
}

func settingsFields(
	language, theme, timezone *string,
	emailNotifications, pushNotifications, smsNotifications, marketingEmails *bool,
	autoplay *bool, videoQuality *string, subtitlesEnabled *bool, subtitlesLanguage *string,
	maturityRating *string, dataSaverMode, twoFactorEnabled *bool, sessionTimeout *int,
	privacyShowProfile, privacyShowActivity, privacyAllowMessages *bool,
) map[string]any {
	fields := map[string]any{}
	applyIfSet(fields, "language", language)
	applyIfSet(fields, "theme", theme)
	applyIfSet(fields, "timezone", timezone)
	applyIfSet(fields, "email_notifications", emailNotifications)
	applyIfSet(fields, "push_notifications", pushNotifications)
	applyIfSet(fields, "sms_notifications", smsNotifications)
	applyIfSet(fields, "marketing_emails", marketingEmails)
	applyIfSet(fields, "autoplay", autoplay)
	applyIfSet(fields, "video_quality", videoQuality)
	applyIfSet(fields, "subtitles_enabled", subtitlesEnabled)
	applyIfSet(fields, "subtitles_language", subtitlesLanguage)
	applyIfSet(fields, "maturity_rating", maturityRating)
	applyIfSet(fields, "data_saver_mode", dataSaverMode)
	applyIfSet(fields, "two_factor_enabled", twoFactorEnabled)
	applyIfSet(fields, "session_timeout", sessionTimeout)
	applyIfSet(fields, "privacy_show_profile", privacyShowProfile)
	applyIfSet(fields, "privacy_show_activity", privacyShowActivity)
	applyIfSet(fields, "privacy_allow_messages", privacyAllowMessages)
	return fields
}

func applyValue[T any](dst *T, value *T) {
	if value != nil {
		*dst = *value
	}
}

func applyIfSet[T any](fields map[string]any, column string, value *T) {
	if value != nil {
		fields[column] = *value
	}
}

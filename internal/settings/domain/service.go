package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateSettingsRequest struct {
	UserProfileID        snowflake.ID `json:"userProfileId"`
	Language             *string      `json:"language"`
	Theme                *string      `json:"theme"`
	Timezone             *string      `json:"timezone"`
	EmailNotifications   *bool        `json:"emailNotifications"`
	PushNotifications    *bool        `json:"pushNotifications"`
	SmsNotifications     *bool        `json:"smsNotifications"`
	MarketingEmails      *bool        `json:"marketingEmails"`
	Autoplay             *bool        `json:"autoplay"`
	VideoQuality         *string      `json:"videoQuality"`
	SubtitlesEnabled     *bool        `json:"subtitlesEnabled"`
	SubtitlesLanguage    *string      `json:"subtitlesLanguage"`
	MaturityRating       *string      `json:"maturityRating"`
	DataSaverMode        *bool        `json:"dataSaverMode"`
	TwoFactorEnabled     *bool        `json:"twoFactorEnabled"`
	SessionTimeout       *int         `json:"sessionTimeout"`
	PrivacyShowProfile   *bool        `json:"privacyShowProfile"`
	PrivacyShowActivity  *bool        `json:"privacyShowActivity"`
	PrivacyAllowMessages *bool        `json:"privacyAllowMessages"`
}

// UpdateSettingsRequest is a partial update: nil fields are left unchanged.
type UpdateSettingsRequest struct {
	ID                   snowflake.ID `json:"id"`
	Version              *int64       `json:"version"`
	Language             *string      `json:"language"`
	Theme                *string      `json:"theme"`
	Timezone             *string      `json:"timezone"`
	EmailNotifications   *bool        `json:"emailNotifications"`
	PushNotifications    *bool        `json:"pushNotifications"`
	SmsNotifications     *bool        `json:"smsNotifications"`
	MarketingEmails      *bool        `json:"marketingEmails"`
	Autoplay             *bool        `json:"autoplay"`
	VideoQuality         *string      `json:"videoQuality"`
	SubtitlesEnabled     *bool        `json:"subtitlesEnabled"`
	SubtitlesLanguage    *string      `json:"subtitlesLanguage"`
	MaturityRating       *string      `json:"maturityRating"`
	DataSaverMode        *bool        `json:"dataSaverMode"`
	TwoFactorEnabled     *bool        `json:"twoFactorEnabled"`
	SessionTimeout       *int         `json:"sessionTimeout"`
	PrivacyShowProfile   *bool        `json:"privacyShowProfile"`
	PrivacyShowActivity  *bool        `json:"privacyShowActivity"`
	PrivacyAllowMessages *bool        `json:"privacyAllowMessages"`
}

type Service interface {
	Create(ctx context.Context, req CreateSettingsRequest) (*Settings, error)
	FindByID(ctx context.Context, id snowflake.ID) (*Settings, error)
	FindByUserProfileID(ctx context.Context, userProfileID snowflake.ID) (*Settings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (*Settings, error)
	Delete(ctx context.Context, id snowflake.ID) error
	ResetToDefaults(ctx context.Context, id snowflake.ID) (*Settings, error)
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidUserProfileID = errors.New("invalid_user_profile_id")
)

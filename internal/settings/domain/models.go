// Package domain contains the user settings model and service contracts.
package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/userhub/internal/lifecycle"
)

// Settings is the one-to-one preference child of a profile. At most one
// active row exists per profile, enforced by a unique index on
// user_profile_id.
type Settings struct {
	lifecycle.Envelope
	UserProfileID        snowflake.ID `gorm:"column:user_profile_id;not null;uniqueIndex" json:"userProfileId"`
	Language             string       `gorm:"type:text;not null" json:"language"`
	Theme                string       `gorm:"type:text;not null" json:"theme"`
	Timezone             string       `gorm:"type:text;not null" json:"timezone"`
	EmailNotifications   bool         `gorm:"not null" json:"emailNotifications"`
	PushNotifications    bool         `gorm:"not null" json:"pushNotifications"`
	SmsNotifications     bool         `gorm:"not null" json:"smsNotifications"`
	MarketingEmails      bool         `gorm:"not null" json:"marketingEmails"`
	Autoplay             bool         `gorm:"not null" json:"autoplay"`
	VideoQuality         string       `gorm:"type:text;not null" json:"videoQuality"`
	SubtitlesEnabled     bool         `gorm:"not null" json:"subtitlesEnabled"`
	SubtitlesLanguage    string       `gorm:"type:text;not null" json:"subtitlesLanguage"`
	MaturityRating       string       `gorm:"type:text;not null" json:"maturityRating"`
	DataSaverMode        bool         `gorm:"not null" json:"dataSaverMode"`
	TwoFactorEnabled     bool         `gorm:"not null" json:"twoFactorEnabled"`
	SessionTimeout       int          `gorm:"not null" json:"sessionTimeout"`
	PrivacyShowProfile   bool         `gorm:"not null" json:"privacyShowProfile"`
	PrivacyShowActivity  bool         `gorm:"not null" json:"privacyShowActivity"`
	PrivacyAllowMessages bool         `gorm:"not null" json:"privacyAllowMessages"`
}

// TableName sets the database table name.
func (Settings) TableName() string { return "user_settings" }

// Defaults returns the fixed preference defaults applied at creation and
// by resetToDefaults.
func Defaults() Settings {
	return Settings{
		Language:             "en",
		Theme:                "light",
		Timezone:             "UTC",
		EmailNotifications:   true,
		PushNotifications:    true,
		SmsNotifications:     false,
		MarketingEmails:      false,
		Autoplay:             true,
		VideoQuality:         "auto",
		SubtitlesEnabled:     false,
		SubtitlesLanguage:    "en",
		MaturityRating:       "PG-13",
		DataSaverMode:        false,
		TwoFactorEnabled:     false,
		SessionTimeout:       3600,
		PrivacyShowProfile:   true,
		PrivacyShowActivity:  false,
		PrivacyAllowMessages: true,
	}
}

// DefaultFields is the column form of Defaults, used by resetToDefaults.
func DefaultFields() map[string]any {
	d := Defaults()
	return map[string]any{
		"language":               d.Language,
		"theme":                  d.Theme,
		"timezone":               d.Timezone,
		"email_notifications":    d.EmailNotifications,
		"push_notifications":     d.PushNotifications,
		"sms_notifications":      d.SmsNotifications,
		"marketing_emails":       d.MarketingEmails,
		"autoplay":               d.Autoplay,
		"video_quality":          d.VideoQuality,
		"subtitles_enabled":      d.SubtitlesEnabled,
		"subtitles_language":     d.SubtitlesLanguage,
		"maturity_rating":        d.MaturityRating,
		"data_saver_mode":        d.DataSaverMode,
		"two_factor_enabled":     d.TwoFactorEnabled,
		"session_timeout":        d.SessionTimeout,
		"privacy_show_profile":   d.PrivacyShowProfile,
		"privacy_show_activity":  d.PrivacyShowActivity,
		"privacy_allow_messages": d.PrivacyAllowMessages,
	}
}

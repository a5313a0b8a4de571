package ghost

import (
	"time"
)

// Envelope keys, which double as collection path segments.
const (
	ResourcePosts       = "posts"
	ResourcePages       = "pages"
	ResourceTags        = "tags"
	ResourceMembers     = "members"
	ResourceUsers       = "users"
	ResourceTiers       = "tiers"
	ResourceNewsletters = "newsletters"
	ResourceOffers      = "offers"
	ResourceWebhooks    = "webhooks"
	ResourceImages      = "images"
	ResourceThemes      = "themes"
	ResourceSettings    = "settings"
	ResourceSite        = "site"
	ResourceConfig      = "config"
)

// Post statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusScheduled = "scheduled"
)

// Resource holds the fields shared by every stored resource.
type Resource struct {
	ID        string    `json:"id"         yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Author is the author summary embedded in posts.
type Author struct {
	ID           string `json:"id"                      yaml:"id"`
	Name         string `json:"name"                    yaml:"name"`
	Slug         string `json:"slug"                    yaml:"slug"`
	Email        string `json:"email,omitempty"         yaml:"email,omitempty"`
	ProfileImage string `json:"profile_image,omitempty" yaml:"profile_image,omitempty"`
}

// TagRef references a tag by name or slug in a post body.
type TagRef struct {
	ID   string `json:"id,omitempty"   yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Slug string `json:"slug,omitempty" yaml:"slug,omitempty"`
}

// SEO holds the metadata fields shared by posts, pages and tags.
type SEO struct {
	MetaTitle          string `json:"meta_title,omitempty"          yaml:"meta_title,omitempty"          validate:"omitempty,max=300"`
	MetaDescription    string `json:"meta_description,omitempty"    yaml:"meta_description,omitempty"    validate:"omitempty,max=500"`
	OGImage            string `json:"og_image,omitempty"            yaml:"og_image,omitempty"            validate:"omitempty,url"`
	OGTitle            string `json:"og_title,omitempty"            yaml:"og_title,omitempty"            validate:"omitempty,max=300"`
	OGDescription      string `json:"og_description,omitempty"      yaml:"og_description,omitempty"      validate:"omitempty,max=500"`
	TwitterImage       string `json:"twitter_image,omitempty"       yaml:"twitter_image,omitempty"       validate:"omitempty,url"`
	TwitterTitle       string `json:"twitter_title,omitempty"       yaml:"twitter_title,omitempty"       validate:"omitempty,max=300"`
	TwitterDescription string `json:"twitter_description,omitempty" yaml:"twitter_description,omitempty" validate:"omitempty,max=500"`
	CanonicalURL       string `json:"canonical_url,omitempty"       yaml:"canonical_url,omitempty"       validate:"omitempty,url"`
	CodeinjectionHead  string `json:"codeinjection_head,omitempty"  yaml:"codeinjection_head,omitempty"`
	CodeinjectionFoot  string `json:"codeinjection_foot,omitempty"  yaml:"codeinjection_foot,omitempty"`
}

// AuthorRef references a staff user by id or email in a post body.
type AuthorRef struct {
	ID    string `json:"id,omitempty"    yaml:"id,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
}

// Post is a post or a page.
type Post struct {
	Resource `yaml:",inline"`
	SEO      `yaml:",inline"`

	UUID           string     `json:"uuid"                      yaml:"uuid"`
	Title          string     `json:"title"                     yaml:"title"`
	Slug           string     `json:"slug"                      yaml:"slug"`
	HTML           string     `json:"html,omitempty"            yaml:"html,omitempty"`
	Lexical        string     `json:"lexical,omitempty"         yaml:"lexical,omitempty"`
	Mobiledoc      string     `json:"mobiledoc,omitempty"       yaml:"mobiledoc,omitempty"`
	FeatureImage   string     `json:"feature_image,omitempty"   yaml:"feature_image,omitempty"`
	Featured       bool       `json:"featured"                  yaml:"featured"`
	Status         string     `json:"status"                    yaml:"status"`
	Visibility     string     `json:"visibility"                yaml:"visibility"`
	PublishedAt    *time.Time `json:"published_at,omitempty"    yaml:"published_at,omitempty"`
	CustomExcerpt  string     `json:"custom_excerpt,omitempty"  yaml:"custom_excerpt,omitempty"`
	CustomTemplate string     `json:"custom_template,omitempty" yaml:"custom_template,omitempty"`
	URL            string     `json:"url,omitempty"             yaml:"url,omitempty"`
	Tags           []Tag      `json:"tags,omitempty"            yaml:"tags,omitempty"`
	Authors        []Author   `json:"authors,omitempty"         yaml:"authors,omitempty"`
	PrimaryAuthor  *Author    `json:"primary_author,omitempty"  yaml:"primary_author,omitempty"`
	PrimaryTag     *Tag       `json:"primary_tag,omitempty"     yaml:"primary_tag,omitempty"`
}

// Page shares the post representation.
type Page = Post

// PostFields are the writable post attributes shared by create and update.
type PostFields struct {
	SEO `yaml:",inline"`

	Slug           string      `json:"slug,omitempty"            yaml:"slug,omitempty"            validate:"omitempty,max=191"`
	HTML           string      `json:"html,omitempty"            yaml:"html,omitempty"`
	Lexical        string      `json:"lexical,omitempty"         yaml:"lexical,omitempty"`
	FeatureImage   string      `json:"feature_image,omitempty"   yaml:"feature_image,omitempty"   validate:"omitempty,url"`
	Featured       *bool       `json:"featured,omitempty"        yaml:"featured,omitempty"`
	Status         string      `json:"status,omitempty"          yaml:"status,omitempty"          validate:"omitempty,oneof=draft published scheduled"`
	Visibility     string      `json:"visibility,omitempty"      yaml:"visibility,omitempty"      validate:"omitempty,oneof=public members paid tiers"`
	PublishedAt    *time.Time  `json:"published_at,omitempty"    yaml:"published_at,omitempty"    validate:"required_if=Status scheduled"`
	CustomExcerpt  string      `json:"custom_excerpt,omitempty"  yaml:"custom_excerpt,omitempty"  validate:"omitempty,max=300"`
	CustomTemplate string      `json:"custom_template,omitempty" yaml:"custom_template,omitempty"`
	Tags           []TagRef    `json:"tags,omitempty"            yaml:"tags,omitempty"`
	Authors        []AuthorRef `json:"authors,omitempty"         yaml:"authors,omitempty"         validate:"omitempty,dive"`
}

// PostCreateRequest creates a post or page.
type PostCreateRequest struct {
	PostFields `yaml:",inline"`

	Title string `json:"title" yaml:"title" validate:"required,max=255"`
}

// PostUpdateRequest updates a post or page. UpdatedAt must echo the stored value.
type PostUpdateRequest struct {
	PostFields `yaml:",inline"`

	Title     string    `json:"title,omitempty" yaml:"title,omitempty" validate:"omitempty,max=255"`
	UpdatedAt time.Time `json:"updated_at"      yaml:"updated_at"`
}

// PageCreateRequest creates a page.
type PageCreateRequest = PostCreateRequest

// PageUpdateRequest updates a page.
type PageUpdateRequest = PostUpdateRequest

// Tag represents a tag.
type Tag struct {
	Resource `yaml:",inline"`
	SEO      `yaml:",inline"`

	Name         string `json:"name"                    yaml:"name"`
	Slug         string `json:"slug"                    yaml:"slug"`
	Description  string `json:"description,omitempty"   yaml:"description,omitempty"`
	FeatureImage string `json:"feature_image,omitempty" yaml:"feature_image,omitempty"`
	Visibility   string `json:"visibility,omitempty"    yaml:"visibility,omitempty"`
	AccentColor  string `json:"accent_color,omitempty"  yaml:"accent_color,omitempty"`
	URL          string `json:"url,omitempty"           yaml:"url,omitempty"`
	Count        *struct {
		Posts int `json:"posts" yaml:"posts"`
	} `json:"count,omitempty" yaml:"count,omitempty"`
}

// TagFields are the writable tag attributes.
type TagFields struct {
	SEO `yaml:",inline"`

	Slug         string `json:"slug,omitempty"          yaml:"slug,omitempty"          validate:"omitempty,max=191"`
	Description  string `json:"description,omitempty"   yaml:"description,omitempty"   validate:"omitempty,max=500"`
	FeatureImage string `json:"feature_image,omitempty" yaml:"feature_image,omitempty" validate:"omitempty,url"`
	Visibility   string `json:"visibility,omitempty"    yaml:"visibility,omitempty"    validate:"omitempty,oneof=public internal"`
	AccentColor  string `json:"accent_color,omitempty"  yaml:"accent_color,omitempty"  validate:"omitempty,hexcolor"`
}

// TagCreateRequest creates a tag.
type TagCreateRequest struct {
	TagFields `yaml:",inline"`

	Name string `json:"name" yaml:"name" validate:"required,max=191"`
}

// TagUpdateRequest updates a tag.
type TagUpdateRequest struct {
	TagFields `yaml:",inline"`

	Name      string    `json:"name,omitempty" yaml:"name,omitempty" validate:"omitempty,max=191"`
	UpdatedAt time.Time `json:"updated_at"     yaml:"updated_at"`
}

// Label is a member label.
type Label struct {
	ID   string `json:"id,omitempty"   yaml:"id,omitempty"`
	Name string `json:"name"           yaml:"name"`
	Slug string `json:"slug,omitempty" yaml:"slug,omitempty"`
}

// NewsletterRef references a newsletter subscription on a member.
type NewsletterRef struct {
	ID   string `json:"id"             yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Member represents a site member.
type Member struct {
	Resource `yaml:",inline"`

	UUID             string          `json:"uuid"                         yaml:"uuid"`
	Email            string          `json:"email"                        yaml:"email"`
	Name             string          `json:"name,omitempty"               yaml:"name,omitempty"`
	Note             string          `json:"note,omitempty"               yaml:"note,omitempty"`
	Geolocation      string          `json:"geolocation,omitempty"        yaml:"geolocation,omitempty"`
	Status           string          `json:"status"                       yaml:"status"`
	Labels           []Label         `json:"labels,omitempty"             yaml:"labels,omitempty"`
	Newsletters      []NewsletterRef `json:"newsletters,omitempty"        yaml:"newsletters,omitempty"`
	LastSeenAt       *time.Time      `json:"last_seen_at,omitempty"       yaml:"last_seen_at,omitempty"`
	AvatarImage      string          `json:"avatar_image,omitempty"       yaml:"avatar_image,omitempty"`
	EmailCount       int             `json:"email_count"                  yaml:"email_count"`
	EmailOpenedCount int             `json:"email_opened_count"           yaml:"email_opened_count"`
	EmailOpenRate    *float64        `json:"email_open_rate,omitempty"    yaml:"email_open_rate,omitempty"`
	Subscribed       bool            `json:"subscribed"                   yaml:"subscribed"`
	Comped           bool            `json:"comped,omitempty"             yaml:"comped,omitempty"`
}

// MemberFields are the writable member attributes.
type MemberFields struct {
	Name        string          `json:"name,omitempty"        yaml:"name,omitempty"        validate:"omitempty,max=191"`
	Note        string          `json:"note,omitempty"        yaml:"note,omitempty"        validate:"omitempty,max=2000"`
	Labels      []Label         `json:"labels,omitempty"      yaml:"labels,omitempty"`
	Newsletters []NewsletterRef `json:"newsletters,omitempty" yaml:"newsletters,omitempty"`
	Comped      *bool           `json:"comped,omitempty"      yaml:"comped,omitempty"`
}

// MemberCreateRequest creates a member.
type MemberCreateRequest struct {
	MemberFields `yaml:",inline"`

	Email string `json:"email" yaml:"email" validate:"required,email"`
}

// MemberUpdateRequest updates a member.
type MemberUpdateRequest struct {
	MemberFields `yaml:",inline"`

	Email     string    `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	UpdatedAt time.Time `json:"updated_at"      yaml:"updated_at"`
}

// Role is a staff role.
type Role struct {
	ID          string `json:"id"                    yaml:"id"`
	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// User is a staff user.
type User struct {
	Resource `yaml:",inline"`

	Name         string     `json:"name"                    yaml:"name"`
	Slug         string     `json:"slug"                    yaml:"slug"`
	Email        string     `json:"email"                   yaml:"email"`
	Status       string     `json:"status"                  yaml:"status"`
	Bio          string     `json:"bio,omitempty"           yaml:"bio,omitempty"`
	Website      string     `json:"website,omitempty"       yaml:"website,omitempty"`
	Location     string     `json:"location,omitempty"      yaml:"location,omitempty"`
	ProfileImage string     `json:"profile_image,omitempty" yaml:"profile_image,omitempty"`
	LastSeen     *time.Time `json:"last_seen,omitempty"     yaml:"last_seen,omitempty"`
	Roles        []Role     `json:"roles,omitempty"         yaml:"roles,omitempty"`
	URL          string     `json:"url,omitempty"           yaml:"url,omitempty"`
}

// Tier is a membership tier. Prices are in minor currency units.
type Tier struct {
	Resource `yaml:",inline"`

	Name           string   `json:"name"                       yaml:"name"`
	Slug           string   `json:"slug"                       yaml:"slug"`
	Description    string   `json:"description,omitempty"      yaml:"description,omitempty"`
	Active         bool     `json:"active"                     yaml:"active"`
	Type           string   `json:"type"                       yaml:"type"`
	Visibility     string   `json:"visibility"                 yaml:"visibility"`
	WelcomePageURL string   `json:"welcome_page_url,omitempty" yaml:"welcome_page_url,omitempty"`
	TrialDays      int      `json:"trial_days"                 yaml:"trial_days"`
	Currency       string   `json:"currency,omitempty"         yaml:"currency,omitempty"`
	MonthlyPrice   *int64   `json:"monthly_price,omitempty"    yaml:"monthly_price,omitempty"`
	YearlyPrice    *int64   `json:"yearly_price,omitempty"     yaml:"yearly_price,omitempty"`
	Benefits       []string `json:"benefits,omitempty"         yaml:"benefits,omitempty"`
}

// TierFields are the writable tier attributes.
type TierFields struct {
	Description    string   `json:"description,omitempty"      yaml:"description,omitempty"      validate:"omitempty,max=191"`
	Active         *bool    `json:"active,omitempty"           yaml:"active,omitempty"`
	Visibility     string   `json:"visibility,omitempty"       yaml:"visibility,omitempty"       validate:"omitempty,oneof=public none"`
	WelcomePageURL string   `json:"welcome_page_url,omitempty" yaml:"welcome_page_url,omitempty"`
	TrialDays      *int     `json:"trial_days,omitempty"       yaml:"trial_days,omitempty"       validate:"omitempty,min=0"`
	Currency       string   `json:"currency,omitempty"         yaml:"currency,omitempty"         validate:"omitempty,len=3"`
	MonthlyPrice   *int64   `json:"monthly_price,omitempty"    yaml:"monthly_price,omitempty"    validate:"omitempty,min=0"`
	YearlyPrice    *int64   `json:"yearly_price,omitempty"     yaml:"yearly_price,omitempty"     validate:"omitempty,min=0"`
	Benefits       []string `json:"benefits,omitempty"         yaml:"benefits,omitempty"`
}

// TierCreateRequest creates a paid tier.
type TierCreateRequest struct {
	TierFields `yaml:",inline"`

	Name string `json:"name" yaml:"name" validate:"required,max=191"`
}

// TierUpdateRequest updates a tier.
type TierUpdateRequest struct {
	TierFields `yaml:",inline"`

	Name      string    `json:"name,omitempty" yaml:"name,omitempty" validate:"omitempty,max=191"`
	UpdatedAt time.Time `json:"updated_at"     yaml:"updated_at"`
}

// Newsletter represents a newsletter.
type Newsletter struct {
	Resource `yaml:",inline"`

	UUID              string `json:"uuid"                   yaml:"uuid"`
	Name              string `json:"name"                   yaml:"name"`
	Slug              string `json:"slug"                   yaml:"slug"`
	Description       string `json:"description,omitempty"  yaml:"description,omitempty"`
	SenderName        string `json:"sender_name,omitempty"  yaml:"sender_name,omitempty"`
	SenderEmail       string `json:"sender_email,omitempty" yaml:"sender_email,omitempty"`
	SenderReplyTo     string `json:"sender_reply_to"        yaml:"sender_reply_to"`
	Status            string `json:"status"                 yaml:"status"`
	Visibility        string `json:"visibility"             yaml:"visibility"`
	SubscribeOnSignup bool   `json:"subscribe_on_signup"    yaml:"subscribe_on_signup"`
	SortOrder         int    `json:"sort_order"             yaml:"sort_order"`
}

// NewsletterFields are the writable newsletter attributes.
type NewsletterFields struct {
	Description       string `json:"description,omitempty"         yaml:"description,omitempty"         validate:"omitempty,max=2000"`
	SenderName        string `json:"sender_name,omitempty"         yaml:"sender_name,omitempty"         validate:"omitempty,max=191"`
	SenderEmail       string `json:"sender_email,omitempty"        yaml:"sender_email,omitempty"        validate:"omitempty,email"`
	SenderReplyTo     string `json:"sender_reply_to,omitempty"     yaml:"sender_reply_to,omitempty"     validate:"omitempty,oneof=newsletter support"`
	Status            string `json:"status,omitempty"              yaml:"status,omitempty"              validate:"omitempty,oneof=active archived"`
	Visibility        string `json:"visibility,omitempty"          yaml:"visibility,omitempty"          validate:"omitempty,oneof=members paid"`
	SubscribeOnSignup *bool  `json:"subscribe_on_signup,omitempty" yaml:"subscribe_on_signup,omitempty"`
}

// NewsletterCreateRequest creates a newsletter.
type NewsletterCreateRequest struct {
	NewsletterFields `yaml:",inline"`

	Name string `json:"name" yaml:"name" validate:"required,max=191"`
}

// NewsletterUpdateRequest updates a newsletter.
type NewsletterUpdateRequest struct {
	NewsletterFields `yaml:",inline"`

	Name      string    `json:"name,omitempty" yaml:"name,omitempty" validate:"omitempty,max=191"`
	UpdatedAt time.Time `json:"updated_at"     yaml:"updated_at"`
}

// Offer represents a discount offer on a tier.
type Offer struct {
	Resource `yaml:",inline"`

	Name               string `json:"name"                          yaml:"name"`
	Code               string `json:"code"                          yaml:"code"`
	DisplayTitle       string `json:"display_title"                 yaml:"display_title"`
	DisplayDescription string `json:"display_description,omitempty" yaml:"display_description,omitempty"`
	Type               string `json:"type"                          yaml:"type"`
	Cadence            string `json:"cadence"                       yaml:"cadence"`
	Amount             int64  `json:"amount"                        yaml:"amount"`
	Duration           string `json:"duration"                      yaml:"duration"`
	DurationInMonths   *int   `json:"duration_in_months,omitempty"  yaml:"duration_in_months,omitempty"`
	Currency           string `json:"currency,omitempty"            yaml:"currency,omitempty"`
	Status             string `json:"status"                        yaml:"status"`
	RedemptionCount    int    `json:"redemption_count"              yaml:"redemption_count"`
	Tier               *Tier  `json:"tier,omitempty"                yaml:"tier,omitempty"`
}

// OfferCreateRequest creates an offer.
type OfferCreateRequest struct {
	Name               string  `json:"name"                          yaml:"name"                          validate:"required,max=191"`
	Code               string  `json:"code"                          yaml:"code"                          validate:"required,max=191"`
	DisplayTitle       string  `json:"display_title,omitempty"       yaml:"display_title,omitempty"`
	DisplayDescription string  `json:"display_description,omitempty" yaml:"display_description,omitempty"`
	Type               string  `json:"type"                          yaml:"type"                          validate:"required,oneof=percent fixed trial"`
	Cadence            string  `json:"cadence"                       yaml:"cadence"                       validate:"required,oneof=month year"`
	Amount             int64   `json:"amount"                        yaml:"amount"                        validate:"min=0"`
	Duration           string  `json:"duration"                      yaml:"duration"                      validate:"required,oneof=once forever repeating trial"`
	DurationInMonths   *int    `json:"duration_in_months,omitempty"  yaml:"duration_in_months,omitempty"  validate:"required_if=Duration repeating"`
	Currency           string  `json:"currency,omitempty"            yaml:"currency,omitempty"            validate:"required_if=Type fixed"`
	Tier               TierRef `json:"tier"                          yaml:"tier"`
}

// TierRef references a tier by id.
type TierRef struct {
	ID string `json:"id" yaml:"id" validate:"required"`
}

// OfferUpdateRequest updates the mutable offer attributes.
type OfferUpdateRequest struct {
	Name               string    `json:"name,omitempty"                yaml:"name,omitempty"                validate:"omitempty,max=191"`
	Code               string    `json:"code,omitempty"                yaml:"code,omitempty"                validate:"omitempty,max=191"`
	DisplayTitle       string    `json:"display_title,omitempty"       yaml:"display_title,omitempty"`
	DisplayDescription string    `json:"display_description,omitempty" yaml:"display_description,omitempty"`
	Status             string    `json:"status,omitempty"              yaml:"status,omitempty"              validate:"omitempty,oneof=active archived"`
	UpdatedAt          time.Time `json:"updated_at"                    yaml:"updated_at"`
}

// Webhook represents an integration webhook.
type Webhook struct {
	Resource `yaml:",inline"`

	Event               string     `json:"event"                           yaml:"event"`
	TargetURL           string     `json:"target_url"                      yaml:"target_url"`
	Name                string     `json:"name,omitempty"                  yaml:"name,omitempty"`
	APIVersion          string     `json:"api_version,omitempty"           yaml:"api_version,omitempty"`
	IntegrationID       string     `json:"integration_id,omitempty"        yaml:"integration_id,omitempty"`
	Status              string     `json:"status,omitempty"                yaml:"status,omitempty"`
	LastTriggeredAt     *time.Time `json:"last_triggered_at,omitempty"     yaml:"last_triggered_at,omitempty"`
	LastTriggeredStatus string     `json:"last_triggered_status,omitempty" yaml:"last_triggered_status,omitempty"`
	LastTriggeredError  string     `json:"last_triggered_error,omitempty"  yaml:"last_triggered_error,omitempty"`
}

// WebhookCreateRequest creates a webhook. Only https targets are accepted.
type WebhookCreateRequest struct {
	Event         string `json:"event"                    yaml:"event"                    validate:"required"`
	TargetURL     string `json:"target_url"               yaml:"target_url"               validate:"required,url,startswith=https://"`
	Name          string `json:"name,omitempty"           yaml:"name,omitempty"`
	Secret        string `json:"secret,omitempty"         yaml:"secret,omitempty"`
	APIVersion    string `json:"api_version,omitempty"    yaml:"api_version,omitempty"`
	IntegrationID string `json:"integration_id,omitempty" yaml:"integration_id,omitempty"`
}

// WebhookUpdateRequest updates a webhook.
type WebhookUpdateRequest struct {
	Event      string    `json:"event,omitempty"       yaml:"event,omitempty"`
	TargetURL  string    `json:"target_url,omitempty"  yaml:"target_url,omitempty"  validate:"omitempty,url,startswith=https://"`
	Name       string    `json:"name,omitempty"        yaml:"name,omitempty"`
	APIVersion string    `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"            yaml:"updated_at"`
}

// Image is the result of an image upload.
type Image struct {
	URL string `json:"url"           yaml:"url"`
	Ref string `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// Theme represents an installed theme.
type Theme struct {
	Name      string                 `json:"name"              yaml:"name"`
	Package   map[string]interface{} `json:"package,omitempty" yaml:"package,omitempty"`
	Active    bool                   `json:"active"            yaml:"active"`
	Templates []interface{}          `json:"templates,omitempty" yaml:"templates,omitempty"`
}

// Version returns the package.json version of the theme, if any.
func (t *Theme) Version() string {
	if version, ok := t.Package["version"].(string); ok {
		return version
	}

	return ""
}

// Site is the public site summary returned by /site/.
type Site struct {
	Title       string `json:"title"                  yaml:"title"`
	Description string `json:"description,omitempty"  yaml:"description,omitempty"`
	Logo        string `json:"logo,omitempty"         yaml:"logo,omitempty"`
	Icon        string `json:"icon,omitempty"         yaml:"icon,omitempty"`
	AccentColor string `json:"accent_color,omitempty" yaml:"accent_color,omitempty"`
	Locale      string `json:"locale,omitempty"       yaml:"locale,omitempty"`
	URL         string `json:"url"                    yaml:"url"`
	Version     string `json:"version"                yaml:"version"`
}

// Setting is a single site setting.
type Setting struct {
	Key   string      `json:"key"   yaml:"key"   validate:"required"`
	Value interface{} `json:"value" yaml:"value"`
}

// ImageUploadRequest describes an image upload.
type ImageUploadRequest struct {
	FileName string `validate:"required"`
	Purpose  string `validate:"omitempty,oneof=image profile_image icon"`
	Ref      string
}

package model

import "github.com/go-playground/validator/v10"

// Brand is an advertiser owning campaigns. Brands live in the external
// document store; this package only defines their snapshot shape.
type Brand struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Color    string `json:"color"`
	Hex      string `json:"hex"`
	Industry string `json:"industry"`
}

// CampaignType classifies the communication.
type CampaignType string

const (
	TypeNewArrival  CampaignType = "new_arrival"
	TypeLaunch      CampaignType = "launch"
	TypePromotion   CampaignType = "promotion"
	TypeInformative CampaignType = "informative"
	TypeCyber       CampaignType = "cyber"
)

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	StatusPlanned     CampaignStatus = "planned"
	StatusSent        CampaignStatus = "sent"
	StatusRescheduled CampaignStatus = "rescheduled"
)

// TouchpointChannel is the delivery channel of a single send.
type TouchpointChannel string

const (
	ChannelNone     TouchpointChannel = "none"
	ChannelEmail    TouchpointChannel = "email"
	ChannelSMS      TouchpointChannel = "sms"
	ChannelWhatsApp TouchpointChannel = "whatsapp"
	ChannelSocial   TouchpointChannel = "social"
	ChannelPush     TouchpointChannel = "push"
)

// Tactics holds the tactical sub-record of a campaign.
type Tactics struct {
	CallToAction string `json:"callToAction"`
	IsBlast      bool   `json:"isBlast"`
	Coupon       string `json:"coupon"`
}

// Touchpoint is one channel-specific send within a campaign. It is
// created and removed only as part of editing its owning campaign.
//
// Optional text fields are kept as empty strings rather than omitted so
// documents round-trip through the store unchanged.
type Touchpoint struct {
	ID      string            `json:"id"`
	Channel TouchpointChannel `json:"channel"`
	Name    string            `json:"name"`
	Time    string            `json:"time"`
	Segment string            `json:"segment"`
}

// Campaign is a single scheduled marketing communication tied to one
// brand and one calendar date.
//
// Date is a date-only ISO string (YYYY-MM-DD) with no time zone. Time,
// when non-empty, is an independent HH:MM 24-hour clock value.
type Campaign struct {
	ID          string         `json:"id" validate:"required"`
	BrandID     string         `json:"brandId" validate:"required"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Date        string         `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string         `json:"time" validate:"omitempty,datetime=15:04"`
	Status      CampaignStatus `json:"status" validate:"required,oneof=planned sent rescheduled"`
	Type        CampaignType   `json:"type" validate:"required,oneof=new_arrival launch promotion informative cyber"`
	Tactics     Tactics        `json:"tactics"`
	Segment     string         `json:"segment"`
	Touchpoints []Touchpoint   `json:"touchpoints"`
	Notify      bool           `json:"notify"`
	NotifyEmail string         `json:"notifyEmail"`
}

// CalendarDay is one cell of a materialized month grid. It is derived
// on every month-view computation and never persisted.
type CalendarDay struct {
	Date           string `json:"date"` // ISO YYYY-MM-DD
	IsCurrentMonth bool   `json:"isCurrentMonth"`
	IsToday        bool   `json:"isToday"`
}

var validate = validator.New()

// ValidateBrand checks the required brand fields before any persistence
// call. The identifier and display name must both be present.
func ValidateBrand(b Brand) error {
	return validate.Struct(b)
}

// ValidateCampaign checks the required campaign fields (brand, date,
// title) plus enum and date/time well-formedness.
func ValidateCampaign(c Campaign) error {
	return validate.Struct(c)
}

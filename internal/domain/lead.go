package domain

import "time"

type LeadStatus string

const (
	LeadStatusNew          LeadStatus = "new"
	LeadStatusContacted    LeadStatus = "contacted"
	LeadStatusQualified    LeadStatus = "qualified"
	LeadStatusProposalSent LeadStatus = "proposal_sent"
	LeadStatusNegotiation  LeadStatus = "negotiation"
	LeadStatusConverted    LeadStatus = "converted"
	LeadStatusLost         LeadStatus = "lost"
)

// Terminal reports whether no further transitions are permitted.
func (s LeadStatus) Terminal() bool {
	return s == LeadStatusConverted || s == LeadStatusLost
}

// TerminalLeadStatuses is used for conditional writes guarding the
// terminal-state invariant at the store boundary.
var TerminalLeadStatuses = []string{string(LeadStatusConverted), string(LeadStatusLost)}

// CanTransition validates a plain status edit. Any non-terminal status may
// move to any other non-terminal status or to lost; the transition into
// converted is owned by the conversion orchestrator and is never a plain edit.
func CanTransition(from, to LeadStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == LeadStatusConverted {
		return false
	}
	return validLeadStatuses[to]
}

var validLeadStatuses = map[LeadStatus]bool{
	LeadStatusNew:          true,
	LeadStatusContacted:    true,
	LeadStatusQualified:    true,
	LeadStatusProposalSent: true,
	LeadStatusNegotiation:  true,
	LeadStatusConverted:    true,
	LeadStatusLost:         true,
}

func ValidLeadStatus(s string) bool { return validLeadStatuses[LeadStatus(s)] }

type ProjectType string

const (
	ProjectTypeFullHome      ProjectType = "full_home"
	ProjectTypeMultipleRooms ProjectType = "multiple_rooms"
	ProjectTypeSingleRoom    ProjectType = "single_room"
	ProjectTypeKitchen       ProjectType = "kitchen"
	ProjectTypeBathroom      ProjectType = "bathroom"
	ProjectTypeOffice        ProjectType = "office"
	ProjectTypeCommercial    ProjectType = "commercial"
)

var validProjectTypes = map[ProjectType]bool{
	ProjectTypeFullHome: true, ProjectTypeMultipleRooms: true, ProjectTypeSingleRoom: true,
	ProjectTypeKitchen: true, ProjectTypeBathroom: true, ProjectTypeOffice: true, ProjectTypeCommercial: true,
}

func ValidProjectType(s string) bool { return validProjectTypes[ProjectType(s)] }

type PropertyType string

const (
	PropertyTypeApartment        PropertyType = "apartment"
	PropertyTypeVilla            PropertyType = "villa"
	PropertyTypeIndependentHouse PropertyType = "independent_house"
	PropertyTypeOffice           PropertyType = "office"
	PropertyTypeShowroom         PropertyType = "showroom"
	PropertyTypeRestaurant       PropertyType = "restaurant"
	PropertyTypeOther            PropertyType = "other"
)

var validPropertyTypes = map[PropertyType]bool{
	PropertyTypeApartment: true, PropertyTypeVilla: true, PropertyTypeIndependentHouse: true,
	PropertyTypeOffice: true, PropertyTypeShowroom: true, PropertyTypeRestaurant: true, PropertyTypeOther: true,
}

func ValidPropertyType(s string) bool { return validPropertyTypes[PropertyType(s)] }

type Timeline string

const (
	TimelineImmediate    Timeline = "immediate"
	TimelineOneToThree   Timeline = "1-3 months"
	TimelineThreeToSix   Timeline = "3-6 months"
	TimelineSixToTwelve  Timeline = "6-12 months"
	TimelineMoreThanYear Timeline = "more_than_year"
)

var validTimelines = map[Timeline]bool{
	TimelineImmediate: true, TimelineOneToThree: true, TimelineThreeToSix: true,
	TimelineSixToTwelve: true, TimelineMoreThanYear: true,
}

func ValidTimeline(s string) bool { return validTimelines[Timeline(s)] }

type LeadSource string

const (
	SourceWebsiteForm   LeadSource = "website_form"
	SourceReferral      LeadSource = "referral"
	SourceSocialMedia   LeadSource = "social_media"
	SourceAdvertisement LeadSource = "advertisement"
	SourceWalkIn        LeadSource = "walk_in"
	SourcePhoneCall     LeadSource = "phone_call"
	SourceOther         LeadSource = "other"
)

var validLeadSources = map[LeadSource]bool{
	SourceWebsiteForm: true, SourceReferral: true, SourceSocialMedia: true,
	SourceAdvertisement: true, SourceWalkIn: true, SourcePhoneCall: true, SourceOther: true,
}

func ValidLeadSource(s string) bool { return validLeadSources[LeadSource(s)] }

// Lead is an unconverted sales prospect.
type Lead struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`

	BudgetMin    *int64       `json:"budgetMin,omitempty"`
	BudgetMax    *int64       `json:"budgetMax,omitempty"`
	ProjectType  ProjectType  `json:"projectType"`
	PropertyType PropertyType `json:"propertyType"`
	Timeline     Timeline     `json:"timeline"`

	// Source is immutable after creation; it feeds the scoring engine.
	Source      LeadSource `json:"source"`
	Description string     `json:"description,omitempty"`

	Score  int        `json:"score"`
	Status LeadStatus `json:"status"`

	AssignedTo         *int64 `json:"assignedTo,omitempty"`
	ReferredBy         *int64 `json:"referredBy,omitempty"`
	ConvertedToProject *int64 `json:"convertedToProject,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l *Lead) FullName() string {
	return l.FirstName + " " + l.LastName
}

package lead

import "time"

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformMessenger Platform = "messenger"
	PlatformWhatsApp  Platform = "whatsapp"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformInstagram, PlatformMessenger, PlatformWhatsApp:
		return true
	}
	return false
}

type ReplyStatus string

const (
	ReplyYes     ReplyStatus = "yes"
	ReplyNo      ReplyStatus = "no"
	ReplySeen    ReplyStatus = "seen"
	ReplyNoReply ReplyStatus = "no_reply"
)

func (r ReplyStatus) Valid() bool {
	switch r {
	case ReplyYes, ReplyNo, ReplySeen, ReplyNoReply:
		return true
	}
	return false
}

type InterestLevel string

const (
	InterestInterested    InterestLevel = "interested"
	InterestNotInterested InterestLevel = "not_interested"
	InterestPending       InterestLevel = "pending"
)

func (i InterestLevel) Valid() bool {
	switch i {
	case InterestInterested, InterestNotInterested, InterestPending:
		return true
	}
	return false
}

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusReplied   Status = "replied"
	StatusDemoSent  Status = "demo_sent"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusReplied, StatusDemoSent, StatusConverted, StatusLost:
		return true
	}
	return false
}

// ActiveStatuses are the statuses counted as an ongoing conversation.
var ActiveStatuses = []Status{StatusContacted, StatusReplied, StatusDemoSent}

type Lead struct {
	ID              string         `json:"id"`
	BrandName       string         `json:"brandName"`
	InstagramHandle *string        `json:"instagramHandle,omitempty"`
	Platform        Platform       `json:"platform"`
	DateContacted   *time.Time     `json:"dateContacted,omitempty"`
	ReplyStatus     *ReplyStatus   `json:"replyStatus,omitempty"`
	InterestLevel   *InterestLevel `json:"interestLevel,omitempty"`
	DemoSent        bool           `json:"demoSent"`
	Status          Status         `json:"status"`
	Notes           *string        `json:"notes,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// Enum fields and dateContacted arrive as strings; an empty string means
// "not set" on create and "clear" on update.
type CreateInput struct {
	BrandName       string  `json:"brandName"`
	InstagramHandle *string `json:"instagramHandle"`
	Platform        string  `json:"platform"`
	DateContacted   *string `json:"dateContacted"`
	ReplyStatus     *string `json:"replyStatus"`
	InterestLevel   *string `json:"interestLevel"`
	DemoSent        *bool   `json:"demoSent"`
	Status          *string `json:"status"`
	Notes           *string `json:"notes"`
}

type UpdateInput struct {
	BrandName       *string `json:"brandName"`
	InstagramHandle *string `json:"instagramHandle"`
	Platform        *string `json:"platform"`
	DateContacted   *string `json:"dateContacted"`
	ReplyStatus     *string `json:"replyStatus"`
	InterestLevel   *string `json:"interestLevel"`
	DemoSent        *bool   `json:"demoSent"`
	Status          *string `json:"status"`
	Notes           *string `json:"notes"`
}

// Patch is a validated UpdateInput. A Set flag with a nil value clears the
// column.
type Patch struct {
	BrandName *string

	InstagramHandleSet bool
	InstagramHandle    *string

	Platform *Platform

	DateContactedSet bool
	DateContacted    *time.Time

	ReplyStatusSet bool
	ReplyStatus    *ReplyStatus

	InterestLevelSet bool
	InterestLevel    *InterestLevel

	DemoSent *bool
	Status   *Status

	NotesSet bool
	Notes    *string
}

type ListFilter struct {
	Status *Status
	Limit  int
	Skip   int
}

type ListResult struct {
	Leads []Lead `json:"leads"`
	Total int    `json:"total"`
	Limit int    `json:"limit"`
	Skip  int    `json:"skip"`
}

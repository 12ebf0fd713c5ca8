package model

type ResourceType string

const (
	ResourceHall        ResourceType = "hall"
	ResourceOutdoor     ResourceType = "outdoor"
	ResourceMeetingRoom ResourceType = "meeting_room"
)

// Resource is a shared physical asset residents can reserve. The catalog is
// fixed at startup and never mutated for the lifetime of the process.
type Resource struct {
	ID       string       `json:"id" validate:"required,min=1,max=64"`
	Name     string       `json:"name" validate:"required,min=2,max=100"`
	Type     ResourceType `json:"type" validate:"required,oneof=hall outdoor meeting_room"`
	Capacity int          `json:"capacity" validate:"required,min=1,max=1000"`
}

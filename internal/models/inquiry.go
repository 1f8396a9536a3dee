package models

type InquiryStatus string

const (
	InquiryPending    InquiryStatus = "pending"
	InquiryProcessing InquiryStatus = "processing"
	InquiryCompleted  InquiryStatus = "completed"
	InquiryCancelled  InquiryStatus = "cancelled"
)

// Valid reports whether s is one of the known inquiry statuses.
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryPending, InquiryProcessing, InquiryCompleted, InquiryCancelled:
		return true
	}
	return false
}

// Inquiry is a contact form submission.
type Inquiry struct {
	Record
	Name          string        `json:"name" validate:"required,max=100"`
	Email         string        `json:"email" validate:"required,email"`
	Phone         string        `json:"phone,omitempty" validate:"omitempty,max=32"`
	Company       string        `json:"company,omitempty" validate:"omitempty,max=100"`
	InquiryType   string        `json:"inquiry_type,omitempty" validate:"omitempty,oneof=general product partnership press support"`
	Subject       string        `json:"subject" validate:"required,max=200"`
	Message       string        `json:"message" validate:"required"`
	PrivacyAgreed bool          `json:"privacy_agreed"`
	Status        InquiryStatus `json:"status"`
}

func (Inquiry) TableName() string { return "inquiries" }

type InquiryPatch struct {
	Status *InquiryStatus `json:"status,omitempty"`
}

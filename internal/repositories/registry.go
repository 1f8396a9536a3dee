package repositories

import "github.com/go-playground/validator/v10"

// Set holds one accessor per entity, all sharing a TableClient.
type Set struct {
	Products      *ProductAccessor
	Blog          *BlogAccessor
	Orders        *OrderAccessor
	Inventory     *InventoryAccessor
	Inquiries     *InquiryAccessor
	FAQs          *FAQAccessor
	Notices       *NoticeAccessor
	Events        *EventAccessor
	Subscriptions *SubscriptionAccessor
	Profiles      *ProfileAccessor
	Credentials   *CredentialAccessor
}

// NewSet builds every accessor over client.
func NewSet(client TableClient, validate *validator.Validate) *Set {
	if validate == nil {
		validate = validator.New()
	}
	return &Set{
		Products:      NewProductAccessor(client, validate),
		Blog:          NewBlogAccessor(client, validate),
		Orders:        NewOrderAccessor(client, validate),
		Inventory:     NewInventoryAccessor(client, validate),
		Inquiries:     NewInquiryAccessor(client, validate),
		FAQs:          NewFAQAccessor(client, validate),
		Notices:       NewNoticeAccessor(client, validate),
		Events:        NewEventAccessor(client, validate),
		Subscriptions: NewSubscriptionAccessor(client, validate),
		Profiles:      NewProfileAccessor(client, validate),
		Credentials:   NewCredentialAccessor(client, validate),
	}
}

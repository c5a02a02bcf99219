package dto

// RequestFields carries the mutable fields of a document request, used by
// both create and edit. Status and id are owned by the lifecycle engine and
// never accepted from the client.
type RequestFields struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Document  string `json:"document" validate:"required"`
	Date      string `json:"date"`
	Reason    string `json:"reason"`
}

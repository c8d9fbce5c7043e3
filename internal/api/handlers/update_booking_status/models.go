package update_booking_status

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected cancelled in_progress completed"`
	// ExpectedStatus статус, который клиент видел последним; при расхождении запрос отклоняется с 409
	ExpectedStatus *string `json:"expectedStatus,omitempty"`
}

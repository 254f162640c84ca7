package violations

type RecordViolationRequest struct {
	UserID        string  `json:"user_id" validate:"required,uuid"`
	ReservationID *string `json:"reservation_id" validate:"omitempty,uuid"`
	Type          string  `json:"type" validate:"required,oneof=NO_SHOW OVERSTAY ABUSIVE_CANCEL OTHER"`
	Description   string  `json:"description" validate:"max=500"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=HANDLED APPEALED"`
}

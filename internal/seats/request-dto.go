package seats

type CreateSeatRequest struct {
	SeatNumber string `json:"seat_number" validate:"required,max=32"`
	Area       string `json:"area" validate:"required,max=32"`
	Status     string `json:"status" validate:"omitempty,oneof=ENABLED DISABLED"`
	Remark     string `json:"remark" validate:"max=255"`
}

type UpdateSeatRequest struct {
	SeatNumber *string `json:"seat_number" validate:"omitempty,min=1,max=32"`
	Area       *string `json:"area" validate:"omitempty,min=1,max=32"`
	Status     *string `json:"status" validate:"omitempty,oneof=ENABLED DISABLED"`
	Remark     *string `json:"remark" validate:"omitempty,max=255"`
}

type SetSeatStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ENABLED DISABLED"`
}

package request

type PassengerInput struct {
	SeatID string `json:"seat_id" validate:"required,uuid4"`
	Name   string `json:"name" validate:"required,min=1,max=100"`
	Age    int    `json:"age" validate:"required,gte=1,lte=120"`
	Gender string `json:"gender" validate:"required,oneof=male female other"`
}

type CreateBookingRequest struct {
	ScheduleID   string           `json:"schedule_id" validate:"required,uuid4"`
	Passengers   []PassengerInput `json:"passengers" validate:"required,min=1,max=6,dive"`
	ContactEmail string           `json:"contact_email" validate:"required,email"`
	ContactPhone string           `json:"contact_phone" validate:"required,len=10"`
}

type ConfirmPaymentRequest struct {
	PaymentRef    string `json:"payment_ref" validate:"required,min=4,max=100"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=card upi netbanking wallet"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

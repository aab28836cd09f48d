package request

type SearchSchedulesRequest struct {
	From string `json:"from" validate:"required,min=2,max=60"`
	To   string `json:"to" validate:"required,min=2,max=60"`
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

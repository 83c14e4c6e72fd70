package request

type SelectDate struct {
	Date string `validate:"required,datetime=2006-01-02" json:"date"`
}

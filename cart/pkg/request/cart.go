package request

type AddItem struct {
	ProductId string `validate:"required" json:"product_id"`
}

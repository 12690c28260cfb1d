package orders

type AddItemPayload struct {
	ItemID     string  `json:"item_id" validate:"required"`
	Position   int     `json:"position" validate:"required,min=1"`
	Notes      *string `json:"notes,omitempty" mod:"trim"`
	IsOptional bool    `json:"is_optional"`
}

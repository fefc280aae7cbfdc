package event

type Type string

const (
	ItemOfferedEvent Type = "ItemOfferedEvent"
	ItemBoughtEvent  Type = "ItemBoughtEvent"
)

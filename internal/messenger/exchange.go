package messenger

import "github.com/streadway/amqp"

type exchange struct {
	Name        string
	Type        string
	Durable     bool
	AutoDeleted bool
	Internal    bool
	NoWait      bool
	Arguments   amqp.Table
}

var exchanges = map[string]exchange{
	"item.listed": {
		Name:        "item.listed",
		Type:        "topic",
		Durable:     true,
		AutoDeleted: false,
		Internal:    false,
		NoWait:      true,
		Arguments:   nil,
	},
	"item.sold": {
		Name:        "item.sold",
		Type:        "topic",
		Durable:     true,
		AutoDeleted: false,
		Internal:    false,
		NoWait:      true,
		Arguments:   nil,
	},
}

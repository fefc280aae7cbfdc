package dev

import (
	"encoding/json"
	"log"

	"github.com/dappmarket/marketplace-ledger/internal/config"
)

func Dump(el interface{}) {
	elJson, _ := json.MarshalIndent(el, "", "  ")
	log.Println(string(elJson))
}

func DD(el interface{}) {
	if config.Get().Debug {
		Dump(el)
	}
	panic(nil)
}

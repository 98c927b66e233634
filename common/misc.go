package common

import (
	"github.com/fundwit/go-commons/types"
	"github.com/sony/sonyflake"
)

// NextId draws the next record id from the worker. Generation only fails on a
// broken clock, which nothing here can recover from.
func NextId(idWorker *sonyflake.Sonyflake) types.ID {
	id, err := idWorker.NextID()
	if err != nil {
		panic(err)
	}
	return types.ID(id)
}

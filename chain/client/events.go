package client

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// DecodeEvent unpacks one log emitted by this contract into out, which
// must be a pointer to a struct whose fields match the event inputs.
func (b *BoundContract) DecodeEvent(event string, log ethtypes.Log, out interface{}) error {
	ev, ok := b.ABI.Events[event]
	if !ok {
		return fmt.Errorf("%s: unknown event %q", b.Name, event)
	}
	if len(log.Topics) == 0 || log.Topics[0] != ev.ID {
		return &DecodeError{
			Function: b.Name + "." + event,
			Cause:    fmt.Errorf("log topic does not match event signature"),
		}
	}
	if len(log.Data) > 0 {
		if err := b.ABI.UnpackIntoInterface(out, event, log.Data); err != nil {
			return &DecodeError{Function: b.Name + "." + event, Cause: err}
		}
	}
	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if err := abi.ParseTopics(out, indexed, log.Topics[1:]); err != nil {
		return &DecodeError{Function: b.Name + "." + event, Cause: err}
	}
	return nil
}

// FindEvent scans a confirmed receipt for the first matching event
// emitted by this contract and decodes it into out. Returns false when
// the receipt carries no such event.
func (b *BoundContract) FindEvent(event string, receipt *ethtypes.Receipt, out interface{}) (bool, error) {
	ev, ok := b.ABI.Events[event]
	if !ok {
		return false, fmt.Errorf("%s: unknown event %q", b.Name, event)
	}
	for _, log := range receipt.Logs {
		if log == nil || log.Address != b.Address {
			continue
		}
		if len(log.Topics) == 0 || log.Topics[0] != ev.ID {
			continue
		}
		if err := b.DecodeEvent(event, *log, out); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

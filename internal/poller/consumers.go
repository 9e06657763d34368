package poller

import (
	"errors"

	"github.com/rickgao/ouc-dashboard/internal/model"
)

// Fanout delivers each snapshot to every consumer in order. All consumers
// run even when one fails; their errors are joined.
func Fanout(consumers ...Consumer) Consumer {
	list := make([]Consumer, 0, len(consumers))
	for _, c := range consumers {
		if c != nil {
			list = append(list, c)
		}
	}
	return ConsumerFunc(func(s model.Snapshot) error {
		var errs []error
		for _, c := range list {
			if err := c.HandleSnapshot(s); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

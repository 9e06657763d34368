package poller

import (
	"errors"
	"testing"

	"github.com/rickgao/ouc-dashboard/internal/model"
)

func TestFanout(t *testing.T) {
	errA := errors.New("a failed")
	var order []string

	c := Fanout(
		ConsumerFunc(func(model.Snapshot) error { order = append(order, "a"); return errA }),
		nil,
		ConsumerFunc(func(model.Snapshot) error { order = append(order, "b"); return nil }),
	)

	err := c.HandleSnapshot(model.Snapshot{})
	if !errors.Is(err, errA) {
		t.Errorf("err = %v, want %v", err, errA)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("order = %v, want [a b]", order)
	}
}

func TestFanout_Empty(t *testing.T) {
	if err := Fanout().HandleSnapshot(model.Snapshot{}); err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}

package types_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/shipper/pkg/domain/types"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
	}{
		{
			name: "dev error",
			err:  types.ErrDev,
			kind: "DevError",
		},
		{
			name: "release error wrapped by goerr",
			err:  goerr.Wrap(types.ErrRelease, "no pending changes", goerr.V("version", "1.2.0")),
			kind: "ReleaseError",
		},
		{
			name: "tag exists error wrapped twice",
			err:  goerr.Wrap(goerr.Wrap(types.ErrTagExists, "release exists"), "failed to publish"),
			kind: "TagExistsError",
		},
		{
			name: "tag error wrapped by fmt",
			err:  fmt.Errorf("create release: %w", types.ErrTag),
			kind: "TagError",
		},
		{
			name: "template error is not terminal",
			err:  types.ErrTemplate,
			kind: "",
		},
		{
			name: "plain error",
			err:  errors.New("connection reset"),
			kind: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, types.Kind(tt.err)).Equal(tt.kind)
			gt.Value(t, types.IsTerminal(tt.err)).Equal(tt.kind != "")
		})
	}
}

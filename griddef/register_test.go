package griddef_test

import (
	"testing"

	"github.com/go-spatial/tegola/dict"

	"github.com/go-spatial/gridline/griddef"
	"github.com/go-spatial/gridline/gridline"
)

type stubProvider struct{}

func (stubProvider) GridFor(name string) (*gridline.Definition, error) {
	return nil, griddef.ErrGridNotFound(name)
}

func (stubProvider) Grids() ([]string, error) { return nil, nil }

func TestRegister(t *testing.T) {
	type tcase struct {
		typ string
		err error
	}

	init := func(griddef.ProviderConfig) (griddef.Provider, error) {
		return stubProvider{}, nil
	}

	fn := func(tc tcase) func(*testing.T) {
		return func(t *testing.T) {
			err := griddef.Register(tc.typ, init, nil)
			if tc.err != nil {
				if err == nil || err.Error() != tc.err.Error() {
					t.Errorf("error, expected %v got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Errorf("error, expected nil got %v", err)
				return
			}

			p, err := griddef.For(tc.typ, dict.Dict{})
			if err != nil {
				t.Errorf("for, expected nil got %v", err)
			}
			if p == nil {
				t.Errorf("provider, expected not nil")
			}

			griddef.Unregister(tc.typ)
			if _, err = griddef.For(tc.typ, dict.Dict{}); err == nil {
				t.Errorf("for after unregister, expected error got nil")
			}
		}
	}

	tests := map[string]tcase{
		"register":   {typ: "stub"},
		"duplicated": {typ: "dup"},
	}

	// pre-register the duplicate
	griddef.Register("dup", init, nil)
	tests["duplicated"] = tcase{typ: "dup", err: griddef.ErrProviderTypeExists("dup")}
	defer griddef.Unregister("dup")

	for name, tc := range tests {
		t.Run(name, fn(tc))
	}
}

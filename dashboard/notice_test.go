package dashboard

import (
	"errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/menuadmin/api"
	"github.com/arthur-debert/menuadmin/internal/validation"
	"github.com/arthur-debert/menuadmin/types"
)

func TestNoticeFor(t *testing.T) {
	serverErr := &api.APIError{Op: "create menu item", Status: 400, Message: "Name already exists"}
	bareErr := &api.APIError{Op: "delete menu item", Status: 500}
	netErr := &api.NetworkError{Op: "list menu items", Err: errors.New("connection refused")}

	testCases := []struct {
		name string
		op   Op
		err  error
		want Notice
	}{
		{"create ok", OpCreate, nil, Notice{KindSuccess, "Item added successfully"}},
		{"update ok", OpUpdate, nil, Notice{KindSuccess, "Item updated successfully"}},
		{"delete ok", OpDelete, nil, Notice{KindSuccess, "Item deleted successfully"}},
		{"server message wins", OpCreate, serverErr, Notice{KindError, "Name already exists"}},
		{"wrapped server message", OpUpdate, fmt.Errorf("saving: %w", serverErr), Notice{KindError, "Name already exists"}},
		{"create fallback", OpCreate, netErr, Notice{KindError, "Operation failed"}},
		{"update fallback", OpUpdate, bareErr, Notice{KindError, "Operation failed"}},
		{"delete fallback", OpDelete, bareErr, Notice{KindError, "Failed to delete item"}},
		{"load fallback", OpLoad, netErr, Notice{KindError, "Failed to load menu items"}},
		{
			"reload after create",
			OpCreate,
			&ReloadError{Op: OpCreate, Err: netErr},
			Notice{KindWarning, "Item added successfully but failed to load menu items"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NoticeFor(tc.op, tc.err); got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestNoticeForValidation(t *testing.T) {
	err := validation.Validate(types.MenuItemDraft{}).Err()
	got := NoticeFor(OpCreate, err)
	want := Notice{KindWarning, "Description is required. Name is required. Valid price is required"}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

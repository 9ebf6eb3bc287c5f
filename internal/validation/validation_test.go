package validation

import (
	"errors"
	"math"
	"testing"

	"github.com/arthur-debert/menuadmin/types"
	"github.com/google/go-cmp/cmp"
)

func TestValidate(t *testing.T) {
	valid := types.MenuItemDraft{
		Name:        types.Ptr("Naan"),
		Description: types.Ptr("Butter naan"),
		Price:       types.Ptr(40.0),
	}

	testCases := []struct {
		name   string
		mutate func(d *types.MenuItemDraft)
		want   Errors
	}{
		{
			name:   "valid draft",
			mutate: func(d *types.MenuItemDraft) {},
			want:   Errors{},
		},
		{
			name:   "missing name",
			mutate: func(d *types.MenuItemDraft) { d.Name = nil },
			want:   Errors{FieldName: "Name is required"},
		},
		{
			name:   "whitespace name",
			mutate: func(d *types.MenuItemDraft) { d.Name = types.Ptr("   \t") },
			want:   Errors{FieldName: "Name is required"},
		},
		{
			name:   "blank description",
			mutate: func(d *types.MenuItemDraft) { d.Description = types.Ptr(" ") },
			want:   Errors{FieldDescription: "Description is required"},
		},
		{
			name:   "missing price",
			mutate: func(d *types.MenuItemDraft) { d.Price = nil },
			want:   Errors{FieldPrice: "Valid price is required"},
		},
		{
			name:   "zero price",
			mutate: func(d *types.MenuItemDraft) { d.Price = types.Ptr(0.0) },
			want:   Errors{FieldPrice: "Valid price is required"},
		},
		{
			name:   "negative price",
			mutate: func(d *types.MenuItemDraft) { d.Price = types.Ptr(-5.0) },
			want:   Errors{FieldPrice: "Valid price is required"},
		},
		{
			name:   "NaN price",
			mutate: func(d *types.MenuItemDraft) { d.Price = types.Ptr(math.NaN()) },
			want:   Errors{FieldPrice: "Valid price is required"},
		},
		{
			name:   "tiny positive price",
			mutate: func(d *types.MenuItemDraft) { d.Price = types.Ptr(0.01) },
			want:   Errors{},
		},
		{
			name: "empty draft",
			mutate: func(d *types.MenuItemDraft) {
				*d = types.MenuItemDraft{}
			},
			want: Errors{
				FieldName:        "Name is required",
				FieldDescription: "Description is required",
				FieldPrice:       "Valid price is required",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := valid
			tc.mutate(&d)
			got := Validate(d)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateIgnoresOtherFields(t *testing.T) {
	d := types.MenuItemDraft{
		Name:        types.Ptr("Lassi"),
		Description: types.Ptr("Sweet yoghurt drink"),
		Price:       types.Ptr(50.0),
		Category:    types.Ptr(types.Category("Unknown")),
		Image:       types.Ptr("not a url"),
	}
	if errs := Validate(d); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestErrorsAsError(t *testing.T) {
	if err := (Errors{}).Err(); err != nil {
		t.Errorf("expected nil for empty errors, got %v", err)
	}

	errs := Validate(types.MenuItemDraft{})
	err := errs.Err()
	var target Errors
	if !errors.As(err, &target) {
		t.Fatalf("expected errors.As to find Errors in %v", err)
	}
	if diff := cmp.Diff([]string{"description", "name", "price"}, target.Fields()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	want := "invalid menu item: description: Description is required; name: Name is required; price: Valid price is required"
	if err.Error() != want {
		t.Errorf("unexpected message:\n%s", err.Error())
	}
}

package formats

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/arthur-debert/menuadmin/testutil"
	"github.com/arthur-debert/menuadmin/types"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{30, "₹30"},
		{12.5, "₹12.5"},
		{0.99, "₹0.99"},
	}
	for _, tt := range tests {
		if got := Price(tt.in); got != tt.want {
			t.Errorf("Price(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTable(t *testing.T) {
	menu := testutil.LoadMenu(t)

	t.Run("items", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Table.Items(&buf, []types.MenuItem{menu.Samosa, menu.ButterChicken}); err != nil {
			t.Fatalf("Items: %v", err)
		}
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), buf.String())
		}
		if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "AVAILABLE") {
			t.Errorf("unexpected header %q", lines[0])
		}
		if !strings.Contains(lines[2], "Butter Chicken") || !strings.Contains(lines[2], "₹320") {
			t.Errorf("unexpected row %q", lines[2])
		}
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Table.Items(&buf, nil); err != nil {
			t.Fatalf("Items: %v", err)
		}
		if !strings.Contains(buf.String(), "No items found") {
			t.Errorf("expected empty state, got %q", buf.String())
		}
	})

	t.Run("item hides data urls", func(t *testing.T) {
		item := menu.Samosa
		item.Image = "data:image/png;base64,iVBORw0KGgo="
		var buf bytes.Buffer
		if err := Table.Item(&buf, item); err != nil {
			t.Fatalf("Item: %v", err)
		}
		if strings.Contains(buf.String(), "base64") {
			t.Errorf("data url leaked into output:\n%s", buf.String())
		}
		if !strings.Contains(buf.String(), "(embedded image/png)") {
			t.Errorf("expected embedded image summary:\n%s", buf.String())
		}
	})
}

func TestJSON(t *testing.T) {
	menu := testutil.LoadMenu(t)

	var buf bytes.Buffer
	if err := JSON.Items(&buf, menu.All); err != nil {
		t.Fatalf("Items: %v", err)
	}
	var got []types.MenuItem
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if diff := cmp.Diff(menu.All, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), `"_id": "m-samosa"`) {
		t.Error("expected wire identifier name")
	}

	buf.Reset()
	if err := JSON.Items(&buf, nil); err != nil {
		t.Fatalf("Items: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

func TestYAML(t *testing.T) {
	menu := testutil.LoadMenu(t)

	var buf bytes.Buffer
	if err := YAML.Item(&buf, menu.ButterChicken); err != nil {
		t.Fatalf("Item: %v", err)
	}

	var got map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if got["id"] != "m-butter-chicken" || got["category"] != "Main Course" || got["isAvailable"] != true {
		t.Errorf("unexpected YAML fields: %v", got)
	}
	if got["price"] != 320 {
		t.Errorf("expected price 320, got %#v", got["price"])
	}
}

func TestMarkdown(t *testing.T) {
	menu := testutil.LoadMenu(t)

	t.Run("items", func(t *testing.T) {
		item := menu.Samosa
		item.Name = "Chaat | Papdi"
		var buf bytes.Buffer
		if err := Markdown.Items(&buf, []types.MenuItem{item}); err != nil {
			t.Fatalf("Items: %v", err)
		}
		want := "| Name | Category | Price | Spice | Vegetarian | Available |\n" +
			"|------|----------|------:|-------|------------|-----------|\n" +
			"| Chaat \\| Papdi | Starter | ₹30 | Medium | yes | yes |\n"
		if diff := cmp.Diff(want, buf.String()); diff != "" {
			t.Errorf("markdown mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("item", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Markdown.Item(&buf, menu.PaneerTikka); err != nil {
			t.Fatalf("Item: %v", err)
		}
		out := buf.String()
		if !strings.HasPrefix(out, "# Paneer Tikka\n\n") {
			t.Errorf("expected h1 title, got %q", out)
		}
		if !strings.Contains(out, "![Paneer Tikka](https://img.example/paneer.jpg)") {
			t.Errorf("expected image link, got %q", out)
		}
	})
}

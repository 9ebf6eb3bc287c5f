package formats

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/menuadmin/types"
	"gopkg.in/yaml.v3"
)

// JSON writes the backend's wire shape, identifiers under "_id"
var JSON = &OutputFormat{
	Name: "json",
	Items: func(w io.Writer, items []types.MenuItem) error {
		if items == nil {
			items = []types.MenuItem{}
		}
		return encodeJSON(w, items)
	},
	Item: func(w io.Writer, item types.MenuItem) error {
		return encodeJSON(w, item)
	},
}

// YAML writes one mapping per item
var YAML = &OutputFormat{
	Name: "yaml",
	Items: func(w io.Writer, items []types.MenuItem) error {
		records := make([]record, len(items))
		for i, item := range items {
			records[i] = toRecord(item)
		}
		return encodeYAML(w, records)
	},
	Item: func(w io.Writer, item types.MenuItem) error {
		return encodeYAML(w, toRecord(item))
	},
}

func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	mustRegister(JSON)
	mustRegister(YAML)
}

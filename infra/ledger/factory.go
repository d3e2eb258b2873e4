package ledger

import (
	"github.com/kilianp07/charterbid/core/factory"
)

var registry = factory.NewRegistry[Store]()

func init() {
	_ = registry.Register("jsonl", func(conf map[string]any) (Store, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "charterbid-ledger.jsonl"
		}
		return NewJSONLStore(c.Path)
	})
	_ = registry.Register("sqlite", func(conf map[string]any) (Store, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "charterbid-ledger.db"
		}
		return NewSQLiteStore(c.Path)
	})
}

// New opens the store described by cfg. An empty type disables the ledger
// and New returns nil, nil.
func New(cfg factory.ModuleConfig) (Store, error) {
	if cfg.Type == "" {
		return nil, nil
	}
	return registry.Create(cfg)
}

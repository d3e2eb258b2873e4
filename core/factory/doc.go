// Package factory is a generic registry that instantiates pluggable modules
// (metrics sinks, ledger stores) from configuration. A module is described
// by a type name and a map of raw settings which the factory decodes into a
// typed struct.
//
//	reg := factory.NewRegistry[ledger.Store]()
//	reg.Register("jsonl", func(conf map[string]any) (ledger.Store, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return ledger.NewJSONLStore(c.Path)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "ledger.jsonl"}})
package factory

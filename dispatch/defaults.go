package dispatch

// DefaultPointers are the manual-migration notes shipped with the tool.
var DefaultPointers = map[string]string{
	"RRSI_VAL_SID_SINGLE_CONVERT":  "No SIDs in Lakehouse; join on business keys to dimension tables.",
	"DDIF_FIELDINFO_GET":           "Use Spark schema & control metadata tables.",
	"RSDMD_WRITE_ATTRIBUTES_TEXTS": "Maintain attributes/texts in Delta; MERGE for upserts.",
}

// NewDefaultRegistry returns a registry holding DefaultPointers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for fm, note := range DefaultPointers {
		r.put(Entry{Name: Key(fm), Kind: KindPointer, Note: note})
	}
	return r
}

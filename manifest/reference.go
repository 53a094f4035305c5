package manifest

// TableRef names a table to plan.
type TableRef struct {
	Catalog string
	Schema  string
	Name    string
	Reason  string
}

// DefaultReferenceTables are the shared lookup tables every migration plan
// starts from.
var DefaultReferenceTables = []TableRef{
	{Catalog: "uc_catalog", Schema: "ref", Name: "fx_rates", Reason: "FX conversion reference"},
	{Catalog: "uc_catalog", Schema: "ref", Name: "currency_decimals", Reason: "Currency decimals"},
	{Catalog: "uc_catalog", Schema: "ref", Name: "uom_factors", Reason: "UoM base/factors"},
	{Catalog: "uc_catalog", Schema: "ref", Name: "calendar", Reason: "Enterprise calendar"},
	{Catalog: "uc_catalog", Schema: "ref", Name: "logsys_map", Reason: "Logical system map"},
}

// NewReferencePlan returns a manifest holding DefaultReferenceTables.
func NewReferencePlan(planID string) *Manifest {
	m := New(planID)
	for _, t := range DefaultReferenceTables {
		m.EnsureTable(t.Catalog, t.Schema, t.Name, t.Reason)
	}
	return m
}

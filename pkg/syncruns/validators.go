package syncruns

type ListSyncRunsQuery struct {
	Limit       int      `query:"limit" json:"limit,omitempty" default:"10" validate:"min=1,max=100"`
	Offset      int      `query:"offset" json:"offset,omitempty" validate:"min=0"`
	FranchiseID *string  `query:"franchise_id" json:"franchise_id,omitempty"`
	Status      []string `query:"status" json:"status,omitempty" validate:"dive,oneof=completed failed"`
}

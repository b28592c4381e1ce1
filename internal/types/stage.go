package types

// CocoonStage is the closed set of lifecycle stages. Ordinary updates must
// follow the transition table below; the admin stage override is the only
// bypass and is always audited with is_override=true.
type CocoonStage string

const (
	StageSeedling      CocoonStage = "seedling"
	StageIncubating    CocoonStage = "incubating"
	StageActive        CocoonStage = "active"
	StageMetamorphosis CocoonStage = "metamorphosis"
	StageEmergence     CocoonStage = "emergence"
	StageComplete      CocoonStage = "complete"
	StageArchived      CocoonStage = "archived"
)

var AllCocoonStages = []CocoonStage{
	StageSeedling,
	StageIncubating,
	StageActive,
	StageMetamorphosis,
	StageEmergence,
	StageComplete,
	StageArchived,
}

var allowedTransitions = map[CocoonStage][]CocoonStage{
	StageSeedling:      {StageIncubating, StageArchived},
	StageIncubating:    {StageActive, StageArchived},
	StageActive:        {StageMetamorphosis},
	StageMetamorphosis: {StageEmergence},
	StageEmergence:     {StageComplete},
	StageComplete:      {},
	StageArchived:      {},
}

func IsValidCocoonStage(stage CocoonStage) bool {
	_, ok := allowedTransitions[stage]
	return ok
}

// CanTransition reports whether from→to is a legal forward transition.
func CanTransition(from, to CocoonStage) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// evolution chain records use prefixed stage names so the dream phase and the
// cocoon phases share one column.
var chainStageNames = map[CocoonStage]string{
	StageSeedling:      "cocoon_seedling",
	StageIncubating:    "cocoon_incubating",
	StageActive:        "cocoon_active",
	StageMetamorphosis: "cocoon_metamorphosis",
	StageEmergence:     "cocoon_emergence",
	StageComplete:      "cocoon_complete",
	StageArchived:      "cocoon_archived",
}

func ChainStageName(stage CocoonStage) string {
	if name, ok := chainStageNames[stage]; ok {
		return name
	}
	return string(stage)
}

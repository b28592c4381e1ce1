package types

import "testing"

func TestCanTransitionTable(t *testing.T) {
	allowed := []struct{ from, to CocoonStage }{
		{StageSeedling, StageIncubating},
		{StageSeedling, StageArchived},
		{StageIncubating, StageActive},
		{StageIncubating, StageArchived},
		{StageActive, StageMetamorphosis},
		{StageMetamorphosis, StageEmergence},
		{StageEmergence, StageComplete},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to CocoonStage }{
		{StageSeedling, StageActive},
		{StageSeedling, StageComplete},
		{StageActive, StageArchived},
		{StageActive, StageSeedling},
		{StageComplete, StageArchived},
		{StageArchived, StageSeedling},
		{StageEmergence, StageMetamorphosis},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestTerminalStagesHaveNoSuccessors(t *testing.T) {
	for _, terminal := range []CocoonStage{StageComplete, StageArchived} {
		for _, to := range AllCocoonStages {
			if CanTransition(terminal, to) {
				t.Errorf("terminal stage %s has successor %s", terminal, to)
			}
		}
	}
}

func TestIsValidCocoonStage(t *testing.T) {
	for _, stage := range AllCocoonStages {
		if !IsValidCocoonStage(stage) {
			t.Errorf("expected %s to be valid", stage)
		}
	}
	if IsValidCocoonStage(CocoonStage("chrysalis")) {
		t.Error("expected unknown stage to be invalid")
	}
}

func TestChainStageName(t *testing.T) {
	if got := ChainStageName(StageSeedling); got != "cocoon_seedling" {
		t.Errorf("unexpected chain stage name %q", got)
	}
}

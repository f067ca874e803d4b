package steps_test

import (
	"testing"

	"cleanplate/internal/profile"
	"cleanplate/internal/steps"
)

func TestCanonicalOrder(t *testing.T) {
	want := []steps.Output{
		steps.OutputInput,
		steps.OutputAIMask,
		steps.OutputInitialBoxes,
		steps.OutputFinalBoxes,
		steps.OutputBoxMask,
		steps.OutputCutMask,
		steps.OutputMaskLayers,
		steps.OutputFinalMask,
		steps.OutputMaskOverlay,
		steps.OutputMaskedImage,
		steps.OutputDenoiserMask,
		steps.OutputDenoisedImage,
	}
	got := steps.NewTable().Outputs()
	if len(got) != len(want) {
		t.Fatalf("table has %d outputs, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTableSensitivityIsCumulative(t *testing.T) {
	table := steps.NewTable()
	outputs := table.Outputs()
	for i := 1; i < len(outputs); i++ {
		earlier := keySet(table.Step(outputs[i-1]).TrackedKeys())
		later := keySet(table.Step(outputs[i]).TrackedKeys())
		for key := range earlier {
			if _, ok := later[key]; !ok {
				t.Fatalf("%s does not inherit %q tracked by %s", outputs[i], key, outputs[i-1])
			}
		}
	}
}

func TestTableKeysExistInProfileSnapshot(t *testing.T) {
	prof := profile.Default()
	snap := prof.Snapshot()
	table := steps.NewTable()
	for _, output := range table.Outputs() {
		for _, key := range table.Step(output).TrackedKeys() {
			if _, ok := snap.Value(key); !ok {
				t.Fatalf("%s tracks %q, which is not a snapshot key", output, key)
			}
		}
	}
}

func TestTableStalenessCascadesForwardOnly(t *testing.T) {
	prof := profile.Default()
	table := steps.NewTable()
	for _, output := range table.Outputs() {
		table.Step(output).MarkComputed(prof.Snapshot())
	}

	// A masker growth change leaves everything before cut_mask fresh and
	// everything from cut_mask on stale.
	prof.Masker.MaskGrowthSteps++
	snap := prof.Snapshot()

	fresh := map[steps.Output]bool{
		steps.OutputInput:        true,
		steps.OutputAIMask:       true,
		steps.OutputInitialBoxes: true,
		steps.OutputFinalBoxes:   true,
		steps.OutputBoxMask:      true,
	}
	for _, output := range table.Outputs() {
		stale := table.Step(output).IsStale(snap)
		if fresh[output] && stale {
			t.Fatalf("%s went stale on a downstream-only change", output)
		}
		if !fresh[output] && !stale {
			t.Fatalf("%s stayed fresh despite an upstream change", output)
		}
	}
}

func TestTableFreshTableIsFullyStale(t *testing.T) {
	prof := profile.Default()
	snap := prof.Snapshot()
	table := steps.NewTable()
	for _, output := range table.Outputs() {
		if !table.Step(output).IsStale(snap) {
			t.Fatalf("%s not stale on a fresh table", output)
		}
	}
}

func TestTableStepPanicsOnUndefinedOutput(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for undefined output")
		}
	}()
	steps.NewTable().Step(steps.Output("resize"))
}

func TestTableDescriptionsPresent(t *testing.T) {
	table := steps.NewTable()
	for _, output := range table.Outputs() {
		if table.Step(output).Description() == "" {
			t.Fatalf("%s has no description", output)
		}
	}
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return set
}
